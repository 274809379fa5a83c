// internal/reports/store_test.go
package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds a *gorm.DB that only renders SQL. The postgres driver does
// not touch the network until a statement actually executes, so no database
// is required.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestMetricsQueryExcludesSoftDeletedRows(t *testing.T) {
	store := NewGormMetricsStore(dryRunDB(t))

	filter := MetricsFilter{
		StartDate: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC),
	}

	var rows []TechnicianMetric
	stmt := store.baseQuery(context.Background(), filter).
		Select(metricColumns).
		Group("u.id, u.name").
		Find(&rows).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "so.deleted_at IS NULL")
	assert.Contains(t, sql, "u.deleted_at IS NULL")
}

func TestMetricsQueryFiltersByTechnician(t *testing.T) {
	store := NewGormMetricsStore(dryRunDB(t))

	id := uint(7)
	filter := MetricsFilter{
		TechnicianID: &id,
		StartDate:    time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC),
	}

	var rows []TechnicianMetric
	stmt := store.baseQuery(context.Background(), filter).
		Select(metricColumns).
		Group("u.id, u.name").
		Find(&rows).Statement

	assert.Contains(t, stmt.SQL.String(), "u.id = ")
	assert.Contains(t, stmt.Vars, id)
}
