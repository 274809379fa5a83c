// internal/reports/store.go
package reports

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/gabibigol/pos-venda/internal/apperr"
	"github.com/gabibigol/pos-venda/models"
)

// MetricsFilter selects which completed service orders feed a report.
type MetricsFilter struct {
	TechnicianID *uint
	StartDate    time.Time
	EndDate      time.Time
}

// TechnicianMetric is the per-technician aggregate over a date window.
// Derived on demand, never stored.
type TechnicianMetric struct {
	TechnicianID        uint    `json:"technicianId"`
	TechnicianName      string  `json:"technicianName"`
	TotalServiceOrders  int64   `json:"totalServiceOrders"`
	TotalRevenue        float64 `json:"totalRevenue"`
	AverageServiceValue float64 `json:"averageServiceValue"`
}

// TechnicianDetails identifies a technician in report headers.
type TechnicianDetails struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MetricsStore computes technician aggregates from the service-order ledger.
type MetricsStore interface {
	CalculateMetrics(ctx context.Context, filter MetricsFilter, limit, offset int) ([]TechnicianMetric, error)
	GenerateConsolidatedReport(ctx context.Context, filter MetricsFilter) ([]TechnicianMetric, error)
	Count(ctx context.Context, filter MetricsFilter) (int64, error)
}

// TechnicianDirectory resolves technician ids to their details.
type TechnicianDirectory interface {
	FindByID(ctx context.Context, id uint) (*TechnicianDetails, error)
}

// GormMetricsStore implements MetricsStore over service_orders joined to
// users.
type GormMetricsStore struct {
	db *gorm.DB
}

func NewGormMetricsStore(db *gorm.DB) *GormMetricsStore {
	return &GormMetricsStore{db: db}
}

func (s *GormMetricsStore) baseQuery(ctx context.Context, filter MetricsFilter) *gorm.DB {
	q := s.db.WithContext(ctx).
		Table("users u").
		Joins("JOIN service_orders so ON so.technician_id = u.id").
		Where("u.role = ?", models.RoleTechnician).
		Where("so.status = ?", models.ServiceOrderCompleted).
		Where("so.completed_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate).
		Where("so.deleted_at IS NULL").
		Where("u.deleted_at IS NULL")
	if filter.TechnicianID != nil {
		q = q.Where("u.id = ?", *filter.TechnicianID)
	}
	return q
}

const metricColumns = `
	u.id AS technician_id,
	u.name AS technician_name,
	COUNT(so.id) AS total_service_orders,
	COALESCE(SUM(so.total_amount), 0) AS total_revenue,
	COALESCE(AVG(so.total_amount), 0) AS average_service_value`

func (s *GormMetricsStore) CalculateMetrics(ctx context.Context, filter MetricsFilter, limit, offset int) ([]TechnicianMetric, error) {
	var rows []TechnicianMetric
	err := s.baseQuery(ctx, filter).
		Select(metricColumns).
		Group("u.id, u.name").
		Order("total_revenue DESC, u.id").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.NewStore("Falha ao calcular métricas de técnicos", err)
	}
	return rows, nil
}

func (s *GormMetricsStore) GenerateConsolidatedReport(ctx context.Context, filter MetricsFilter) ([]TechnicianMetric, error) {
	var rows []TechnicianMetric
	err := s.baseQuery(ctx, filter).
		Select(metricColumns).
		Group("u.id, u.name").
		Order("total_revenue DESC, u.id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.NewStore("Falha ao gerar relatório consolidado", err)
	}
	return rows, nil
}

// Count counts the technicians matching the filter, with the same predicate
// the metric queries use.
func (s *GormMetricsStore) Count(ctx context.Context, filter MetricsFilter) (int64, error) {
	var total int64
	err := s.baseQuery(ctx, filter).
		Distinct("u.id").
		Count(&total).Error
	if err != nil {
		return 0, apperr.NewStore("Falha ao contar técnicos", err)
	}
	return total, nil
}

// GormTechnicianDirectory resolves technicians from the users table.
type GormTechnicianDirectory struct {
	db *gorm.DB
}

func NewGormTechnicianDirectory(db *gorm.DB) *GormTechnicianDirectory {
	return &GormTechnicianDirectory{db: db}
}

func (d *GormTechnicianDirectory) FindByID(ctx context.Context, id uint) (*TechnicianDetails, error) {
	var user models.User
	err := d.db.WithContext(ctx).
		Where("role = ?", models.RoleTechnician).
		First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFound("Técnico não encontrado")
		}
		return nil, apperr.NewStore("Falha ao buscar técnico", err)
	}
	return &TechnicianDetails{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}
