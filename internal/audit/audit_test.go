// internal/audit/audit_test.go
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var record map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestReportAccessRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)

	logger.ReportAccess(42, "financial_summary", "period_start", "2023-01-01")

	records := decodeRecords(t, &buf)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "REPORT_ACCESS", record["msg"])
	assert.Equal(t, "report_access", record["type"])
	assert.Equal(t, float64(42), record["user_id"])
	assert.Equal(t, "financial_summary", record["report"])
	assert.Equal(t, "2023-01-01", record["period_start"])
	assert.Equal(t, "INFO", record["level"])

	id, ok := record["audit_id"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestEachRecordGetsOwnAuditID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)

	logger.ReportExport(1, "pdf", "relatorio_financeiro_20230101_120000.pdf")
	logger.ReportExport(1, "excel", "relatorio_financeiro_20230101_120001.xlsx")

	records := decodeRecords(t, &buf)
	require.Len(t, records, 2)
	assert.NotEqual(t, records[0]["audit_id"], records[1]["audit_id"])
	assert.Equal(t, "report_export", records[0]["type"])
	assert.Equal(t, "pdf", records[0]["format"])
}

func TestAccessDeniedIsWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)

	logger.AccessDenied("/api/reports/consolidated", "GET", "Acesso negado", 7)

	records := decodeRecords(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "WARN", records[0]["level"])
	assert.Equal(t, "/api/reports/consolidated", records[0]["route"])
	assert.Equal(t, "Acesso negado", records[0]["reason"])
}

func TestSystemErrorIsError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)

	logger.SystemError("export", errors.New("disco cheio"))

	records := decodeRecords(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "ERROR", records[0]["level"])
	assert.Equal(t, "export", records[0]["scope"])
	assert.Equal(t, "disco cheio", records[0]["error"])
}

func TestNewCreatesFileAndMirrors(t *testing.T) {
	dir := t.TempDir()
	var mirror bytes.Buffer

	logger, err := New(Config{Dir: dir, Mirror: &mirror})
	require.NoError(t, err)
	defer logger.Close()

	logger.ReportAccess(1, "cash_flow")

	data, err := os.ReadFile(filepath.Join(dir, "audit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "REPORT_ACCESS")
	assert.Equal(t, string(data), mirror.String())
}
