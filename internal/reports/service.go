// internal/reports/service.go
package reports

import (
	"bytes"
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gabibigol/pos-venda/internal/apperr"
)

const (
	DefaultPageSize  = 20
	MaxPageSize      = 100
	topTechnicianCap = 5
)

// Period delimits the report window, inclusive.
type Period struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Pagination describes the slice of metric rows a report returned.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// SummaryMetrics aggregates metric rows across technicians.
type SummaryMetrics struct {
	TotalServiceOrders  int64   `json:"totalServiceOrders"`
	TotalRevenue        float64 `json:"totalRevenue"`
	AverageServiceValue float64 `json:"averageServiceValue"`
}

// TechnicianReport is the per-technician (or all-technician) report.
type TechnicianReport struct {
	Period            Period             `json:"period"`
	TechnicianDetails *TechnicianDetails `json:"technicianDetails,omitempty"`
	Metrics           SummaryMetrics     `json:"metrics"`
	Data              []TechnicianMetric `json:"data"`
	Pagination        Pagination         `json:"pagination"`
}

// BusinessMetrics is the business-wide aggregate of a consolidated report.
type BusinessMetrics struct {
	TotalRevenue      float64            `json:"totalRevenue"`
	TotalOrders       int64              `json:"totalOrders"`
	AverageOrderValue float64            `json:"averageOrderValue"`
	TopTechnicians    []TechnicianMetric `json:"topTechnicians"`
}

// ConsolidatedReport aggregates the whole business for a period.
type ConsolidatedReport struct {
	Period          Period             `json:"period"`
	BusinessMetrics BusinessMetrics    `json:"businessMetrics"`
	DetailedData    []TechnicianMetric `json:"detailedData"`
	Pagination      Pagination         `json:"pagination"`
}

// Options filters report generation. TechnicianID restricts the technician
// report to a single technician and must resolve to an existing one.
type Options struct {
	TechnicianID *uint
	StartDate    time.Time
	EndDate      time.Time
	Page         int
	Limit        int
}

// ExportOptions selects the window and output format of a report export.
type ExportOptions struct {
	StartDate time.Time
	EndDate   time.Time
	Format    string
}

// ExportArtifact is a completed, fully flushed report file.
type ExportArtifact struct {
	Filename    string
	ContentType string
	Content     *bytes.Buffer
}

// ConsolidatedRenderer serializes a consolidated report into a downloadable
// file.
type ConsolidatedRenderer interface {
	RenderConsolidatedReport(report *ConsolidatedReport, format string) (*ExportArtifact, error)
}

// Service assembles technician and consolidated reports.
type Service struct {
	metrics     MetricsStore
	technicians TechnicianDirectory
	renderer    ConsolidatedRenderer
}

func NewService(metrics MetricsStore, technicians TechnicianDirectory, renderer ConsolidatedRenderer) *Service {
	return &Service{metrics: metrics, technicians: technicians, renderer: renderer}
}

func normalizeWindow(start, end time.Time) (time.Time, time.Time, error) {
	now := time.Now()
	if start.IsZero() {
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	}
	if end.IsZero() {
		end = now
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, apperr.NewValidation("Data inicial não pode ser posterior à data final")
	}
	return start, end, nil
}

func clampPagination(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	switch {
	case limit > MaxPageSize:
		limit = MaxPageSize
	case limit <= 0:
		limit = DefaultPageSize
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// summarize aggregates metric rows. The average is the mean of the rows'
// averages; an empty set yields zero, never NaN.
func summarize(rows []TechnicianMetric) SummaryMetrics {
	m := SummaryMetrics{}
	for _, row := range rows {
		m.TotalServiceOrders += row.TotalServiceOrders
		m.TotalRevenue += row.TotalRevenue
		m.AverageServiceValue += row.AverageServiceValue
	}
	if n := len(rows); n > 0 {
		m.AverageServiceValue = round2(m.AverageServiceValue / float64(n))
	}
	m.TotalRevenue = round2(m.TotalRevenue)
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GenerateTechnicianReport builds the report for one technician, or for all
// technicians when no id is given.
func (s *Service) GenerateTechnicianReport(ctx context.Context, opts Options) (*TechnicianReport, error) {
	start, end, err := normalizeWindow(opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	var details *TechnicianDetails
	if opts.TechnicianID != nil {
		details, err = s.technicians.FindByID(ctx, *opts.TechnicianID)
		if err != nil {
			return nil, err
		}
	}

	page, limit := clampPagination(opts.Page, opts.Limit)
	filter := MetricsFilter{TechnicianID: opts.TechnicianID, StartDate: start, EndDate: end}

	rows, err := s.metrics.CalculateMetrics(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.metrics.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = make([]TechnicianMetric, 0)
	}

	return &TechnicianReport{
		Period:            Period{StartDate: start, EndDate: end},
		TechnicianDetails: details,
		Metrics:           summarize(rows),
		Data:              rows,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			TotalCount: total,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

// GenerateConsolidatedReport builds the business-wide report. Business
// metrics cover every technician in the window; DetailedData is the
// requested page of rows.
func (s *Service) GenerateConsolidatedReport(ctx context.Context, opts Options) (*ConsolidatedReport, error) {
	start, end, err := normalizeWindow(opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	filter := MetricsFilter{StartDate: start, EndDate: end}
	rows, err := s.metrics.GenerateConsolidatedReport(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.metrics.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := summarize(rows)
	var avgOrder float64
	if summary.TotalServiceOrders > 0 {
		avgOrder = round2(summary.TotalRevenue / float64(summary.TotalServiceOrders))
	}

	page, limit := clampPagination(opts.Page, opts.Limit)
	detailed := paginateRows(rows, page, limit)

	return &ConsolidatedReport{
		Period: Period{StartDate: start, EndDate: end},
		BusinessMetrics: BusinessMetrics{
			TotalRevenue:      summary.TotalRevenue,
			TotalOrders:       summary.TotalServiceOrders,
			AverageOrderValue: avgOrder,
			TopTechnicians:    topTechnicians(rows),
		},
		DetailedData: detailed,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			TotalCount: total,
			TotalPages: totalPages(total, limit),
		},
	}, nil
}

// topTechnicians returns up to five technicians by revenue, descending.
// The sort is stable so ties keep their input order.
func topTechnicians(rows []TechnicianMetric) []TechnicianMetric {
	top := make([]TechnicianMetric, len(rows))
	copy(top, rows)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalRevenue > top[j].TotalRevenue
	})
	if len(top) > topTechnicianCap {
		top = top[:topTechnicianCap]
	}
	return top
}

// ExportConsolidatedReport renders the consolidated report of the window as
// a PDF or Excel file. The artifact is complete before this call returns.
func (s *Service) ExportConsolidatedReport(ctx context.Context, opts ExportOptions) (*ExportArtifact, error) {
	report, err := s.GenerateConsolidatedReport(ctx, Options{
		StartDate: opts.StartDate,
		EndDate:   opts.EndDate,
		Limit:     MaxPageSize,
	})
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderConsolidatedReport(report, normalizeFormat(opts.Format))
}

func normalizeFormat(format string) string {
	switch strings.ToLower(format) {
	case "excel", "xlsx":
		return "excel"
	default:
		return "pdf"
	}
}

func paginateRows(rows []TechnicianMetric, page, limit int) []TechnicianMetric {
	offset := (page - 1) * limit
	if offset >= len(rows) {
		return make([]TechnicianMetric, 0)
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
