// internal/finance/service.go
package finance

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gabibigol/pos-venda/internal/apperr"
	"github.com/gabibigol/pos-venda/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Period delimits the date window of a report, inclusive on both ends.
type Period struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Totals carries the grand totals of a financial summary.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// CategoryTotal is the aggregate of one category inside the breakdown.
type CategoryTotal struct {
	TotalAmount      float64 `json:"totalAmount"`
	TransactionCount int64   `json:"transactionCount"`
}

// FinancialSummary is the category breakdown plus grand totals for a period.
type FinancialSummary struct {
	Period            Period                                                        `json:"period"`
	Totals            Totals                                                        `json:"totals"`
	CategoryBreakdown map[models.TransactionType]map[models.TransactionCategory]CategoryTotal `json:"categoryBreakdown"`
}

// Pagination describes the slice of rows a listing returned.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// TransactionPage is one page of ledger entries.
type TransactionPage struct {
	Transactions []models.FinancialTransaction `json:"transactions"`
	Pagination   Pagination                    `json:"pagination"`
	Period       Period                        `json:"period"`
}

// CashFlowEntry is one time bucket of the cash-flow report.
type CashFlowEntry struct {
	Period       string  `json:"period"`
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
}

// CashFlowReport is the chronological sequence of buckets for a window.
type CashFlowReport struct {
	CashFlow []CashFlowEntry `json:"cashFlow"`
	Period   Period          `json:"period"`
	GroupBy  CashFlowBucket  `json:"groupBy"`
}

// ExportArtifact is a completed, fully flushed report file.
type ExportArtifact struct {
	Filename    string
	ContentType string
	Content     *bytes.Buffer
}

// ReportRenderer serializes report view-models into downloadable files.
type ReportRenderer interface {
	RenderFinancialReport(summary *FinancialSummary, format string) (*ExportArtifact, error)
	RenderTransactions(page *TransactionPage, format string) (*ExportArtifact, error)
}

// SummaryOptions filters GetFinancialSummary. Zero dates select the default
// window: January 1st of the current year until now.
type SummaryOptions struct {
	StartDate time.Time
	EndDate   time.Time
	Type      models.TransactionType
}

// ListOptions filters the paginated transaction listings.
type ListOptions struct {
	StartDate time.Time
	EndDate   time.Time
	Category  models.TransactionCategory
	Page      int
	Limit     int
}

// CashFlowOptions filters GenerateCashFlowReport. When FillEmptyBuckets is
// set, periods without transactions appear as zero rows; by default they are
// omitted.
type CashFlowOptions struct {
	StartDate        time.Time
	EndDate          time.Time
	GroupBy          CashFlowBucket
	FillEmptyBuckets bool
}

// ExportOptions selects the window and output format of an export.
type ExportOptions struct {
	StartDate time.Time
	EndDate   time.Time
	Type      models.TransactionType
	Format    string
}

// Service is the financial aggregation engine.
type Service struct {
	store    TransactionStore
	renderer ReportRenderer
}

func NewService(store TransactionStore, renderer ReportRenderer) *Service {
	return &Service{store: store, renderer: renderer}
}

// normalizeWindow applies the default window and rejects inverted ranges.
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

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// GetFinancialSummary computes the category breakdown and grand totals for
// the window. Balance is income minus expense, exact at two decimal places.
func (s *Service) GetFinancialSummary(ctx context.Context, opts SummaryOptions) (*FinancialSummary, error) {
	start, end, err := normalizeWindow(opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.AggregateByCategory(ctx, TransactionFilter{
		Type:      opts.Type,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	expense := decimal.Zero
	breakdown := make(map[models.TransactionType]map[models.TransactionCategory]CategoryTotal)
	for _, row := range rows {
		if breakdown[row.Type] == nil {
			breakdown[row.Type] = make(map[models.TransactionCategory]CategoryTotal)
		}
		breakdown[row.Type][row.Category] = CategoryTotal{
			TotalAmount:      money(row.TotalAmount),
			TransactionCount: row.TransactionCount,
		}

		switch row.Type {
		case models.TransactionIncome:
			income = income.Add(row.TotalAmount)
		case models.TransactionExpense:
			expense = expense.Add(row.TotalAmount)
		}
	}

	return &FinancialSummary{
		Period: Period{StartDate: start, EndDate: end},
		Totals: Totals{
			Income:  money(income),
			Expense: money(expense),
			Balance: money(income.Sub(expense)),
		},
		CategoryBreakdown: breakdown,
	}, nil
}

// GetIncomeTransactions lists income entries, newest first.
func (s *Service) GetIncomeTransactions(ctx context.Context, opts ListOptions) (*TransactionPage, error) {
	return s.listTransactions(ctx, models.TransactionIncome, opts)
}

// GetExpenseTransactions lists expense entries, newest first.
func (s *Service) GetExpenseTransactions(ctx context.Context, opts ListOptions) (*TransactionPage, error) {
	return s.listTransactions(ctx, models.TransactionExpense, opts)
}

func (s *Service) listTransactions(ctx context.Context, txType models.TransactionType, opts ListOptions) (*TransactionPage, error) {
	start, end, err := normalizeWindow(opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	page, limit := clampPagination(opts.Page, opts.Limit)
	offset := (page - 1) * limit

	rows, total, err := s.store.FindAndCount(ctx, TransactionFilter{
		Type:      txType,
		Category:  opts.Category,
		StartDate: start,
		EndDate:   end,
	}, limit, offset)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = make([]models.FinancialTransaction, 0)
	}

	return &TransactionPage{
		Transactions: rows,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
		Period: Period{StartDate: start, EndDate: end},
	}, nil
}

// GenerateCashFlowReport buckets the window into the requested granularity,
// ordered chronologically ascending.
func (s *Service) GenerateCashFlowReport(ctx context.Context, opts CashFlowOptions) (*CashFlowReport, error) {
	start, end, err := normalizeWindow(opts.StartDate, opts.EndDate)
	if err != nil {
		return nil, err
	}

	groupBy := opts.GroupBy
	if groupBy == "" {
		groupBy = BucketMonthly
	}

	rows, err := s.store.AggregateCashFlow(ctx, TransactionFilter{
		StartDate: start,
		EndDate:   end,
	}, groupBy)
	if err != nil {
		return nil, err
	}

	entries := make([]CashFlowEntry, 0, len(rows))
	if opts.FillEmptyBuckets {
		entries = fillBuckets(rows, groupBy, start, end)
	} else {
		for _, row := range rows {
			entries = append(entries, CashFlowEntry{
				Period:       row.Period,
				TotalIncome:  money(row.TotalIncome),
				TotalExpense: money(row.TotalExpense),
				Balance:      money(row.TotalIncome.Sub(row.TotalExpense)),
			})
		}
	}

	return &CashFlowReport{
		CashFlow: entries,
		Period:   Period{StartDate: start, EndDate: end},
		GroupBy:  groupBy,
	}, nil
}

// fillBuckets materializes one entry per period in [start, end], zero-valued
// where the store returned no row. Period keys mirror the store's to_char
// formats.
func fillBuckets(rows []CashFlowRow, bucket CashFlowBucket, start, end time.Time) []CashFlowEntry {
	byPeriod := make(map[string]CashFlowRow, len(rows))
	for _, row := range rows {
		byPeriod[row.Period] = row
	}

	var entries []CashFlowEntry
	for _, key := range periodKeys(bucket, start, end) {
		row := byPeriod[key]
		entries = append(entries, CashFlowEntry{
			Period:       key,
			TotalIncome:  money(row.TotalIncome),
			TotalExpense: money(row.TotalExpense),
			Balance:      money(row.TotalIncome.Sub(row.TotalExpense)),
		})
	}
	return entries
}

func periodKeys(bucket CashFlowBucket, start, end time.Time) []string {
	var keys []string
	seen := make(map[string]bool)

	push := func(key string) {
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	switch bucket {
	case BucketDaily:
		for t := start; !t.After(end); t = t.AddDate(0, 0, 1) {
			push(t.Format("2006-01-02"))
		}
	case BucketWeekly:
		for t := start; !t.After(end); t = t.AddDate(0, 0, 1) {
			year, week := t.ISOWeek()
			push(fmt.Sprintf("%d-W%02d", year, week))
		}
	case BucketMonthly:
		for t := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()); !t.After(end); t = t.AddDate(0, 1, 0) {
			push(t.Format("2006-01"))
		}
	case BucketYearly:
		for y := start.Year(); y <= end.Year(); y++ {
			push(fmt.Sprintf("%04d", y))
		}
	}
	return keys
}

// CreateTransaction validates the input and persists a new ledger entry.
// Referenced clients and service orders are checked inside the same store
// transaction as the insert.
func (s *Service) CreateTransaction(ctx context.Context, input models.TransactionInput) (*models.FinancialTransaction, error) {
	tx, err := models.NewFinancialTransaction(input)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// ExportFinancialReport renders the financial summary of the window as a PDF
// or Excel file. The returned artifact is complete before this call returns.
func (s *Service) ExportFinancialReport(ctx context.Context, opts ExportOptions) (*ExportArtifact, error) {
	summary, err := s.GetFinancialSummary(ctx, SummaryOptions{
		StartDate: opts.StartDate,
		EndDate:   opts.EndDate,
	})
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderFinancialReport(summary, normalizeFormat(opts.Format))
}

// ExportTransactions renders a transaction listing as a PDF or Excel file.
// Income is exported only when Type is INCOME; any other value, the empty
// string included, exports expenses.
func (s *Service) ExportTransactions(ctx context.Context, opts ExportOptions) (*ExportArtifact, error) {
	listOpts := ListOptions{StartDate: opts.StartDate, EndDate: opts.EndDate, Limit: MaxPageSize}

	var (
		page *TransactionPage
		err  error
	)
	if opts.Type == models.TransactionIncome {
		page, err = s.GetIncomeTransactions(ctx, listOpts)
	} else {
		page, err = s.GetExpenseTransactions(ctx, listOpts)
	}
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderTransactions(page, normalizeFormat(opts.Format))
}

func normalizeFormat(format string) string {
	switch strings.ToLower(format) {
	case "excel", "xlsx":
		return "excel"
	default:
		return "pdf"
	}
}
