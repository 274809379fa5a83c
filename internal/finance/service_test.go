// internal/finance/service_test.go
package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabibigol/pos-venda/internal/apperr"
	"github.com/gabibigol/pos-venda/models"
)

type stubStore struct {
	aggregates []CategoryAggregate
	cashFlow   []CashFlowRow
	rows       []models.FinancialTransaction
	total      int64
	err        error

	lastFilter TransactionFilter
	lastLimit  int
	lastOffset int
	lastBucket CashFlowBucket
	created    *models.FinancialTransaction
	calls      int
}

func (s *stubStore) Find(ctx context.Context, filter TransactionFilter) ([]models.FinancialTransaction, error) {
	s.calls++
	s.lastFilter = filter
	return s.rows, s.err
}

func (s *stubStore) FindAndCount(ctx context.Context, filter TransactionFilter, limit, offset int) ([]models.FinancialTransaction, int64, error) {
	s.calls++
	s.lastFilter = filter
	s.lastLimit = limit
	s.lastOffset = offset
	return s.rows, s.total, s.err
}

func (s *stubStore) Create(ctx context.Context, tx *models.FinancialTransaction) error {
	s.calls++
	s.created = tx
	return s.err
}

func (s *stubStore) AggregateByCategory(ctx context.Context, filter TransactionFilter) ([]CategoryAggregate, error) {
	s.calls++
	s.lastFilter = filter
	return s.aggregates, s.err
}

func (s *stubStore) AggregateCashFlow(ctx context.Context, filter TransactionFilter, bucket CashFlowBucket) ([]CashFlowRow, error) {
	s.calls++
	s.lastFilter = filter
	s.lastBucket = bucket
	return s.cashFlow, s.err
}

type stubRenderer struct {
	lastFormat string
	artifact   *ExportArtifact
	err        error
}

func (r *stubRenderer) RenderFinancialReport(summary *FinancialSummary, format string) (*ExportArtifact, error) {
	r.lastFormat = format
	return r.artifact, r.err
}

func (r *stubRenderer) RenderTransactions(page *TransactionPage, format string) (*ExportArtifact, error) {
	r.lastFormat = format
	return r.artifact, r.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetFinancialSummaryScenario(t *testing.T) {
	store := &stubStore{aggregates: []CategoryAggregate{
		{Type: models.TransactionIncome, Category: models.CategoryServiceOrder,
			TotalAmount: decimal.NewFromInt(1000), TransactionCount: 1},
		{Type: models.TransactionExpense, Category: models.CategoryMaintenance,
			TotalAmount: decimal.NewFromInt(500), TransactionCount: 1},
	}}
	svc := NewService(store, nil)

	summary, err := svc.GetFinancialSummary(context.Background(), SummaryOptions{
		StartDate: date(2023, time.June, 1),
		EndDate:   date(2023, time.June, 30),
	})
	require.NoError(t, err)

	assert.Equal(t, 1000.0, summary.Totals.Income)
	assert.Equal(t, 500.0, summary.Totals.Expense)
	assert.Equal(t, 500.0, summary.Totals.Balance)

	entry := summary.CategoryBreakdown[models.TransactionIncome][models.CategoryServiceOrder]
	assert.Equal(t, 1000.0, entry.TotalAmount)
	assert.Equal(t, int64(1), entry.TransactionCount)
}

func TestGetFinancialSummaryBalanceIsExact(t *testing.T) {
	// 0.1 + 0.2 style values that drift under float arithmetic.
	store := &stubStore{aggregates: []CategoryAggregate{
		{Type: models.TransactionIncome, Category: models.CategoryServiceOrder,
			TotalAmount: decimal.RequireFromString("10.10"), TransactionCount: 2},
		{Type: models.TransactionIncome, Category: models.CategoryCommission,
			TotalAmount: decimal.RequireFromString("0.20"), TransactionCount: 1},
		{Type: models.TransactionExpense, Category: models.CategoryTax,
			TotalAmount: decimal.RequireFromString("0.30"), TransactionCount: 1},
	}}
	svc := NewService(store, nil)

	summary, err := svc.GetFinancialSummary(context.Background(), SummaryOptions{
		StartDate: date(2023, time.January, 1),
		EndDate:   date(2023, time.December, 31),
	})
	require.NoError(t, err)

	assert.Equal(t, 10.3, summary.Totals.Income)
	assert.Equal(t, 0.3, summary.Totals.Expense)
	assert.Equal(t, 10.0, summary.Totals.Balance)
}

func TestGetFinancialSummaryBreakdownMatchesTotals(t *testing.T) {
	store := &stubStore{aggregates: []CategoryAggregate{
		{Type: models.TransactionIncome, Category: models.CategoryServiceOrder,
			TotalAmount: decimal.RequireFromString("150.25"), TransactionCount: 3},
		{Type: models.TransactionIncome, Category: models.CategoryProductSale,
			TotalAmount: decimal.RequireFromString("49.75"), TransactionCount: 2},
		{Type: models.TransactionExpense, Category: models.CategorySalary,
			TotalAmount: decimal.RequireFromString("80.10"), TransactionCount: 1},
		{Type: models.TransactionExpense, Category: models.CategoryUtilities,
			TotalAmount: decimal.RequireFromString("19.90"), TransactionCount: 4},
	}}
	svc := NewService(store, nil)

	summary, err := svc.GetFinancialSummary(context.Background(), SummaryOptions{
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.December, 31),
	})
	require.NoError(t, err)

	var income, expense float64
	for _, entry := range summary.CategoryBreakdown[models.TransactionIncome] {
		income += entry.TotalAmount
	}
	for _, entry := range summary.CategoryBreakdown[models.TransactionExpense] {
		expense += entry.TotalAmount
	}
	assert.InDelta(t, summary.Totals.Income, income, 0.001)
	assert.InDelta(t, summary.Totals.Expense, expense, 0.001)
}

func TestGetFinancialSummaryRejectsInvertedWindow(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil)

	_, err := svc.GetFinancialSummary(context.Background(), SummaryOptions{
		StartDate: date(2023, time.July, 1),
		EndDate:   date(2023, time.June, 1),
	})

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, store.calls, "store must not be queried on invalid input")
}

func TestGetFinancialSummaryDefaultWindow(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil)

	_, err := svc.GetFinancialSummary(context.Background(), SummaryOptions{})
	require.NoError(t, err)

	now := time.Now()
	assert.Equal(t, now.Year(), store.lastFilter.StartDate.Year())
	assert.Equal(t, time.January, store.lastFilter.StartDate.Month())
	assert.Equal(t, 1, store.lastFilter.StartDate.Day())
	assert.WithinDuration(t, now, store.lastFilter.EndDate, time.Minute)
}

func TestGetFinancialSummaryPropagatesStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	store := &stubStore{err: apperr.NewStore("Falha ao calcular resumo financeiro", cause)}
	svc := NewService(store, nil)

	_, err := svc.GetFinancialSummary(context.Background(), SummaryOptions{})

	var se *apperr.StoreError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, cause)
}

func TestListTransactionsPagination(t *testing.T) {
	store := &stubStore{total: 45}
	svc := NewService(store, nil)

	page, err := svc.GetIncomeTransactions(context.Background(), ListOptions{
		Page:  3,
		Limit: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 10, store.lastLimit)
	assert.Equal(t, 20, store.lastOffset)
	assert.Equal(t, models.TransactionIncome, store.lastFilter.Type)
	assert.Equal(t, 5, page.Pagination.TotalPages)
	assert.Equal(t, int64(45), page.Pagination.Total)
}

func TestListTransactionsClampsPageAndLimit(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil)

	page, err := svc.GetExpenseTransactions(context.Background(), ListOptions{
		Page:  0,
		Limit: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, MaxPageSize, page.Pagination.Limit)
	assert.Equal(t, 0, store.lastOffset)

	_, err = svc.GetExpenseTransactions(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageSize, store.lastLimit)
}

func TestListTransactionsBeyondLastPageIsEmptyNotError(t *testing.T) {
	store := &stubStore{total: 5, rows: nil}
	svc := NewService(store, nil)

	page, err := svc.GetIncomeTransactions(context.Background(), ListOptions{
		Page:  10,
		Limit: 20,
	})
	require.NoError(t, err)

	assert.NotNil(t, page.Transactions)
	assert.Empty(t, page.Transactions)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestGenerateCashFlowReportOmitsEmptyBuckets(t *testing.T) {
	store := &stubStore{cashFlow: []CashFlowRow{
		{Period: "2023-06", TotalIncome: decimal.NewFromInt(1000), TotalExpense: decimal.NewFromInt(400)},
		{Period: "2023-08", TotalIncome: decimal.NewFromInt(200), TotalExpense: decimal.NewFromInt(500)},
	}}
	svc := NewService(store, nil)

	report, err := svc.GenerateCashFlowReport(context.Background(), CashFlowOptions{
		StartDate: date(2023, time.June, 1),
		EndDate:   date(2023, time.August, 31),
		GroupBy:   BucketMonthly,
	})
	require.NoError(t, err)

	require.Len(t, report.CashFlow, 2)
	assert.Equal(t, "2023-06", report.CashFlow[0].Period)
	assert.Equal(t, 600.0, report.CashFlow[0].Balance)
	assert.Equal(t, "2023-08", report.CashFlow[1].Period)
	assert.Equal(t, -300.0, report.CashFlow[1].Balance)
}

func TestGenerateCashFlowReportFillsEmptyBuckets(t *testing.T) {
	store := &stubStore{cashFlow: []CashFlowRow{
		{Period: "2023-07", TotalIncome: decimal.NewFromInt(100), TotalExpense: decimal.NewFromInt(40)},
	}}
	svc := NewService(store, nil)

	report, err := svc.GenerateCashFlowReport(context.Background(), CashFlowOptions{
		StartDate:        date(2023, time.June, 1),
		EndDate:          date(2023, time.August, 31),
		GroupBy:          BucketMonthly,
		FillEmptyBuckets: true,
	})
	require.NoError(t, err)

	require.Len(t, report.CashFlow, 3)
	assert.Equal(t, []string{"2023-06", "2023-07", "2023-08"},
		[]string{report.CashFlow[0].Period, report.CashFlow[1].Period, report.CashFlow[2].Period})
	assert.Zero(t, report.CashFlow[0].TotalIncome)
	assert.Zero(t, report.CashFlow[0].Balance)
	assert.Equal(t, 60.0, report.CashFlow[1].Balance)
	assert.Zero(t, report.CashFlow[2].Balance)
}

func TestGenerateCashFlowReportFillsDailyBuckets(t *testing.T) {
	store := &stubStore{cashFlow: []CashFlowRow{
		{Period: "2023-06-02", TotalIncome: decimal.NewFromInt(50)},
	}}
	svc := NewService(store, nil)

	report, err := svc.GenerateCashFlowReport(context.Background(), CashFlowOptions{
		StartDate:        date(2023, time.June, 1),
		EndDate:          date(2023, time.June, 3),
		GroupBy:          BucketDaily,
		FillEmptyBuckets: true,
	})
	require.NoError(t, err)

	require.Len(t, report.CashFlow, 3)
	assert.Equal(t, "2023-06-01", report.CashFlow[0].Period)
	assert.Equal(t, 50.0, report.CashFlow[1].TotalIncome)
	assert.Equal(t, "2023-06-03", report.CashFlow[2].Period)
}

func TestGenerateCashFlowReportDefaultsToMonthly(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil)

	report, err := svc.GenerateCashFlowReport(context.Background(), CashFlowOptions{
		StartDate: date(2023, time.June, 1),
		EndDate:   date(2023, time.June, 30),
	})
	require.NoError(t, err)

	assert.Equal(t, BucketMonthly, report.GroupBy)
	assert.Equal(t, BucketMonthly, store.lastBucket)
}

func TestCreateTransactionDefaultsScenario(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil)

	tx, err := svc.CreateTransaction(context.Background(), models.TransactionInput{
		Type:     models.TransactionIncome,
		Amount:   decimal.NewFromInt(500),
		Category: models.CategoryServiceOrder,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, tx.Status)
	assert.Equal(t, models.OriginManualEntry, tx.Origin)
	require.NotNil(t, store.created)
	assert.True(t, store.created.Amount.Equal(decimal.NewFromInt(500)))
}

func TestCreateTransactionInvalidInputSkipsStore(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, nil)

	_, err := svc.CreateTransaction(context.Background(), models.TransactionInput{
		Amount: decimal.NewFromInt(1000),
	})

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Dados da transação incompletos", ve.Message)
	assert.Zero(t, store.calls)
}

func TestExportFinancialReportNormalizesFormat(t *testing.T) {
	store := &stubStore{}
	renderer := &stubRenderer{artifact: &ExportArtifact{Filename: "x.xlsx"}}
	svc := NewService(store, renderer)

	_, err := svc.ExportFinancialReport(context.Background(), ExportOptions{Format: "XLSX"})
	require.NoError(t, err)
	assert.Equal(t, "excel", renderer.lastFormat)

	_, err = svc.ExportFinancialReport(context.Background(), ExportOptions{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "pdf", renderer.lastFormat)
}

func TestExportTransactionsSelectsTypeFilter(t *testing.T) {
	store := &stubStore{}
	renderer := &stubRenderer{artifact: &ExportArtifact{Filename: "x.pdf"}}
	svc := NewService(store, renderer)

	_, err := svc.ExportTransactions(context.Background(), ExportOptions{
		Type: models.TransactionIncome,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionIncome, store.lastFilter.Type)

	_, err = svc.ExportTransactions(context.Background(), ExportOptions{
		Type: models.TransactionExpense,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionExpense, store.lastFilter.Type)
}

func TestExportTransactionsDefaultsToExpenses(t *testing.T) {
	store := &stubStore{}
	renderer := &stubRenderer{artifact: &ExportArtifact{Filename: "x.pdf"}}
	svc := NewService(store, renderer)

	_, err := svc.ExportTransactions(context.Background(), ExportOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionExpense, store.lastFilter.Type)

	// An unrecognized type also falls back to expenses.
	_, err = svc.ExportTransactions(context.Background(), ExportOptions{Type: "TRANSFER"})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionExpense, store.lastFilter.Type)
}
