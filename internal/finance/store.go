// internal/finance/store.go
package finance

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gabibigol/pos-venda/internal/apperr"
	"github.com/gabibigol/pos-venda/models"
)

// TransactionFilter is the plain data structure every store query is built
// from. StartDate and EndDate are inclusive.
type TransactionFilter struct {
	Type      models.TransactionType
	Category  models.TransactionCategory
	Status    models.TransactionStatus
	ClientID  *uint
	StartDate time.Time
	EndDate   time.Time
}

// CategoryAggregate is one (type, category) group with its total and count.
type CategoryAggregate struct {
	Type             models.TransactionType
	Category         models.TransactionCategory
	TotalAmount      decimal.Decimal
	TransactionCount int64
}

// CashFlowBucket is the time granularity of a cash-flow report.
type CashFlowBucket string

const (
	BucketDaily   CashFlowBucket = "DAILY"
	BucketWeekly  CashFlowBucket = "WEEKLY"
	BucketMonthly CashFlowBucket = "MONTHLY"
	BucketYearly  CashFlowBucket = "YEARLY"
)

// CashFlowRow is one aggregated time bucket as returned by the store.
type CashFlowRow struct {
	Period       string
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
}

// TransactionStore is the persistence contract of the financial ledger.
type TransactionStore interface {
	Find(ctx context.Context, filter TransactionFilter) ([]models.FinancialTransaction, error)
	FindAndCount(ctx context.Context, filter TransactionFilter, limit, offset int) ([]models.FinancialTransaction, int64, error)
	Create(ctx context.Context, tx *models.FinancialTransaction) error
	AggregateByCategory(ctx context.Context, filter TransactionFilter) ([]CategoryAggregate, error)
	AggregateCashFlow(ctx context.Context, filter TransactionFilter, bucket CashFlowBucket) ([]CashFlowRow, error)
}

// GormTransactionStore implements TransactionStore on PostgreSQL via GORM.
type GormTransactionStore struct {
	db *gorm.DB
}

func NewGormTransactionStore(db *gorm.DB) *GormTransactionStore {
	return &GormTransactionStore{db: db}
}

func applyFilter(q *gorm.DB, filter TransactionFilter) *gorm.DB {
	q = q.Where("transaction_date BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}
	return q
}

func (s *GormTransactionStore) Find(ctx context.Context, filter TransactionFilter) ([]models.FinancialTransaction, error) {
	var rows []models.FinancialTransaction
	q := applyFilter(s.db.WithContext(ctx).Model(&models.FinancialTransaction{}), filter)
	if err := q.Preload("Client").Order("transaction_date DESC").Find(&rows).Error; err != nil {
		return nil, apperr.NewStore("Falha ao buscar transações", err)
	}
	return rows, nil
}

func (s *GormTransactionStore) FindAndCount(ctx context.Context, filter TransactionFilter, limit, offset int) ([]models.FinancialTransaction, int64, error) {
	var (
		rows  []models.FinancialTransaction
		total int64
	)

	base := applyFilter(s.db.WithContext(ctx).Model(&models.FinancialTransaction{}), filter)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, apperr.NewStore("Falha ao contar transações", err)
	}

	err := base.
		Preload("Client").
		Order("transaction_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, apperr.NewStore("Falha ao buscar transações", err)
	}
	return rows, total, nil
}

// Create persists the transaction. The client and service-order existence
// checks run inside the same database transaction as the insert, so a
// referenced row cannot disappear between check and create.
func (s *GormTransactionStore) Create(ctx context.Context, tx *models.FinancialTransaction) error {
	err := s.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if tx.ClientID != nil {
			var client models.Client
			if err := dbtx.First(&client, *tx.ClientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NewNotFound("Cliente não encontrado")
				}
				return err
			}
		}

		if tx.ReferenceID != nil && tx.Origin == models.OriginServiceOrder {
			var order models.ServiceOrder
			if err := dbtx.First(&order, *tx.ReferenceID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NewNotFound("Ordem de serviço não encontrada")
				}
				return err
			}
		}

		return dbtx.Create(tx).Error
	})
	if err != nil {
		var nf *apperr.NotFoundError
		if errors.As(err, &nf) {
			return err
		}
		return apperr.NewStore("Falha ao criar transação financeira", err)
	}
	return nil
}

func (s *GormTransactionStore) AggregateByCategory(ctx context.Context, filter TransactionFilter) ([]CategoryAggregate, error) {
	var rows []CategoryAggregate
	q := applyFilter(s.db.WithContext(ctx).Model(&models.FinancialTransaction{}), filter)
	err := q.
		Select("type, category, SUM(amount) AS total_amount, COUNT(*) AS transaction_count").
		Group("type, category").
		Order("type, category").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.NewStore("Falha ao calcular resumo financeiro", err)
	}
	return rows, nil
}

// AggregateCashFlow buckets transactions with date_trunc. Only buckets that
// contain at least one row come back; the service layer decides whether to
// materialize empty ones.
func (s *GormTransactionStore) AggregateCashFlow(ctx context.Context, filter TransactionFilter, bucket CashFlowBucket) ([]CashFlowRow, error) {
	var expr string
	switch bucket {
	case BucketDaily:
		expr = "to_char(date_trunc('day', transaction_date), 'YYYY-MM-DD')"
	case BucketWeekly:
		expr = `to_char(date_trunc('week', transaction_date), 'IYYY-"W"IW')`
	case BucketMonthly:
		expr = "to_char(date_trunc('month', transaction_date), 'YYYY-MM')"
	case BucketYearly:
		expr = "to_char(date_trunc('year', transaction_date), 'YYYY')"
	default:
		return nil, apperr.NewValidation("Agrupamento de fluxo de caixa inválido")
	}

	var rows []CashFlowRow
	q := applyFilter(s.db.WithContext(ctx).Model(&models.FinancialTransaction{}), filter)
	err := q.
		Select(expr + ` AS period,
			COALESCE(SUM(CASE WHEN type = 'INCOME' THEN amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN type = 'EXPENSE' THEN amount ELSE 0 END), 0) AS total_expense`).
		Group("period").
		Order("period ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.NewStore("Falha ao gerar relatório de fluxo de caixa", err)
	}
	return rows, nil
}
