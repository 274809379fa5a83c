// models/financial_transaction.go
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gabibigol/pos-venda/internal/apperr"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

type TransactionCategory string

const (
	// Income categories
	CategoryServiceOrder TransactionCategory = "SERVICE_ORDER"
	CategoryProductSale  TransactionCategory = "PRODUCT_SALE"
	CategoryCommission   TransactionCategory = "COMMISSION"
	CategoryOtherIncome  TransactionCategory = "OTHER_INCOME"

	// Expense categories
	CategorySalary       TransactionCategory = "SALARY"
	CategorySupplier     TransactionCategory = "SUPPLIER"
	CategoryEquipment    TransactionCategory = "EQUIPMENT"
	CategoryMaintenance  TransactionCategory = "MAINTENANCE"
	CategoryUtilities    TransactionCategory = "UTILITIES"
	CategoryTax          TransactionCategory = "TAX"
	CategoryOtherExpense TransactionCategory = "OTHER_EXPENSE"
)

type TransactionOrigin string

const (
	OriginServiceOrder TransactionOrigin = "SERVICE_ORDER"
	OriginProductSale  TransactionOrigin = "PRODUCT_SALE"
	OriginManualEntry  TransactionOrigin = "MANUAL_ENTRY"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusCanceled  TransactionStatus = "CANCELED"
	StatusOverdue   TransactionStatus = "OVERDUE"
)

// IncomeCategories and ExpenseCategories list the valid categories per
// transaction type, in report display order.
var IncomeCategories = []TransactionCategory{
	CategoryServiceOrder,
	CategoryProductSale,
	CategoryCommission,
	CategoryOtherIncome,
}

var ExpenseCategories = []TransactionCategory{
	CategorySalary,
	CategorySupplier,
	CategoryEquipment,
	CategoryMaintenance,
	CategoryUtilities,
	CategoryTax,
	CategoryOtherExpense,
}

func categorySet(categories []TransactionCategory) map[TransactionCategory]bool {
	set := make(map[TransactionCategory]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return set
}

var (
	incomeCategories  = categorySet(IncomeCategories)
	expenseCategories = categorySet(ExpenseCategories)
)

// ValidCategory reports whether the category belongs to the category set of
// this transaction type.
func (t TransactionType) ValidCategory(c TransactionCategory) bool {
	switch t {
	case TransactionIncome:
		return incomeCategories[c]
	case TransactionExpense:
		return expenseCategories[c]
	default:
		return false
	}
}

func validOrigin(o TransactionOrigin) bool {
	return o == OriginServiceOrder || o == OriginProductSale || o == OriginManualEntry
}

func validStatus(s TransactionStatus) bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCanceled || s == StatusOverdue
}

const maxDescriptionLen = 500

// FinancialTransaction is a single ledger entry (income or expense).
type FinancialTransaction struct {
	gorm.Model
	Type            TransactionType     `json:"type" gorm:"type:varchar(10);not null;index"`
	Amount          decimal.Decimal     `json:"amount" gorm:"type:numeric(10,2);not null"`
	Category        TransactionCategory `json:"category" gorm:"type:varchar(20);not null;index"`
	TransactionDate time.Time           `json:"transactionDate" gorm:"not null;index"`
	Description     string              `json:"description" gorm:"type:text"`
	ClientID        *uint               `json:"clientId"`
	Client          *Client             `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Origin          TransactionOrigin   `json:"origin" gorm:"type:varchar(15);not null;default:'MANUAL_ENTRY'"`
	Status          TransactionStatus   `json:"status" gorm:"type:varchar(10);not null;default:'PENDING'"`
	ReferenceID     *uint               `json:"referenceId"`
}

func (FinancialTransaction) TableName() string { return "financial_transactions" }

// TransactionInput carries the raw data for creating a transaction.
type TransactionInput struct {
	Type            TransactionType     `json:"type"`
	Amount          decimal.Decimal     `json:"amount"`
	Category        TransactionCategory `json:"category"`
	TransactionDate time.Time           `json:"transactionDate"`
	Description     string              `json:"description"`
	ClientID        *uint               `json:"clientId"`
	Origin          TransactionOrigin   `json:"origin"`
	Status          TransactionStatus   `json:"status"`
	ReferenceID     *uint               `json:"referenceId"`
}

// NewFinancialTransaction validates the input and builds a transaction ready
// for persistence. Negative amounts are normalized to their absolute value,
// origin defaults to MANUAL_ENTRY and status to PENDING.
func NewFinancialTransaction(input TransactionInput) (*FinancialTransaction, error) {
	if input.Type == "" || input.Category == "" || input.Amount.IsZero() {
		return nil, apperr.NewValidation("Dados da transação incompletos")
	}

	if input.Type != TransactionIncome && input.Type != TransactionExpense {
		return nil, apperr.NewValidation("Tipo de transação inválido")
	}

	amount := input.Amount.Abs()
	if amount.Exponent() < -2 {
		return nil, apperr.NewValidation("O valor deve ter no máximo duas casas decimais")
	}

	if !input.Type.ValidCategory(input.Category) {
		return nil, apperr.NewValidation(
			fmt.Sprintf("Categoria inválida para transação de %s", input.Type))
	}

	transactionDate := input.TransactionDate
	if transactionDate.IsZero() {
		transactionDate = time.Now()
	}
	if transactionDate.After(time.Now()) {
		return nil, apperr.NewValidation("A data da transação não pode ser futura")
	}

	if len([]rune(input.Description)) > maxDescriptionLen {
		return nil, apperr.NewValidation("Descrição muito longa (máximo 500 caracteres)")
	}

	origin := input.Origin
	if origin == "" {
		origin = OriginManualEntry
	}
	if !validOrigin(origin) {
		return nil, apperr.NewValidation("Origem de transação inválida")
	}

	status := input.Status
	if status == "" {
		status = StatusPending
	}
	if !validStatus(status) {
		return nil, apperr.NewValidation("Status de transação inválido")
	}

	return &FinancialTransaction{
		Type:            input.Type,
		Amount:          amount,
		Category:        input.Category,
		TransactionDate: transactionDate,
		Description:     input.Description,
		ClientID:        input.ClientID,
		Origin:          origin,
		Status:          status,
		ReferenceID:     input.ReferenceID,
	}, nil
}
