// internal/handlers/financial_handler.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gabibigol/pos-venda/internal/audit"
	"github.com/gabibigol/pos-venda/internal/finance"
	"github.com/gabibigol/pos-venda/models"
)

// FinancialHandler serves the financial summary, listings, cash flow,
// transaction creation and exports.
type FinancialHandler struct {
	svc   *finance.Service
	audit *audit.Logger
}

func NewFinancialHandler(svc *finance.Service, auditLog *audit.Logger) *FinancialHandler {
	return &FinancialHandler{svc: svc, audit: auditLog}
}

// GetSummaryHandler responds with the category breakdown and totals of the
// requested window.
func (h *FinancialHandler) GetSummaryHandler(c *gin.Context) {
	start, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	summary, err := h.svc.GetFinancialSummary(c.Request.Context(), finance.SummaryOptions{
		StartDate: start,
		EndDate:   endOfDay(end),
		Type:      models.TransactionType(c.Query("type")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.ReportAccess(c.GetUint("user_id"), "financial_summary")
	c.JSON(http.StatusOK, summary)
}

// ListIncomeHandler lists income transactions, paginated.
func (h *FinancialHandler) ListIncomeHandler(c *gin.Context) {
	h.listTransactions(c, h.svc.GetIncomeTransactions)
}

// ListExpensesHandler lists expense transactions, paginated.
func (h *FinancialHandler) ListExpensesHandler(c *gin.Context) {
	h.listTransactions(c, h.svc.GetExpenseTransactions)
}

func (h *FinancialHandler) listTransactions(c *gin.Context,
	fetch func(ctx context.Context, opts finance.ListOptions) (*finance.TransactionPage, error)) {

	start, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}
	page, limit := parsePagination(c)

	result, err := fetch(c.Request.Context(), finance.ListOptions{
		StartDate: start,
		EndDate:   endOfDay(end),
		Category:  models.TransactionCategory(c.Query("category")),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CashFlowHandler responds with the time-bucketed cash-flow report.
func (h *FinancialHandler) CashFlowHandler(c *gin.Context) {
	start, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	report, err := h.svc.GenerateCashFlowReport(c.Request.Context(), finance.CashFlowOptions{
		StartDate:        start,
		EndDate:          endOfDay(end),
		GroupBy:          finance.CashFlowBucket(c.DefaultQuery("groupBy", string(finance.BucketMonthly))),
		FillEmptyBuckets: c.Query("includeEmpty") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.ReportAccess(c.GetUint("user_id"), "cash_flow", "groupBy", string(report.GroupBy))
	c.JSON(http.StatusOK, report)
}

// transactionRequest is the creation payload. The date accepts AAAA-MM-DD or
// RFC 3339.
type transactionRequest struct {
	Type            string  `json:"type"`
	Amount          float64 `json:"amount"`
	Category        string  `json:"category"`
	TransactionDate string  `json:"transactionDate"`
	Description     string  `json:"description"`
	ClientID        *uint   `json:"clientId"`
	Origin          string  `json:"origin"`
	Status          string  `json:"status"`
	ReferenceID     *uint   `json:"referenceId"`
}

// CreateTransactionHandler validates and persists a new ledger entry.
func (h *FinancialHandler) CreateTransactionHandler(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Corpo da requisição inválido"})
		return
	}

	var txDate time.Time
	if req.TransactionDate != "" {
		var err error
		txDate, err = time.Parse(dateLayout, req.TransactionDate)
		if err != nil {
			txDate, err = time.Parse(time.RFC3339, req.TransactionDate)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Data da transação inválida"})
			return
		}
	}

	tx, err := h.svc.CreateTransaction(c.Request.Context(), models.TransactionInput{
		Type:            models.TransactionType(req.Type),
		Amount:          decimal.NewFromFloat(req.Amount),
		Category:        models.TransactionCategory(req.Category),
		TransactionDate: txDate,
		Description:     req.Description,
		ClientID:        req.ClientID,
		Origin:          models.TransactionOrigin(req.Origin),
		Status:          models.TransactionStatus(req.Status),
		ReferenceID:     req.ReferenceID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// ExportReportHandler streams the financial summary as PDF or Excel.
func (h *FinancialHandler) ExportReportHandler(c *gin.Context) {
	start, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "pdf")
	artifact, err := h.svc.ExportFinancialReport(c.Request.Context(), finance.ExportOptions{
		StartDate: start,
		EndDate:   endOfDay(end),
		Format:    format,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.ReportExport(c.GetUint("user_id"), format, artifact.Filename)
	c.Header("Content-Disposition", "attachment; filename="+artifact.Filename)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Content.Bytes())
}

// ExportTransactionsHandler streams a transaction listing as PDF or Excel.
// The type query selects income (default) or expenses.
func (h *FinancialHandler) ExportTransactionsHandler(c *gin.Context) {
	start, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "pdf")
	artifact, err := h.svc.ExportTransactions(c.Request.Context(), finance.ExportOptions{
		StartDate: start,
		EndDate:   endOfDay(end),
		Type:      models.TransactionType(c.Query("type")),
		Format:    format,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.ReportExport(c.GetUint("user_id"), format, artifact.Filename)
	c.Header("Content-Disposition", "attachment; filename="+artifact.Filename)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Content.Bytes())
}
