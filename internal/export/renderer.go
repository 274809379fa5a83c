// internal/export/renderer.go
package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gabibigol/pos-venda/internal/finance"
	"github.com/gabibigol/pos-venda/internal/reports"
)

const (
	FormatPDF   = "pdf"
	FormatExcel = "excel"

	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	filenameStamp = "20060102_150405"
	dateLayout    = "02/01/2006"
)

// Renderer serializes report view-models into PDF or Excel artifacts. The
// returned buffers are fully written before any call returns.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

var (
	_ finance.ReportRenderer       = (*Renderer)(nil)
	_ reports.ConsolidatedRenderer = (*Renderer)(nil)
)

// RenderFinancialReport produces the financial summary file. Unknown formats
// fall back to PDF.
func (r *Renderer) RenderFinancialReport(summary *finance.FinancialSummary, format string) (*finance.ExportArtifact, error) {
	stamp := time.Now().Format(filenameStamp)
	if format == FormatExcel {
		buf, err := financialReportToExcel(summary)
		if err != nil {
			return nil, err
		}
		return &finance.ExportArtifact{
			Filename:    fmt.Sprintf("relatorio_financeiro_%s.xlsx", stamp),
			ContentType: contentTypeXLSX,
			Content:     buf,
		}, nil
	}

	buf, err := financialReportToPDF(summary)
	if err != nil {
		return nil, err
	}
	return &finance.ExportArtifact{
		Filename:    fmt.Sprintf("relatorio_financeiro_%s.pdf", stamp),
		ContentType: contentTypePDF,
		Content:     buf,
	}, nil
}

// RenderTransactions produces the transaction listing file.
func (r *Renderer) RenderTransactions(page *finance.TransactionPage, format string) (*finance.ExportArtifact, error) {
	stamp := time.Now().Format(filenameStamp)
	if format == FormatExcel {
		buf, err := transactionsToExcel(page)
		if err != nil {
			return nil, err
		}
		return &finance.ExportArtifact{
			Filename:    fmt.Sprintf("transacoes_%s.xlsx", stamp),
			ContentType: contentTypeXLSX,
			Content:     buf,
		}, nil
	}

	buf, err := transactionsToPDF(page)
	if err != nil {
		return nil, err
	}
	return &finance.ExportArtifact{
		Filename:    fmt.Sprintf("transacoes_%s.pdf", stamp),
		ContentType: contentTypePDF,
		Content:     buf,
	}, nil
}

// RenderConsolidatedReport produces the consolidated business report file.
func (r *Renderer) RenderConsolidatedReport(report *reports.ConsolidatedReport, format string) (*reports.ExportArtifact, error) {
	stamp := time.Now().Format(filenameStamp)
	if format == FormatExcel {
		buf, err := consolidatedToExcel(report)
		if err != nil {
			return nil, err
		}
		return &reports.ExportArtifact{
			Filename:    fmt.Sprintf("relatorio_consolidado_%s.xlsx", stamp),
			ContentType: contentTypeXLSX,
			Content:     buf,
		}, nil
	}

	buf, err := consolidatedToPDF(report)
	if err != nil {
		return nil, err
	}
	return &reports.ExportArtifact{
		Filename:    fmt.Sprintf("relatorio_consolidado_%s.pdf", stamp),
		ContentType: contentTypePDF,
		Content:     buf,
	}, nil
}

func formatMoney(v float64) string {
	return fmt.Sprintf("R$ %.2f", v)
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func formatPeriod(p finance.Period) string {
	return fmt.Sprintf("Período: %s a %s", p.StartDate.Format(dateLayout), p.EndDate.Format(dateLayout))
}
