// internal/export/pdf.go
package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/gabibigol/pos-venda/internal/apperr"
	"github.com/gabibigol/pos-venda/internal/finance"
	"github.com/gabibigol/pos-venda/models"
)

// Layout constants in points. Column x-offsets and the 20pt row height are
// fixed so the table renders identically regardless of content.
const (
	marginLeft = 40.0
	rowHeight  = 20.0
	pageBottom = 790.0

	colDate     = marginLeft
	colType     = 140.0
	colCategory = 220.0
	colAmount   = 360.0
	colStatus   = 470.0
)

func newPDF() (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	return pdf, tr
}

func pdfBuffer(pdf *gofpdf.Fpdf) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperr.NewExport("Falha ao gerar PDF", err)
	}
	return &buf, nil
}

func financialReportToPDF(summary *finance.FinancialSummary) (*bytes.Buffer, error) {
	pdf, tr := newPDF()

	y := 60.0
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(marginLeft, y, tr("Relatório Financeiro"))

	y += 30
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(marginLeft, y, tr(formatPeriod(summary.Period)))

	y += 34
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginLeft, y, tr("Totais"))
	pdf.SetFont("Helvetica", "", 11)
	y += rowHeight
	pdf.Text(marginLeft, y, tr("Entradas: "+formatMoney(summary.Totals.Income)))
	y += rowHeight
	pdf.Text(marginLeft, y, tr("Saídas: "+formatMoney(summary.Totals.Expense)))
	y += rowHeight
	pdf.Text(marginLeft, y, tr("Saldo: "+formatMoney(summary.Totals.Balance)))

	y = categorySectionPDF(pdf, tr, y+34, "Entradas por Categoria",
		models.IncomeCategories, summary.CategoryBreakdown[models.TransactionIncome])
	categorySectionPDF(pdf, tr, y+14, "Saídas por Categoria",
		models.ExpenseCategories, summary.CategoryBreakdown[models.TransactionExpense])

	return pdfBuffer(pdf)
}

func categorySectionPDF(pdf *gofpdf.Fpdf, tr func(string) string, y float64, title string,
	order []models.TransactionCategory, breakdown map[models.TransactionCategory]finance.CategoryTotal) float64 {

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginLeft, y, tr(title))
	pdf.SetFont("Helvetica", "", 11)

	for _, category := range order {
		entry, ok := breakdown[category]
		if !ok {
			continue
		}
		y += rowHeight
		if y > pageBottom {
			pdf.AddPage()
			y = 60.0
		}
		line := fmt.Sprintf("%s: %s (%d transações)",
			category, formatMoney(entry.TotalAmount), entry.TransactionCount)
		pdf.Text(marginLeft, y, tr(line))
	}
	return y
}

func transactionsToPDF(page *finance.TransactionPage) (*bytes.Buffer, error) {
	pdf, tr := newPDF()

	y := 60.0
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(marginLeft, y, tr("Relatório de Transações"))

	y += 30
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(marginLeft, y, tr(formatPeriod(page.Period)))

	y += 34
	y = transactionHeaderPDF(pdf, tr, y)

	pdf.SetFont("Helvetica", "", 10)
	for _, tx := range page.Transactions {
		y += rowHeight
		if y > pageBottom {
			pdf.AddPage()
			y = transactionHeaderPDF(pdf, tr, 60.0)
			pdf.SetFont("Helvetica", "", 10)
			y += rowHeight
		}
		pdf.Text(colDate, y, tx.TransactionDate.Format(dateLayout))
		pdf.Text(colType, y, string(tx.Type))
		pdf.Text(colCategory, y, string(tx.Category))
		pdf.Text(colAmount, y, formatMoney(money(tx.Amount)))
		pdf.Text(colStatus, y, string(tx.Status))
	}

	return pdfBuffer(pdf)
}

func transactionHeaderPDF(pdf *gofpdf.Fpdf, tr func(string) string, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(colDate, y, tr("Data"))
	pdf.Text(colType, y, tr("Tipo"))
	pdf.Text(colCategory, y, tr("Categoria"))
	pdf.Text(colAmount, y, tr("Valor"))
	pdf.Text(colStatus, y, tr("Status"))
	return y
}
