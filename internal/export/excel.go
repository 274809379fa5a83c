// internal/export/excel.go
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gabibigol/pos-venda/internal/apperr"
	"github.com/gabibigol/pos-venda/internal/finance"
	"github.com/gabibigol/pos-venda/models"
)

func excelBuffer(f *excelize.File) (*bytes.Buffer, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperr.NewExport("Falha ao gerar planilha", err)
	}
	return buf, nil
}

// financialReportToExcel mirrors the PDF layout as label/value rows followed
// by one table per transaction type.
func financialReportToExcel(summary *finance.FinancialSummary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	sheet := "Resumo Financeiro"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, apperr.NewExport("Falha ao gerar planilha", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheet, "A1", "Relatório Financeiro")
	f.SetCellValue(sheet, "A2", "Período")
	f.SetCellValue(sheet, "B2", formatPeriod(summary.Period))

	f.SetCellValue(sheet, "A4", "Entradas")
	f.SetCellValue(sheet, "B4", summary.Totals.Income)
	f.SetCellValue(sheet, "A5", "Saídas")
	f.SetCellValue(sheet, "B5", summary.Totals.Expense)
	f.SetCellValue(sheet, "A6", "Saldo")
	f.SetCellValue(sheet, "B6", summary.Totals.Balance)

	row := 8
	row = categorySectionExcel(f, sheet, row, "Entradas por Categoria",
		models.IncomeCategories, summary.CategoryBreakdown[models.TransactionIncome])
	categorySectionExcel(f, sheet, row+1, "Saídas por Categoria",
		models.ExpenseCategories, summary.CategoryBreakdown[models.TransactionExpense])

	return excelBuffer(f)
}

func categorySectionExcel(f *excelize.File, sheet string, row int, title string,
	order []models.TransactionCategory, breakdown map[models.TransactionCategory]finance.CategoryTotal) int {

	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), title)
	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Categoria")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Valor")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Transações")

	for _, category := range order {
		entry, ok := breakdown[category]
		if !ok {
			continue
		}
		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), string(category))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), entry.TotalAmount)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), entry.TransactionCount)
	}
	return row + 1
}

// transactionsToExcel writes the listing as a typed-column table.
func transactionsToExcel(page *finance.TransactionPage) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	sheet := "Transações"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, apperr.NewExport("Falha ao gerar planilha", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Data", "Tipo", "Categoria", "Valor", "Status", "Descrição"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for i, tx := range page.Transactions {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), tx.TransactionDate.Format(dateLayout))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), string(tx.Type))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), string(tx.Category))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), money(tx.Amount))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), string(tx.Status))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), tx.Description)
	}

	return excelBuffer(f)
}
