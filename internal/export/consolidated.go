// internal/export/consolidated.go
package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/gabibigol/pos-venda/internal/apperr"
	"github.com/gabibigol/pos-venda/internal/reports"
)

// Technician-table x-offsets in points.
const (
	colTechName = marginLeft
	colOrders   = 260.0
	colRevenue  = 340.0
	colAvgValue = 450.0
)

func consolidatedToPDF(report *reports.ConsolidatedReport) (*bytes.Buffer, error) {
	pdf, tr := newPDF()

	y := 60.0
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(marginLeft, y, tr("Relatório Consolidado"))

	y += 30
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(marginLeft, y, tr(fmt.Sprintf("Período: %s a %s",
		report.Period.StartDate.Format(dateLayout), report.Period.EndDate.Format(dateLayout))))

	y += 34
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginLeft, y, tr("Métricas do Negócio"))
	pdf.SetFont("Helvetica", "", 11)
	y += rowHeight
	pdf.Text(marginLeft, y, tr("Receita Total: "+formatMoney(report.BusinessMetrics.TotalRevenue)))
	y += rowHeight
	pdf.Text(marginLeft, y, tr(fmt.Sprintf("Total de Ordens: %d", report.BusinessMetrics.TotalOrders)))
	y += rowHeight
	pdf.Text(marginLeft, y, tr("Valor Médio por Ordem: "+formatMoney(report.BusinessMetrics.AverageOrderValue)))

	y += 34
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginLeft, y, tr("Melhores Técnicos"))
	y += rowHeight
	y = technicianHeaderPDF(pdf, tr, y)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range report.BusinessMetrics.TopTechnicians {
		y += rowHeight
		y = technicianRowPDF(pdf, tr, y, row)
	}

	y += 34
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginLeft, y, tr("Detalhamento por Técnico"))
	y += rowHeight
	y = technicianHeaderPDF(pdf, tr, y)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range report.DetailedData {
		y += rowHeight
		y = technicianRowPDF(pdf, tr, y, row)
	}

	return pdfBuffer(pdf)
}

func technicianHeaderPDF(pdf *gofpdf.Fpdf, tr func(string) string, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(colTechName, y, tr("Técnico"))
	pdf.Text(colOrders, y, tr("Ordens"))
	pdf.Text(colRevenue, y, tr("Receita"))
	pdf.Text(colAvgValue, y, tr("Valor Médio"))
	return y
}

func technicianRowPDF(pdf *gofpdf.Fpdf, tr func(string) string, y float64, row reports.TechnicianMetric) float64 {
	if y > pageBottom {
		pdf.AddPage()
		y = technicianHeaderPDF(pdf, tr, 60.0)
		pdf.SetFont("Helvetica", "", 10)
		y += rowHeight
	}
	pdf.Text(colTechName, y, tr(row.TechnicianName))
	pdf.Text(colOrders, y, fmt.Sprintf("%d", row.TotalServiceOrders))
	pdf.Text(colRevenue, y, formatMoney(row.TotalRevenue))
	pdf.Text(colAvgValue, y, formatMoney(row.AverageServiceValue))
	return y
}

func consolidatedToExcel(report *reports.ConsolidatedReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	sheet := "Relatório Consolidado"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, apperr.NewExport("Falha ao gerar planilha", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheet, "A1", "Relatório Consolidado")
	f.SetCellValue(sheet, "A2", "Período")
	f.SetCellValue(sheet, "B2", fmt.Sprintf("%s a %s",
		report.Period.StartDate.Format(dateLayout), report.Period.EndDate.Format(dateLayout)))

	f.SetCellValue(sheet, "A4", "Receita Total")
	f.SetCellValue(sheet, "B4", report.BusinessMetrics.TotalRevenue)
	f.SetCellValue(sheet, "A5", "Total de Ordens")
	f.SetCellValue(sheet, "B5", report.BusinessMetrics.TotalOrders)
	f.SetCellValue(sheet, "A6", "Valor Médio por Ordem")
	f.SetCellValue(sheet, "B6", report.BusinessMetrics.AverageOrderValue)

	row := 8
	row = technicianSectionExcel(f, sheet, row, "Melhores Técnicos", report.BusinessMetrics.TopTechnicians)
	technicianSectionExcel(f, sheet, row+1, "Detalhamento por Técnico", report.DetailedData)

	return excelBuffer(f)
}

func technicianSectionExcel(f *excelize.File, sheet string, row int, title string, rows []reports.TechnicianMetric) int {
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), title)
	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Técnico")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Ordens")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Receita")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Valor Médio")

	for _, metric := range rows {
		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), metric.TechnicianName)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), metric.TotalServiceOrders)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), metric.TotalRevenue)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), metric.AverageServiceValue)
	}
	return row + 1
}
