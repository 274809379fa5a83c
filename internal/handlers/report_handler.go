// internal/handlers/report_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gabibigol/pos-venda/internal/audit"
	"github.com/gabibigol/pos-venda/internal/reports"
)

// ReportHandler serves the technician and consolidated reports.
type ReportHandler struct {
	svc   *reports.Service
	audit *audit.Logger
}

func NewReportHandler(svc *reports.Service, auditLog *audit.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, audit: auditLog}
}

// TechnicianReportHandler responds with per-technician metrics. An optional
// technicianId restricts the report to one technician and must exist.
func (h *ReportHandler) TechnicianReportHandler(c *gin.Context) {
	start, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	var technicianID *uint
	if raw := c.Query("technicianId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "technicianId inválido"})
			return
		}
		v := uint(id)
		technicianID = &v
	}

	page, limit := parsePagination(c)
	report, err := h.svc.GenerateTechnicianReport(c.Request.Context(), reports.Options{
		TechnicianID: technicianID,
		StartDate:    start,
		EndDate:      endOfDay(end),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.ReportAccess(c.GetUint("user_id"), "technician_report")
	c.JSON(http.StatusOK, report)
}

// ConsolidatedReportHandler responds with the business-wide report.
func (h *ReportHandler) ConsolidatedReportHandler(c *gin.Context) {
	start, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	page, limit := parsePagination(c)
	report, err := h.svc.GenerateConsolidatedReport(c.Request.Context(), reports.Options{
		StartDate: start,
		EndDate:   endOfDay(end),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.ReportAccess(c.GetUint("user_id"), "consolidated_report")
	c.JSON(http.StatusOK, report)
}

// ExportConsolidatedHandler streams the consolidated report as PDF or Excel.
func (h *ReportHandler) ExportConsolidatedHandler(c *gin.Context) {
	start, ok := parseDateQuery(c, "startDate")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "endDate")
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "pdf")
	artifact, err := h.svc.ExportConsolidatedReport(c.Request.Context(), reports.ExportOptions{
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
