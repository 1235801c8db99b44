package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dadalto/producao-api/services"
)

// ReportController exposes the manager-facing summary and export endpoints.
type ReportController struct {
	reports *services.ReportService
}

// NewReportController creates a report controller.
func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

func filterFromQuery(c *gin.Context) services.EntryFilter {
	return services.EntryFilter{
		Operator: c.Query("operator"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}
}

// ByOperator handles GET /api/v1/reports/operators
func (ctrl *ReportController) ByOperator(c *gin.Context) {
	summaries, err := ctrl.reports.SummaryByOperator(filterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summaries)
}

// ByModel handles GET /api/v1/reports/models
func (ctrl *ReportController) ByModel(c *gin.Context) {
	summaries, err := ctrl.reports.SummaryByModel(filterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, summaries)
}

// ExportCSV handles GET /api/v1/reports/export.csv
func (ctrl *ReportController) ExportCSV(c *gin.Context) {
	filter := filterFromQuery(c)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"production_%s.csv\"",
		time.Now().Format("20060102")))

	if err := ctrl.reports.WriteCSV(c.Writer, filter); err != nil {
		// headers may already be out; only report cleanly when nothing was written
		if !c.Writer.Written() {
			respondError(c, err)
		}
		return
	}
}

// ExportXLSX handles GET /api/v1/reports/export.xlsx
func (ctrl *ReportController) ExportXLSX(c *gin.Context) {
	file, err := ctrl.reports.BuildXLSX(filterFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"production_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := file.Write(c.Writer); err != nil && !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_ERROR",
				"message": "Failed to write workbook",
			},
		})
	}
}
