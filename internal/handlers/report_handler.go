package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"zapcrm/internal/pdf"
	"zapcrm/internal/services"
)

type ReportHandler struct {
	Service   *services.ReportService
	Generator pdf.Generator
}

func NewReportHandler(service *services.ReportService, generator pdf.Generator) *ReportHandler {
	return &ReportHandler{Service: service, Generator: generator}
}

// @Summary      Resumo do dashboard
// @Description  Indicadores, leads por dia, por origem e performance por vendedor
// @Tags         Reports
// @Produce      json
// @Param        periodo  query     string  false  "hoje | 7d | 30d | total"  default(7d)
// @Success      200      {object}  services.Summary
// @Failure      500      {object}  map[string]string
// @Router       /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	period := services.Period(c.DefaultQuery("periodo", string(services.Period7d)))
	summary, err := h.Service.Summarize(c.Request.Context(), period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SummaryPDF renders the same numbers as a downloadable report.
func (h *ReportHandler) SummaryPDF(c *gin.Context) {
	period := services.Period(c.DefaultQuery("periodo", string(services.Period7d)))
	summary, err := h.Service.Summarize(c.Request.Context(), period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}

	now := time.Now()
	data, err := h.Generator.GenerateSummary(summary, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render pdf"})
		return
	}

	filename := fmt.Sprintf("relatorio_leads_%s.pdf", now.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
