package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"zapcrm/internal/format"
	"zapcrm/internal/services"
)

// Generator renders dashboard summaries as downloadable PDFs.
type Generator interface {
	GenerateSummary(summary *services.Summary, generatedAt time.Time) ([]byte, error)
}

type ReportGenerator struct {
	fontName string
}

func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{fontName: "Helvetica"}
}

var periodLabels = map[services.Period]string{
	services.PeriodHoje:  "Hoje",
	services.Period7d:    "Últimos 7 dias",
	services.Period30d:   "Últimos 30 dias",
	services.PeriodTotal: "Todo o período",
}

// GenerateSummary lays out the KPI block, the leads-by-origin table and
// the per-salesperson performance table.
func (g *ReportGenerator) GenerateSummary(summary *services.Summary, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Relatório de Leads", true)
	pdf.SetAuthor("ZapCRM", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Pág. %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, tr("Relatório de Leads"), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	sub := fmt.Sprintf("%s  ·  gerado em %s",
		periodLabels[summary.Periodo], generatedAt.Format("02/01/2006 15:04"))
	pdf.CellFormat(0, 7, tr(sub), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, tr, "Indicadores")
	g.kvLine(pdf, tr, "Total de leads", fmt.Sprintf("%d", summary.TotalLeads))
	g.kvLine(pdf, tr, "Negócios ganhos", fmt.Sprintf("%d", summary.NegociosGanhos))
	g.kvLine(pdf, tr, "Valor ganho", format.Currency(summary.ValorGanho))
	g.kvLine(pdf, tr, "Taxa de conversão", fmt.Sprintf("%.1f%%", summary.TaxaConversao))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, tr, "Leads por origem")
	for _, slice := range summary.PorOrigem {
		g.kvLine(pdf, tr, string(slice.Origem), fmt.Sprintf("%d", slice.Leads))
	}
	if len(summary.PorOrigem) == 0 {
		pdf.SetFont(g.fontName, "I", 11)
		pdf.CellFormat(0, 6, tr("Nenhum lead no período."), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, tr, "Performance por vendedor")
	if len(summary.PorVendedor) > 0 {
		pdf.SetFont(g.fontName, "B", 10)
		widths := []float64{60, 25, 25, 30, 30}
		headers := []string{"Vendedor", "Leads", "Ganhos", "Conversão", "Valor ganho"}
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, tr(h), "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(g.fontName, "", 10)
		for _, row := range summary.PorVendedor {
			pdf.CellFormat(widths[0], 6, tr(row.Nome), "", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d", row.Leads), "", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", row.Ganhos), "", 0, "L", false, 0, "")
			pdf.CellFormat(widths[3], 6, tr(row.Conversao), "", 0, "L", false, 0, "")
			pdf.CellFormat(widths[4], 6, tr(format.Currency(row.ValorGanho)), "", 1, "L", false, 0, "")
		}
	} else {
		pdf.SetFont(g.fontName, "I", 11)
		pdf.CellFormat(0, 6, tr("Nenhum vendedor com leads no período."), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, tr func(string) string, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, tr(s), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, tr func(string) string, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(55, 6, tr(key+":"), "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(val), "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
