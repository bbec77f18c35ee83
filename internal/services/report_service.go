package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"zapcrm/internal/models"
)

// Period selects the dashboard window. "total" means no filtering.
type Period string

const (
	PeriodHoje  Period = "hoje"
	Period7d    Period = "7d"
	Period30d   Period = "30d"
	PeriodTotal Period = "total"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodHoje, Period7d, Period30d, PeriodTotal:
		return true
	}
	return false
}

// Range returns the inclusive [from, to] bounds for the period at day
// precision. "hoje" covers the current day, "7d" the last seven days
// including today, "30d" the last thirty. ok is false for "total".
func (p Period) Range(now time.Time) (from, to time.Time, ok bool) {
	startOfDay := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	endOfDay := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
	}
	switch p {
	case PeriodHoje:
		return startOfDay(now), endOfDay(now), true
	case Period7d:
		return startOfDay(now.AddDate(0, 0, -6)), endOfDay(now), true
	case Period30d:
		return startOfDay(now.AddDate(0, 0, -29)), endOfDay(now), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// DayPoint is one bar of the leads-per-day chart, keyed "dd/mm".
type DayPoint struct {
	Dia   string `json:"dia"`
	Leads int    `json:"leads"`
}

// OriginSlice is one slice of the leads-by-origin chart.
type OriginSlice struct {
	Origem models.LeadOrigin `json:"origem"`
	Leads  int               `json:"leads"`
}

// VendedorRow aggregates one salesperson's results, sorted by won
// value descending.
type VendedorRow struct {
	VendedorID string          `json:"vendedor_id"`
	Nome       string          `json:"nome"`
	Leads      int             `json:"leads"`
	Ganhos     int             `json:"ganhos"`
	Conversao  string          `json:"conversao"`
	ValorGanho decimal.Decimal `json:"valor_ganho"`
}

// Summary carries every dashboard number for one period.
type Summary struct {
	Periodo        Period          `json:"periodo"`
	TotalLeads     int             `json:"total_leads"`
	NegociosGanhos int             `json:"negocios_ganhos"`
	ValorGanho     decimal.Decimal `json:"valor_ganho"`
	TaxaConversao  float64         `json:"taxa_conversao"`
	PorDia         []DayPoint      `json:"por_dia"`
	PorOrigem      []OriginSlice   `json:"por_origem"`
	PorVendedor    []VendedorRow   `json:"por_vendedor"`
}

type reportLeadLister interface {
	ListLeads(ctx context.Context) ([]models.Lead, error)
}

type teamLister interface {
	ListTeam(ctx context.Context) ([]models.AppUser, error)
}

type ReportService struct {
	leads reportLeadLister
	users teamLister
	log   zerolog.Logger
	now   func() time.Time
}

func NewReportService(leads reportLeadLister, users teamLister, log zerolog.Logger) *ReportService {
	return &ReportService{leads: leads, users: users, log: log, now: time.Now}
}

// Summarize computes the dashboard aggregates over the leads created
// inside the period.
func (s *ReportService) Summarize(ctx context.Context, period Period) (*Summary, error) {
	if !period.Valid() {
		period = Period7d
	}

	all, err := s.leads.ListLeads(ctx)
	if err != nil {
		return nil, err
	}
	team, err := s.users.ListTeam(ctx)
	if err != nil {
		return nil, err
	}

	leads := filterByPeriod(all, period, s.now())

	summary := &Summary{
		Periodo:     period,
		TotalLeads:  len(leads),
		ValorGanho:  decimal.Zero,
		PorDia:      []DayPoint{},
		PorOrigem:   []OriginSlice{},
		PorVendedor: []VendedorRow{},
	}

	byDay := map[string]int{}
	byOrigin := map[models.LeadOrigin]int{}
	type acc struct {
		leads  int
		ganhos int
		valor  decimal.Decimal
	}
	byVendedor := map[string]*acc{}

	for _, l := range leads {
		if l.Status == models.StatusGanho {
			summary.NegociosGanhos++
			summary.ValorGanho = summary.ValorGanho.Add(l.Valor)
		}
		byDay[l.CreatedAt.Format("02/01")]++
		byOrigin[l.Origem]++
		if l.ResponsavelID != nil {
			key := l.ResponsavelID.String()
			a, ok := byVendedor[key]
			if !ok {
				a = &acc{valor: decimal.Zero}
				byVendedor[key] = a
			}
			a.leads++
			if l.Status == models.StatusGanho {
				a.ganhos++
				a.valor = a.valor.Add(l.Valor)
			}
		}
	}

	if summary.TotalLeads > 0 {
		summary.TaxaConversao = float64(summary.NegociosGanhos) / float64(summary.TotalLeads) * 100
	}

	for dia, n := range byDay {
		summary.PorDia = append(summary.PorDia, DayPoint{Dia: dia, Leads: n})
	}
	sort.Slice(summary.PorDia, func(i, j int) bool {
		return dayKeyLess(summary.PorDia[i].Dia, summary.PorDia[j].Dia)
	})

	for origem, n := range byOrigin {
		summary.PorOrigem = append(summary.PorOrigem, OriginSlice{Origem: origem, Leads: n})
	}
	sort.Slice(summary.PorOrigem, func(i, j int) bool {
		return summary.PorOrigem[i].Leads > summary.PorOrigem[j].Leads
	})

	for _, u := range team {
		a, ok := byVendedor[u.ID.String()]
		if !ok {
			continue
		}
		conv := 0.0
		if a.leads > 0 {
			conv = float64(a.ganhos) / float64(a.leads) * 100
		}
		summary.PorVendedor = append(summary.PorVendedor, VendedorRow{
			VendedorID: u.ID.String(),
			Nome:       u.Nome,
			Leads:      a.leads,
			Ganhos:     a.ganhos,
			Conversao:  fmt.Sprintf("%.1f%%", conv),
			ValorGanho: a.valor,
		})
	}
	sort.Slice(summary.PorVendedor, func(i, j int) bool {
		return summary.PorVendedor[i].ValorGanho.GreaterThan(summary.PorVendedor[j].ValorGanho)
	})

	return summary, nil
}

func filterByPeriod(leads []models.Lead, period Period, now time.Time) []models.Lead {
	from, to, bounded := period.Range(now)
	if !bounded {
		return leads
	}
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if !l.CreatedAt.Before(from) && !l.CreatedAt.After(to) {
			out = append(out, l)
		}
	}
	return out
}

// dayKeyLess orders "dd/mm" labels chronologically within a window
// that never spans more than 30 days, so a month wrap means the larger
// month comes first only when the day gap says so. Comparing by
// (month, day) is enough for same-year windows.
func dayKeyLess(a, b string) bool {
	var da, ma, db, mb int
	fmt.Sscanf(a, "%d/%d", &da, &ma)
	fmt.Sscanf(b, "%d/%d", &db, &mb)
	if ma != mb {
		// a 30-day window spanning a year boundary puts december
		// before january
		if ma == 12 && mb == 1 {
			return true
		}
		if ma == 1 && mb == 12 {
			return false
		}
		return ma < mb
	}
	return da < db
}
