package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapcrm/internal/models"
)

type fakeLeadLister struct {
	leads []models.Lead
}

func (f *fakeLeadLister) ListLeads(context.Context) ([]models.Lead, error) {
	return f.leads, nil
}

type fakeTeamLister struct {
	users []models.AppUser
}

func (f *fakeTeamLister) ListTeam(context.Context) ([]models.AppUser, error) {
	return f.users, nil
}

func reportLead(nome string, status models.LeadStatus, valor string, owner *uuid.UUID, createdAt time.Time) models.Lead {
	v, _ := decimal.NewFromString(valor)
	return models.Lead{
		ID:            uuid.New(),
		Nome:          nome,
		Valor:         v,
		Origem:        models.OriginOutros,
		Status:        status,
		ResponsavelID: owner,
		CreatedAt:     createdAt,
	}
}

func TestSummarize_KPIs(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ownerID := uuid.New()
	owner := models.AppUser{ID: ownerID, Nome: "Ana", Papel: models.RoleVendedor}

	leads := []models.Lead{
		reportLead("a", models.StatusGanho, "3500", &ownerID, now),
		reportLead("b", models.StatusGanho, "1500.50", &ownerID, now.AddDate(0, 0, -1)),
		reportLead("c", models.StatusNovo, "0", &ownerID, now),
		reportLead("d", models.StatusPerdido, "900", nil, now),
	}

	svc := NewReportService(&fakeLeadLister{leads: leads}, &fakeTeamLister{users: []models.AppUser{owner}}, zerolog.Nop())
	svc.now = func() time.Time { return now }

	summary, err := svc.Summarize(context.Background(), Period7d)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalLeads)
	assert.Equal(t, 2, summary.NegociosGanhos)
	assert.Equal(t, "5000.5", summary.ValorGanho.String())
	assert.InDelta(t, 50.0, summary.TaxaConversao, 0.001)
}

func TestSummarize_PeriodFiltering(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		reportLead("today", models.StatusNovo, "0", nil, now),
		reportLead("last week", models.StatusNovo, "0", nil, now.AddDate(0, 0, -6)),
		reportLead("old", models.StatusNovo, "0", nil, now.AddDate(0, 0, -40)),
	}

	svc := NewReportService(&fakeLeadLister{leads: leads}, &fakeTeamLister{}, zerolog.Nop())
	svc.now = func() time.Time { return now }

	cases := []struct {
		period Period
		want   int
	}{
		{PeriodHoje, 1},
		{Period7d, 2},
		{Period30d, 2},
		{PeriodTotal, 3},
	}
	for _, tc := range cases {
		summary, err := svc.Summarize(context.Background(), tc.period)
		require.NoError(t, err)
		assert.Equal(t, tc.want, summary.TotalLeads, "period %s", tc.period)
	}
}

func TestSummarize_PorDiaSortedChronologically(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		reportLead("c", models.StatusNovo, "0", nil, now),
		reportLead("a", models.StatusNovo, "0", nil, now.AddDate(0, 0, -2)),
		reportLead("b", models.StatusNovo, "0", nil, now.AddDate(0, 0, -2)),
		reportLead("d", models.StatusNovo, "0", nil, now.AddDate(0, 0, -1)),
	}

	svc := NewReportService(&fakeLeadLister{leads: leads}, &fakeTeamLister{}, zerolog.Nop())
	svc.now = func() time.Time { return now }

	summary, err := svc.Summarize(context.Background(), Period7d)
	require.NoError(t, err)

	require.Len(t, summary.PorDia, 3)
	assert.Equal(t, []DayPoint{
		{Dia: "13/06", Leads: 2},
		{Dia: "14/06", Leads: 1},
		{Dia: "15/06", Leads: 1},
	}, summary.PorDia)
}

func TestSummarize_PorVendedorSortedByValorGanho(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	anaID, brunoID := uuid.New(), uuid.New()
	team := []models.AppUser{
		{ID: anaID, Nome: "Ana", Papel: models.RoleVendedor},
		{ID: brunoID, Nome: "Bruno", Papel: models.RoleVendedor},
	}
	leads := []models.Lead{
		reportLead("a", models.StatusGanho, "1000", &anaID, now),
		reportLead("b", models.StatusNovo, "0", &anaID, now),
		reportLead("c", models.StatusGanho, "5000", &brunoID, now),
	}

	svc := NewReportService(&fakeLeadLister{leads: leads}, &fakeTeamLister{users: team}, zerolog.Nop())
	svc.now = func() time.Time { return now }

	summary, err := svc.Summarize(context.Background(), Period7d)
	require.NoError(t, err)

	require.Len(t, summary.PorVendedor, 2)
	assert.Equal(t, "Bruno", summary.PorVendedor[0].Nome)
	assert.Equal(t, "100.0%", summary.PorVendedor[0].Conversao)
	assert.Equal(t, "Ana", summary.PorVendedor[1].Nome)
	assert.Equal(t, 2, summary.PorVendedor[1].Leads)
	assert.Equal(t, 1, summary.PorVendedor[1].Ganhos)
	assert.Equal(t, "50.0%", summary.PorVendedor[1].Conversao)
}

func TestSummarize_InvalidPeriodDefaultsTo7d(t *testing.T) {
	svc := NewReportService(&fakeLeadLister{}, &fakeTeamLister{}, zerolog.Nop())
	summary, err := svc.Summarize(context.Background(), Period("mes"))
	require.NoError(t, err)
	assert.Equal(t, Period7d, summary.Periodo)
}
