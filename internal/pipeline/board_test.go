package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapcrm/internal/models"
	"zapcrm/internal/pipeline"
)

// fakeStore is the remote store: ListLeads serves the current truth,
// UpdateLeadStatus mutates it (or fails when told to).
type fakeStore struct {
	leads       []models.Lead
	updateCalls int
	updateErr   error
}

func (s *fakeStore) ListLeads(_ context.Context) ([]models.Lead, error) {
	out := make([]models.Lead, len(s.leads))
	copy(out, s.leads)
	return out, nil
}

func (s *fakeStore) UpdateLeadStatus(_ context.Context, id uuid.UUID, status models.LeadStatus) error {
	s.updateCalls++
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.leads {
		if s.leads[i].ID == id {
			s.leads[i].Status = status
			return nil
		}
	}
	return models.ErrLeadNotFound
}

func lead(nome string, status models.LeadStatus, valor string, responsavel *uuid.UUID) models.Lead {
	v, _ := decimal.NewFromString(valor)
	return models.Lead{
		ID:            uuid.New(),
		Nome:          nome,
		Valor:         v,
		Origem:        models.OriginOutros,
		Status:        status,
		ResponsavelID: responsavel,
		CreatedBy:     uuid.New(),
	}
}

func admin() models.AppUser {
	return models.AppUser{ID: uuid.New(), Nome: "Admin", Papel: models.RoleAdmin}
}

func vendedor() models.AppUser {
	return models.AppUser{ID: uuid.New(), Nome: "Vendedor", Papel: models.RoleVendedor}
}

func loadedBoard(t *testing.T, store *fakeStore) *pipeline.Board {
	t.Helper()
	b := pipeline.NewBoard(store, zerolog.Nop())
	require.NoError(t, b.Load(context.Background()))
	return b
}

func statusPtr(s models.LeadStatus) *models.LeadStatus { return &s }

func TestGroupByStatus_TotalAndOrderPreserving(t *testing.T) {
	leads := []models.Lead{
		lead("a", models.StatusNovo, "1", nil),
		lead("b", models.StatusGanho, "2", nil),
		lead("c", models.StatusNovo, "3", nil),
		lead("d", models.StatusAtendimento, "4", nil),
		lead("e", models.StatusNovo, "5", nil),
	}

	cols := pipeline.GroupByStatus(leads)

	// every status key is present, in column order, even when empty
	require.Len(t, cols, 4)
	assert.Equal(t, models.StatusNovo, cols[0].ID)
	assert.Equal(t, models.StatusAtendimento, cols[1].ID)
	assert.Equal(t, models.StatusGanho, cols[2].ID)
	assert.Equal(t, models.StatusPerdido, cols[3].ID)
	assert.Empty(t, cols[3].Leads)
	assert.Equal(t, 0, cols[3].Count)

	// every lead in exactly one group, totals add up
	total := 0
	for _, col := range cols {
		assert.Equal(t, len(col.Leads), col.Count)
		total += col.Count
		for _, l := range col.Leads {
			assert.Equal(t, col.ID, l.Status)
		}
	}
	assert.Equal(t, len(leads), total)

	// relative input order is preserved within a column
	novo := cols[0].Leads
	require.Len(t, novo, 3)
	assert.Equal(t, "a", novo[0].Nome)
	assert.Equal(t, "c", novo[1].Nome)
	assert.Equal(t, "e", novo[2].Nome)
}

func TestGroupByStatus_EmptyInput(t *testing.T) {
	cols := pipeline.GroupByStatus(nil)
	require.Len(t, cols, 4)
	for _, col := range cols {
		assert.NotNil(t, col.Leads)
		assert.Empty(t, col.Leads)
	}
}

func TestEndDrag_SameColumnIsNoop(t *testing.T) {
	store := &fakeStore{leads: []models.Lead{lead("a", models.StatusNovo, "100", nil)}}
	b := loadedBoard(t, store)
	before := b.Columns()

	require.NoError(t, b.BeginDrag(store.leads[0].ID))
	res := b.EndDrag(context.Background(), store.leads[0].ID, statusPtr(models.StatusNovo), admin())

	assert.False(t, res.Moved)
	assert.Nil(t, res.Notification, "same-column drop shows no notification")
	assert.Equal(t, 0, store.updateCalls, "same-column drop never persists")
	assert.Equal(t, before, b.Columns())
}

func TestEndDrag_NoTargetIsNoop(t *testing.T) {
	store := &fakeStore{leads: []models.Lead{lead("a", models.StatusNovo, "100", nil)}}
	b := loadedBoard(t, store)

	require.NoError(t, b.BeginDrag(store.leads[0].ID))
	res := b.EndDrag(context.Background(), store.leads[0].ID, nil, admin())

	assert.False(t, res.Moved)
	assert.Nil(t, res.Notification)
	assert.Equal(t, 0, store.updateCalls)
	assert.Equal(t, uuid.Nil, b.Dragging(), "session cleared even without a drop target")
}

func TestEndDrag_UnknownLeadIsSilentNoop(t *testing.T) {
	store := &fakeStore{leads: []models.Lead{lead("a", models.StatusNovo, "100", nil)}}
	b := loadedBoard(t, store)

	res := b.EndDrag(context.Background(), uuid.New(), statusPtr(models.StatusGanho), admin())

	assert.False(t, res.Moved)
	assert.Nil(t, res.Notification)
	assert.Equal(t, 0, store.updateCalls)
}

func TestEndDrag_VendedorCannotMoveForeignLead(t *testing.T) {
	other := uuid.New()
	store := &fakeStore{leads: []models.Lead{lead("a", models.StatusNovo, "100", &other)}}
	b := loadedBoard(t, store)

	for _, target := range []models.LeadStatus{models.StatusAtendimento, models.StatusGanho, models.StatusPerdido} {
		res := b.EndDrag(context.Background(), store.leads[0].ID, statusPtr(target), vendedor())

		assert.False(t, res.Moved)
		require.NotNil(t, res.Notification)
		assert.Equal(t, pipeline.LevelError, res.Notification.Level)
		assert.Equal(t, "Você só pode mover seus próprios leads", res.Notification.Message)
	}
	assert.Equal(t, 0, store.updateCalls, "no persist regardless of target column")
}

func TestEndDrag_VendedorMovesOwnLead(t *testing.T) {
	actor := vendedor()
	store := &fakeStore{leads: []models.Lead{lead("a", models.StatusNovo, "100", &actor.ID)}}
	b := loadedBoard(t, store)

	res := b.EndDrag(context.Background(), store.leads[0].ID, statusPtr(models.StatusAtendimento), actor)

	assert.True(t, res.Moved)
	assert.Equal(t, 1, store.updateCalls)
	assert.Equal(t, models.StatusAtendimento, store.leads[0].Status)
}

func TestEndDrag_AdminMovesAnyLead(t *testing.T) {
	other := uuid.New()
	store := &fakeStore{leads: []models.Lead{lead("a", models.StatusNovo, "100", &other)}}
	b := loadedBoard(t, store)

	res := b.EndDrag(context.Background(), store.leads[0].ID, statusPtr(models.StatusAtendimento), admin())

	assert.True(t, res.Moved)
	assert.Equal(t, 1, store.updateCalls, "exactly one persist per valid drop")
	require.NotNil(t, res.Notification)
	assert.Equal(t, pipeline.LevelInfo, res.Notification.Level)
	assert.Equal(t, "Lead a movido para Atendimento", res.Notification.Message)

	// the board reflects the new column membership
	cols := b.Columns()
	assert.Empty(t, cols[0].Leads)
	require.Len(t, cols[1].Leads, 1)
}

func TestEndDrag_GanhoNotificationCarriesValor(t *testing.T) {
	store := &fakeStore{leads: []models.Lead{lead("Carlos", models.StatusNovo, "3500", nil)}}
	b := loadedBoard(t, store)

	res := b.EndDrag(context.Background(), store.leads[0].ID, statusPtr(models.StatusGanho), admin())

	assert.True(t, res.Moved)
	require.NotNil(t, res.Notification)
	assert.Equal(t, pipeline.LevelSuccess, res.Notification.Level)
	assert.Equal(t, "Lead Carlos marcado como ganho!", res.Notification.Message)
	assert.Equal(t, "Valor: R$ 3.500,00", res.Notification.Detail)
	assert.Equal(t, models.StatusGanho, store.leads[0].Status)
}

func TestEndDrag_PerdidoNotification(t *testing.T) {
	store := &fakeStore{leads: []models.Lead{lead("Ana", models.StatusAtendimento, "500", nil)}}
	b := loadedBoard(t, store)

	res := b.EndDrag(context.Background(), store.leads[0].ID, statusPtr(models.StatusPerdido), admin())

	require.NotNil(t, res.Notification)
	assert.Equal(t, pipeline.LevelError, res.Notification.Level)
	assert.Equal(t, "Lead Ana marcado como perdido", res.Notification.Message)
}

func TestEndDrag_PersistFailureRestoresRemoteTruth(t *testing.T) {
	store := &fakeStore{
		leads:     []models.Lead{lead("a", models.StatusNovo, "100", nil)},
		updateErr: errors.New("connection reset"),
	}
	b := loadedBoard(t, store)
	before := b.Columns()

	require.NoError(t, b.BeginDrag(store.leads[0].ID))
	res := b.EndDrag(context.Background(), store.leads[0].ID, statusPtr(models.StatusGanho), admin())

	assert.False(t, res.Moved)
	require.NotNil(t, res.Notification)
	assert.Equal(t, pipeline.LevelError, res.Notification.Level)
	assert.Contains(t, res.Notification.Message, "Erro ao mover lead")

	// the displayed grouping matches the pre-drag remote state
	assert.Equal(t, before, b.Columns())
	assert.Equal(t, uuid.Nil, b.Dragging(), "session cleared on the failure path too")
}

func TestBeginDrag_SingleSessionAtATime(t *testing.T) {
	store := &fakeStore{leads: []models.Lead{
		lead("a", models.StatusNovo, "1", nil),
		lead("b", models.StatusNovo, "2", nil),
	}}
	b := loadedBoard(t, store)

	require.NoError(t, b.BeginDrag(store.leads[0].ID))
	assert.ErrorIs(t, b.BeginDrag(store.leads[1].ID), pipeline.ErrDragActive)

	// after EndDrag a new drag may start
	b.EndDrag(context.Background(), store.leads[0].ID, nil, admin())
	assert.NoError(t, b.BeginDrag(store.leads[1].ID))
}

func TestBeginDrag_ClosesOpenDetailView(t *testing.T) {
	store := &fakeStore{leads: []models.Lead{
		lead("a", models.StatusNovo, "1", nil),
		lead("b", models.StatusNovo, "2", nil),
	}}
	b := loadedBoard(t, store)

	b.Select(store.leads[1].ID)
	require.Equal(t, store.leads[1].ID, b.Selected())

	require.NoError(t, b.BeginDrag(store.leads[0].ID))
	assert.Equal(t, uuid.Nil, b.Selected(), "drag start clears the stale selection")
}
