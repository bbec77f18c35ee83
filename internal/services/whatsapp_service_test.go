package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapcrm/internal/models"
)

type fakeWhatsappLeads struct {
	byPhone map[string]*models.Lead
	created []*models.Lead
}

func (f *fakeWhatsappLeads) FindByPhone(_ context.Context, telefone string) (*models.Lead, error) {
	return f.byPhone[telefone], nil
}

func (f *fakeWhatsappLeads) Create(_ context.Context, lead *models.Lead) error {
	f.created = append(f.created, lead)
	return nil
}

type fakeAdminFinder struct {
	admin *models.AppUser
}

func (f *fakeAdminFinder) FirstAdmin(context.Context) (*models.AppUser, error) {
	if f.admin == nil {
		return nil, models.ErrUserNotFound
	}
	return f.admin, nil
}

type fakeMessages struct {
	inserted []*models.WhatsappMessage
	seen     map[string]bool
}

func (f *fakeMessages) Insert(_ context.Context, msg *models.WhatsappMessage) error {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[msg.MessageID] {
		return models.ErrDuplicateMessage
	}
	f.seen[msg.MessageID] = true
	f.inserted = append(f.inserted, msg)
	return nil
}

func (f *fakeMessages) ListByLead(context.Context, uuid.UUID) ([]models.WhatsappMessage, error) {
	return nil, nil
}

func (f *fakeMessages) Conversations(context.Context) ([]models.Conversation, error) {
	return nil, nil
}

type recordingNotifier struct {
	notified []models.Lead
}

func (n *recordingNotifier) NotifyNewLead(_ context.Context, lead models.Lead) {
	n.notified = append(n.notified, lead)
}

func inbound() InboundMessage {
	return InboundMessage{
		ContactName:  "Maria",
		ContactPhone: "+55 (11) 99999-9999",
		MessageID:    "wamid.1",
		Content:      "Olá, quero um orçamento",
		Direction:    models.DirectionIncoming,
		Timestamp:    time.Now(),
	}
}

func TestIngest_CreatesLeadForUnknownPhone(t *testing.T) {
	admin := &models.AppUser{ID: uuid.New(), Nome: "Admin", Papel: models.RoleAdmin}
	leads := &fakeWhatsappLeads{byPhone: map[string]*models.Lead{}}
	messages := &fakeMessages{}
	notifier := &recordingNotifier{}

	svc := NewWhatsappService(leads, &fakeAdminFinder{admin: admin}, messages, notifier, zerolog.Nop())

	result, err := svc.Ingest(context.Background(), inbound())
	require.NoError(t, err)

	assert.True(t, result.LeadCreated)
	assert.False(t, result.Duplicate)
	require.Len(t, leads.created, 1)

	lead := leads.created[0]
	assert.Equal(t, "Maria", lead.Nome)
	// phone is normalized to digits before the lookup and the insert
	assert.Equal(t, "5511999999999", lead.Telefone)
	assert.Equal(t, models.OriginWhatsapp, lead.Origem)
	assert.Equal(t, models.StatusNovo, lead.Status)
	assert.True(t, lead.Valor.IsZero())
	require.NotNil(t, lead.ResponsavelID)
	assert.Equal(t, admin.ID, *lead.ResponsavelID)
	assert.Equal(t, admin.ID, lead.CreatedBy)

	require.Len(t, notifier.notified, 1)
	require.Len(t, messages.inserted, 1)
	assert.Equal(t, lead.ID, messages.inserted[0].LeadID)
}

func TestIngest_ReusesExistingLead(t *testing.T) {
	existing := &models.Lead{ID: uuid.New(), Nome: "Maria", Telefone: "5511999999999"}
	leads := &fakeWhatsappLeads{byPhone: map[string]*models.Lead{"5511999999999": existing}}
	messages := &fakeMessages{}
	notifier := &recordingNotifier{}

	svc := NewWhatsappService(leads, &fakeAdminFinder{}, messages, notifier, zerolog.Nop())

	result, err := svc.Ingest(context.Background(), inbound())
	require.NoError(t, err)

	assert.False(t, result.LeadCreated)
	assert.Equal(t, existing.ID, result.LeadID)
	assert.Empty(t, leads.created)
	assert.Empty(t, notifier.notified)
	require.Len(t, messages.inserted, 1)
	assert.Equal(t, existing.ID, messages.inserted[0].LeadID)
}

func TestIngest_NoAdminToAssign(t *testing.T) {
	leads := &fakeWhatsappLeads{byPhone: map[string]*models.Lead{}}
	svc := NewWhatsappService(leads, &fakeAdminFinder{}, &fakeMessages{}, nil, zerolog.Nop())

	_, err := svc.Ingest(context.Background(), inbound())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nenhum usuário administrador encontrado")
	assert.Empty(t, leads.created)
}

func TestIngest_DuplicateMessageIsIgnored(t *testing.T) {
	existing := &models.Lead{ID: uuid.New(), Nome: "Maria", Telefone: "5511999999999"}
	leads := &fakeWhatsappLeads{byPhone: map[string]*models.Lead{"5511999999999": existing}}
	messages := &fakeMessages{}

	svc := NewWhatsappService(leads, &fakeAdminFinder{}, messages, nil, zerolog.Nop())

	first, err := svc.Ingest(context.Background(), inbound())
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := svc.Ingest(context.Background(), inbound())
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, existing.ID, second.LeadID)
	assert.Len(t, messages.inserted, 1)
}

func TestIngest_RejectsIncompletePayload(t *testing.T) {
	svc := NewWhatsappService(&fakeWhatsappLeads{}, &fakeAdminFinder{}, &fakeMessages{}, nil, zerolog.Nop())

	in := inbound()
	in.Content = ""
	_, err := svc.Ingest(context.Background(), in)
	assert.ErrorIs(t, err, ErrIncompletePayload)

	in = inbound()
	in.Direction = "sideways"
	_, err = svc.Ingest(context.Background(), in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid direction")
}

func TestRecordOutgoing(t *testing.T) {
	messages := &fakeMessages{}
	svc := NewWhatsappService(&fakeWhatsappLeads{}, &fakeAdminFinder{}, messages, nil, zerolog.Nop())

	leadID := uuid.New()
	msg, err := svc.RecordOutgoing(context.Background(), leadID, "Obrigado pelo contato!")
	require.NoError(t, err)

	assert.Equal(t, leadID, msg.LeadID)
	assert.Equal(t, models.DirectionOutgoing, msg.Direction)
	assert.NotEmpty(t, msg.MessageID)

	_, err = svc.RecordOutgoing(context.Background(), leadID, "")
	require.Error(t, err)
}
