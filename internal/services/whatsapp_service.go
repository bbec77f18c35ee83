package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"zapcrm/internal/format"
	"zapcrm/internal/models"
)

// InboundMessage is the webhook payload produced by the n8n WhatsApp
// flow.
type InboundMessage struct {
	ContactName  string    `json:"contactName"`
	ContactPhone string    `json:"contactPhone"`
	MessageID    string    `json:"messageId"`
	Content      string    `json:"content"`
	Direction    string    `json:"direction"`
	Timestamp    time.Time `json:"timestamp"`
}

var ErrIncompletePayload = errors.New("payload must carry contactName, contactPhone, messageId, content, direction, timestamp")

func (m *InboundMessage) Validate() error {
	if m.ContactName == "" || m.ContactPhone == "" || m.MessageID == "" ||
		m.Content == "" || m.Direction == "" || m.Timestamp.IsZero() {
		return ErrIncompletePayload
	}
	if m.Direction != models.DirectionIncoming && m.Direction != models.DirectionOutgoing {
		return fmt.Errorf("invalid direction %q", m.Direction)
	}
	return nil
}

type IngestResult struct {
	LeadID      uuid.UUID `json:"lead_id"`
	LeadCreated bool      `json:"lead_created"`
	Duplicate   bool      `json:"duplicate"`
}

// whatsappLeadStore is the slice of the lead layer the ingester needs.
type whatsappLeadStore interface {
	FindByPhone(ctx context.Context, telefone string) (*models.Lead, error)
	Create(ctx context.Context, lead *models.Lead) error
}

type adminFinder interface {
	FirstAdmin(ctx context.Context) (*models.AppUser, error)
}

type messageStore interface {
	Insert(ctx context.Context, msg *models.WhatsappMessage) error
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]models.WhatsappMessage, error)
	Conversations(ctx context.Context) ([]models.Conversation, error)
}

// LeadNotifier is told about leads the webhook created. The telegram
// bot implements it; a nil notifier disables the feature.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, lead models.Lead)
}

type WhatsappService struct {
	leads    whatsappLeadStore
	users    adminFinder
	messages messageStore
	notifier LeadNotifier
	log      zerolog.Logger
}

func NewWhatsappService(leads whatsappLeadStore, users adminFinder, messages messageStore, notifier LeadNotifier, log zerolog.Logger) *WhatsappService {
	return &WhatsappService{leads: leads, users: users, messages: messages, notifier: notifier, log: log}
}

// Ingest upserts the conversation partner as a lead (keyed by
// normalized phone number) and records the message. A message_id seen
// before is reported as a duplicate and ignored.
func (s *WhatsappService) Ingest(ctx context.Context, in InboundMessage) (*IngestResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	phone := format.CleanPhone(in.ContactPhone)
	lead, err := s.leads.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("find lead by phone: %w", err)
	}

	result := &IngestResult{}
	if lead == nil {
		admin, err := s.users.FirstAdmin(ctx)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				return nil, errors.New("nenhum usuário administrador encontrado para atribuir o novo lead")
			}
			return nil, err
		}

		adminID := admin.ID
		lead = &models.Lead{
			ID:            uuid.New(),
			Nome:          in.ContactName,
			Telefone:      phone,
			Valor:         decimal.Zero,
			Origem:        models.OriginWhatsapp,
			Status:        models.StatusNovo,
			ResponsavelID: &adminID,
			CreatedBy:     adminID,
			CreatedAt:     time.Now(),
		}
		if err := s.leads.Create(ctx, lead); err != nil {
			return nil, fmt.Errorf("create lead: %w", err)
		}
		result.LeadCreated = true

		if s.notifier != nil {
			s.notifier.NotifyNewLead(ctx, *lead)
		}
	}
	result.LeadID = lead.ID

	msg := &models.WhatsappMessage{
		LeadID:    lead.ID,
		MessageID: in.MessageID,
		Content:   in.Content,
		Direction: in.Direction,
		Timestamp: in.Timestamp,
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		if errors.Is(err, models.ErrDuplicateMessage) {
			s.log.Warn().Str("message_id", in.MessageID).Msg("mensagem duplicada ignorada")
			result.Duplicate = true
			return result, nil
		}
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return result, nil
}

// RecordOutgoing stores a message sent to the lead from inside the CRM.
func (s *WhatsappService) RecordOutgoing(ctx context.Context, leadID uuid.UUID, content string) (*models.WhatsappMessage, error) {
	if content == "" {
		return nil, errors.New("content is required")
	}
	msg := &models.WhatsappMessage{
		LeadID:    leadID,
		MessageID: "crm-" + uuid.NewString(),
		Content:   content,
		Direction: models.DirectionOutgoing,
		Timestamp: time.Now(),
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *WhatsappService) Conversations(ctx context.Context) ([]models.Conversation, error) {
	return s.messages.Conversations(ctx)
}

func (s *WhatsappService) Messages(ctx context.Context, leadID uuid.UUID) ([]models.WhatsappMessage, error) {
	return s.messages.ListByLead(ctx, leadID)
}
