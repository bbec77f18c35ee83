package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicateMessage marks an inbound message whose message_id was
// already ingested. Duplicates are expected (webhook retries) and are
// ignored, not failed.
var ErrDuplicateMessage = errors.New("duplicate whatsapp message")

const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

type WhatsappMessage struct {
	ID        int64     `json:"id"`
	LeadID    uuid.UUID `json:"lead_id"`
	MessageID string    `json:"message_id"`
	Content   string    `json:"content"`
	Direction string    `json:"direction"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the per-lead aggregation shown in the conversation
// list: the lead plus its latest message.
type Conversation struct {
	LeadID          uuid.UUID `json:"lead_id"`
	Nome            string    `json:"nome"`
	Telefone        string    `json:"telefone"`
	LastMessage     string    `json:"last_message"`
	LastMessageAt   time.Time `json:"last_message_at"`
	MessageCount    int       `json:"message_count"`
	LastMessageFrom string    `json:"last_message_from"` // incoming | outgoing
}
