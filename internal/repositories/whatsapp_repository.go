package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"zapcrm/internal/models"
)

type WhatsappRepository struct {
	db *sql.DB
}

func NewWhatsappRepository(db *sql.DB) *WhatsappRepository {
	return &WhatsappRepository{db: db}
}

// Insert stores an inbound or outbound message. A message_id that was
// already stored comes back as models.ErrDuplicateMessage (unique
// violation), which callers treat as "already ingested".
func (r *WhatsappRepository) Insert(ctx context.Context, msg *models.WhatsappMessage) error {
	const query = `
		INSERT INTO whatsapp_messages (lead_id, message_id, content, direction, timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		msg.LeadID, msg.MessageID, msg.Content, msg.Direction, msg.Timestamp,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.ErrDuplicateMessage
		}
		return err
	}
	return nil
}

func (r *WhatsappRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]models.WhatsappMessage, error) {
	const query = `
		SELECT id, lead_id, message_id, content, direction, timestamp, created_at
		FROM whatsapp_messages
		WHERE lead_id = $1
		ORDER BY timestamp
	`
	rows, err := r.db.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WhatsappMessage
	for rows.Next() {
		var m models.WhatsappMessage
		if err := rows.Scan(&m.ID, &m.LeadID, &m.MessageID, &m.Content,
			&m.Direction, &m.Timestamp, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Conversations lists every lead that has at least one message, with
// its latest message first in the list.
func (r *WhatsappRepository) Conversations(ctx context.Context) ([]models.Conversation, error) {
	const query = `
		SELECT l.id, l.nome, COALESCE(l.telefone, ''),
			last.content, last.timestamp, last.direction, agg.total
		FROM leads l
		JOIN LATERAL (
			SELECT content, timestamp, direction
			FROM whatsapp_messages
			WHERE lead_id = l.id
			ORDER BY timestamp DESC
			LIMIT 1
		) last ON true
		JOIN LATERAL (
			SELECT COUNT(*) AS total
			FROM whatsapp_messages
			WHERE lead_id = l.id
		) agg ON true
		ORDER BY last.timestamp DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.LeadID, &c.Nome, &c.Telefone,
			&c.LastMessage, &c.LastMessageAt, &c.LastMessageFrom, &c.MessageCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
