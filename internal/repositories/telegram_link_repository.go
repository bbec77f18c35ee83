package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

var ErrLinkCodeNotFound = errors.New("telegram link code not found")

type TelegramLinkRepository struct {
	db *sql.DB
}

func NewTelegramLinkRepository(db *sql.DB) *TelegramLinkRepository {
	return &TelegramLinkRepository{db: db}
}

// CreateCode stores a one-shot link code for the user. Requesting a new
// code replaces any pending one.
func (r *TelegramLinkRepository) CreateCode(ctx context.Context, userID uuid.UUID, code string) error {
	const query = `
		DELETE FROM telegram_links WHERE user_id = $1 AND chat_id IS NULL
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return err
	}
	const insert = `INSERT INTO telegram_links (user_id, link_code) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, insert, userID, code)
	return err
}

// LinkChat binds a chat to the user that owns the pending code.
func (r *TelegramLinkRepository) LinkChat(ctx context.Context, code string, chatID int64) error {
	const query = `
		UPDATE telegram_links SET chat_id = $1, linked_at = now()
		WHERE link_code = $2 AND chat_id IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, chatID, code)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLinkCodeNotFound
	}
	return nil
}

// LinkedChatIDs returns every chat that should receive lead
// notifications.
func (r *TelegramLinkRepository) LinkedChatIDs(ctx context.Context) ([]int64, error) {
	const query = `SELECT chat_id FROM telegram_links WHERE chat_id IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
