package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrResetTokenInvalid = errors.New("password reset token invalid or expired")

type PasswordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

func (r *PasswordResetRepository) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	const query = `
		INSERT INTO password_resets (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, userID, token, expiresAt)
	return err
}

// Consume marks a valid token as used and returns its user. Expired,
// unknown and already-used tokens all come back as
// ErrResetTokenInvalid.
func (r *PasswordResetRepository) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	const query = `
		UPDATE password_resets SET used = true
		WHERE token = $1 AND NOT used AND expires_at > now()
		RETURNING user_id
	`
	var userID uuid.UUID
	err := r.db.QueryRowContext(ctx, query, token).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, ErrResetTokenInvalid
		}
		return uuid.Nil, err
	}
	return userID, nil
}
