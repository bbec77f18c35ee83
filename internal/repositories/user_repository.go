package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"zapcrm/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, nome, email, papel, password_hash, refresh_token, refresh_expires_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (models.AppUser, error) {
	var (
		u          models.AppUser
		refresh    sql.NullString
		refreshExp sql.NullTime
		updatedAt  sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.Papel, &u.PasswordHash,
		&refresh, &refreshExp, &u.CreatedAt, &updatedAt)
	if err != nil {
		return models.AppUser{}, err
	}
	if refresh.Valid {
		u.RefreshToken = &refresh.String
	}
	if refreshExp.Valid {
		u.RefreshExpiresAt = &refreshExp.Time
	}
	if updatedAt.Valid {
		u.UpdatedAt = &updatedAt.Time
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.AppUser) error {
	const query = `
		INSERT INTO app_users (id, nome, email, papel, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Nome, user.Email, user.Papel, user.PasswordHash, user.CreatedAt)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AppUser, error) {
	const query = `SELECT ` + userColumns + ` FROM app_users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	const query = `SELECT ` + userColumns + ` FROM app_users WHERE email = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.AppUser, error) {
	const query = `SELECT ` + userColumns + ` FROM app_users ORDER BY created_at`
	return r.queryUsers(ctx, query)
}

// ListTeam returns the users that can own a lead, for the assignment
// dropdowns.
func (r *UserRepository) ListTeam(ctx context.Context) ([]models.AppUser, error) {
	const query = `SELECT ` + userColumns + ` FROM app_users WHERE papel IN ('admin', 'vendedor') ORDER BY nome`
	return r.queryUsers(ctx, query)
}

// FirstAdmin is the default assignee for leads created by the webhook.
func (r *UserRepository) FirstAdmin(ctx context.Context) (*models.AppUser, error) {
	const query = `SELECT ` + userColumns + ` FROM app_users WHERE papel = 'admin' ORDER BY created_at LIMIT 1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.AppUser) error {
	const query = `
		UPDATE app_users SET nome = $1, email = $2, papel = $3, updated_at = now()
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, user.Nome, user.Email, user.Papel, user.ID)
	if err != nil {
		return err
	}
	return requireUserRow(res)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const query = `UPDATE app_users SET password_hash = $1, updated_at = now() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	return requireUserRow(res)
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM app_users WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireUserRow(res)
}

func (r *UserRepository) SaveRefreshToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	const query = `UPDATE app_users SET refresh_token = $1, refresh_expires_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, token, expiresAt, id)
	if err != nil {
		return err
	}
	return requireUserRow(res)
}

func (r *UserRepository) GetByRefreshToken(ctx context.Context, token string) (*models.AppUser, error) {
	const query = `SELECT ` + userColumns + ` FROM app_users WHERE refresh_token = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]models.AppUser, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AppUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func requireUserRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrUserNotFound
	}
	return nil
}
