package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"zapcrm/internal/models"
)

type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *models.Activity) error {
	const query = `
		INSERT INTO activities (lead_id, tipo, descricao, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, a.LeadID, a.Tipo, a.Descricao, a.CreatedBy).
		Scan(&a.ID, &a.CreatedAt)
}

func (r *ActivityRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]models.Activity, error) {
	const query = `
		SELECT id, lead_id, tipo, descricao, created_by, created_at
		FROM activities
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Tipo, &a.Descricao, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
