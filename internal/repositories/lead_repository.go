package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"zapcrm/internal/models"
)

type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `id, nome, COALESCE(empresa, ''), COALESCE(email, ''), COALESCE(telefone, ''),
	valor, origem, status, responsavel_id, created_by, COALESCE(observacoes, ''), created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (models.Lead, error) {
	var (
		l           models.Lead
		responsavel uuid.NullUUID
		updatedAt   sql.NullTime
	)
	err := row.Scan(
		&l.ID, &l.Nome, &l.Empresa, &l.Email, &l.Telefone,
		&l.Valor, &l.Origem, &l.Status, &responsavel, &l.CreatedBy,
		&l.Observacoes, &l.CreatedAt, &updatedAt,
	)
	if err != nil {
		return models.Lead{}, err
	}
	if responsavel.Valid {
		id := responsavel.UUID
		l.ResponsavelID = &id
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		l.UpdatedAt = &t
	}
	return l, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	const query = `
		INSERT INTO leads (id, nome, empresa, email, telefone, valor, origem, status,
			responsavel_id, created_by, observacoes, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''),
			$6, $7, $8, $9, $10, NULLIF($11, ''), $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		lead.ID, lead.Nome, lead.Empresa, lead.Email, lead.Telefone,
		lead.Valor, lead.Origem, lead.Status, nullUUID(lead.ResponsavelID),
		lead.CreatedBy, lead.Observacoes, lead.CreatedAt,
	)
	return err
}

func (r *LeadRepository) Update(ctx context.Context, lead *models.Lead) error {
	const query = `
		UPDATE leads
		SET nome = $1, empresa = NULLIF($2, ''), email = NULLIF($3, ''),
			telefone = NULLIF($4, ''), valor = $5, origem = $6, status = $7,
			responsavel_id = $8, observacoes = NULLIF($9, ''), updated_at = now()
		WHERE id = $10
	`
	res, err := r.db.ExecContext(ctx, query,
		lead.Nome, lead.Empresa, lead.Email, lead.Telefone,
		lead.Valor, lead.Origem, lead.Status, nullUUID(lead.ResponsavelID),
		lead.Observacoes, lead.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.LeadStatus) error {
	const query = `UPDATE leads SET status = $1, updated_at = now() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *LeadRepository) UpdateOwner(ctx context.Context, id uuid.UUID, responsavelID *uuid.UUID) error {
	const query = `UPDATE leads SET responsavel_id = $1, updated_at = now() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, nullUUID(responsavelID), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	const query = `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// FindByPhone looks a lead up by normalized phone number. No match is
// (nil, nil), not an error: the webhook treats absence as "create".
func (r *LeadRepository) FindByPhone(ctx context.Context, telefone string) (*models.Lead, error) {
	const query = `SELECT ` + leadColumns + ` FROM leads WHERE telefone = $1 ORDER BY created_at LIMIT 1`
	lead, err := scanLead(r.db.QueryRowContext(ctx, query, telefone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &lead, nil
}

// ListAll returns every lead, newest first. The board, the lead table
// and the dashboard all consume this ordering.
func (r *LeadRepository) ListAll(ctx context.Context) ([]models.Lead, error) {
	const query = `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM leads WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// BulkInsert writes an import batch in one transaction.
func (r *LeadRepository) BulkInsert(ctx context.Context, leads []models.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insert = `
		INSERT INTO leads (id, nome, empresa, email, telefone, valor, origem, status,
			responsavel_id, created_by, observacoes, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''),
			$6, $7, $8, $9, $10, NULLIF($11, ''), $12)
	`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range leads {
		l := &leads[i]
		if _, err := stmt.ExecContext(ctx,
			l.ID, l.Nome, l.Empresa, l.Email, l.Telefone,
			l.Valor, l.Origem, l.Status, nullUUID(l.ResponsavelID),
			l.CreatedBy, l.Observacoes, l.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert lead %q: %w", l.Nome, err)
		}
	}
	return tx.Commit()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrLeadNotFound
	}
	return nil
}
