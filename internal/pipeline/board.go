// Package pipeline implements the kanban board: leads grouped into the
// fixed status columns, one drag session at a time, and the status
// transition performed on drop. Any column may move to any other
// column in one step; the only gate is ownership for the vendedor
// role. Persistence is last-write-wins, no version check.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zapcrm/internal/authz"
	"zapcrm/internal/format"
	"zapcrm/internal/models"
)

// Store is what the board needs from the lead layer. UpdateLeadStatus
// is expected to invalidate any read cache so the next Load sees the
// move.
type Store interface {
	ListLeads(ctx context.Context) ([]models.Lead, error)
	UpdateLeadStatus(ctx context.Context, id uuid.UUID, status models.LeadStatus) error
}

// ErrDragActive: BeginDrag while another card is mid-drag.
var ErrDragActive = errors.New("another drag is already active")

const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Notification is the toast the front end shows after a drop.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type Column struct {
	ID    models.LeadStatus `json:"id"`
	Title string            `json:"title"`
	Count int               `json:"count"`
	Leads []models.Lead     `json:"leads"`
}

// MoveResult reports what a drop did. A nil Notification means nothing
// user-visible happened (released outside a column, stale lead, or a
// drop onto the current column).
type MoveResult struct {
	Moved        bool          `json:"moved"`
	Notification *Notification `json:"notification,omitempty"`
}

// GroupByStatus distributes leads over the fixed columns. It is total
// and order-preserving: every status is present even when empty, every
// lead lands in exactly the column matching its status, and leads keep
// their input order (the fetch order, creation-descending) within a
// column.
func GroupByStatus(leads []models.Lead) []Column {
	cols := make([]Column, 0, len(models.PipelineStatuses()))
	for _, status := range models.PipelineStatuses() {
		col := Column{ID: status, Title: string(status), Leads: []models.Lead{}}
		for _, lead := range leads {
			if lead.Status == status {
				col.Leads = append(col.Leads, lead)
			}
		}
		col.Count = len(col.Leads)
		cols = append(cols, col)
	}
	return cols
}

// Board is one user's view of the pipeline: the last-loaded lead set
// plus the active drag session. It holds no authority over persisted
// state; the store is the truth and the board resynchronizes from it
// after any failed move.
type Board struct {
	store Store
	log   zerolog.Logger

	leads    []models.Lead
	dragging uuid.UUID
	selected uuid.UUID

	// invoked when a drag starts, so stale selection state (an open
	// lead-detail view) is cleared before the card moves
	onDragStart func(leadID uuid.UUID)
}

func NewBoard(store Store, log zerolog.Logger) *Board {
	return &Board{store: store, log: log}
}

// OnDragStart registers the selection-clearing hook.
func (b *Board) OnDragStart(fn func(leadID uuid.UUID)) {
	b.onDragStart = fn
}

// Load fetches all leads, newest first. It has no side effect on the
// store.
func (b *Board) Load(ctx context.Context) error {
	leads, err := b.store.ListLeads(ctx)
	if err != nil {
		return fmt.Errorf("load leads: %w", err)
	}
	b.leads = leads
	return nil
}

// Columns renders the last-loaded set. Call Load first.
func (b *Board) Columns() []Column {
	return GroupByStatus(b.leads)
}

// Dragging returns the lead currently mid-drag, or uuid.Nil.
func (b *Board) Dragging() uuid.UUID {
	return b.dragging
}

// Select marks a lead as open in the detail view.
func (b *Board) Select(leadID uuid.UUID) {
	b.selected = leadID
}

// Selected returns the lead open in the detail view, or uuid.Nil.
func (b *Board) Selected() uuid.UUID {
	return b.selected
}

// BeginDrag opens the drag session. Only one drag may be active at a
// time. Starting a drag closes any open detail view so the board never
// shows detail for a lead mid-move.
func (b *Board) BeginDrag(leadID uuid.UUID) error {
	if b.dragging != uuid.Nil {
		return ErrDragActive
	}
	b.dragging = leadID
	b.selected = uuid.Nil
	if b.onDragStart != nil {
		b.onDragStart(leadID)
	}
	return nil
}

// EndDrag closes the drag session and, when the card was dropped onto
// a different column, authorizes and persists the transition:
//
//  1. the session is cleared unconditionally, failures included;
//  2. a nil target (released outside any column) does nothing;
//  3. a lead missing from the loaded set (deleted meanwhile) is a
//     silent no-op;
//  4. dropping onto the current column does nothing, no persist and no
//     notification;
//  5. a vendedor dropping a lead not assigned to them gets a
//     permission notification and no mutation;
//  6. otherwise the status is persisted; success yields the
//     status-specific notification, failure yields an error
//     notification and a reload so the board matches the store again.
func (b *Board) EndDrag(ctx context.Context, leadID uuid.UUID, target *models.LeadStatus, actor models.AppUser) MoveResult {
	b.dragging = uuid.Nil

	if target == nil {
		return MoveResult{}
	}

	lead := b.find(leadID)
	if lead == nil {
		return MoveResult{}
	}
	if lead.Status == *target {
		return MoveResult{}
	}

	if !authz.CanMoveLead(actor, *lead) {
		return MoveResult{Notification: &Notification{
			Level:   LevelError,
			Message: "Você só pode mover seus próprios leads",
		}}
	}

	if err := b.store.UpdateLeadStatus(ctx, leadID, *target); err != nil {
		b.log.Error().Err(err).
			Str("lead_id", leadID.String()).
			Str("status", string(*target)).
			Msg("lead move failed")
		b.resync(ctx)
		return MoveResult{Notification: &Notification{
			Level:   LevelError,
			Message: fmt.Sprintf("Erro ao mover lead: %v", err),
		}}
	}

	lead.Status = *target
	return MoveResult{Moved: true, Notification: moveNotification(*lead, *target)}
}

func moveNotification(lead models.Lead, status models.LeadStatus) *Notification {
	switch status {
	case models.StatusGanho:
		return &Notification{
			Level:   LevelSuccess,
			Message: fmt.Sprintf("Lead %s marcado como ganho!", lead.Nome),
			Detail:  "Valor: " + format.Currency(lead.Valor),
		}
	case models.StatusPerdido:
		return &Notification{
			Level:   LevelError,
			Message: fmt.Sprintf("Lead %s marcado como perdido", lead.Nome),
		}
	default:
		return &Notification{
			Level:   LevelInfo,
			Message: fmt.Sprintf("Lead %s movido para %s", lead.Nome, status),
		}
	}
}

func (b *Board) find(id uuid.UUID) *models.Lead {
	for i := range b.leads {
		if b.leads[i].ID == id {
			return &b.leads[i]
		}
	}
	return nil
}

// resync discards the local view after a failed mutation. If even the
// reload fails the stale view is kept; the next successful Load fixes
// it.
func (b *Board) resync(ctx context.Context) {
	if err := b.Load(ctx); err != nil {
		b.log.Warn().Err(err).Msg("board resync failed")
	}
}
