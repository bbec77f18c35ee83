package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zapcrm/internal/models"
)

// Manager keeps one board per authenticated user. Boards are created
// lazily and guarded individually, so two users dragging at the same
// time never contend, while each user still has a single drag session.
type Manager struct {
	store Store
	log   zerolog.Logger

	mu     sync.Mutex
	boards map[uuid.UUID]*boardEntry
}

type boardEntry struct {
	mu    sync.Mutex
	board *Board
}

func NewManager(store Store, log zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		log:    log,
		boards: make(map[uuid.UUID]*boardEntry),
	}
}

func (m *Manager) entry(userID uuid.UUID) *boardEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.boards[userID]
	if !ok {
		board := NewBoard(m.store, m.log)
		board.OnDragStart(func(leadID uuid.UUID) {
			m.log.Debug().
				Str("user_id", userID.String()).
				Str("lead_id", leadID.String()).
				Msg("drag started")
		})
		e = &boardEntry{board: board}
		m.boards[userID] = e
	}
	return e
}

// Columns loads the user's board and returns the grouped columns.
func (m *Manager) Columns(ctx context.Context, userID uuid.UUID) ([]Column, error) {
	e := m.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.board.Load(ctx); err != nil {
		return nil, err
	}
	return e.board.Columns(), nil
}

// Select marks a lead as open in the user's detail view.
func (m *Manager) Select(userID, leadID uuid.UUID) {
	e := m.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.board.Select(leadID)
}

// BeginDrag starts a drag for the user, loading the board first if it
// was never fetched in this session.
func (m *Manager) BeginDrag(ctx context.Context, userID, leadID uuid.UUID) error {
	e := m.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.board.leads) == 0 {
		if err := e.board.Load(ctx); err != nil {
			return err
		}
	}
	return e.board.BeginDrag(leadID)
}

// EndDrag finishes the user's drag session.
func (m *Manager) EndDrag(ctx context.Context, actor models.AppUser, leadID uuid.UUID, target *models.LeadStatus) MoveResult {
	e := m.entry(actor.ID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.EndDrag(ctx, leadID, target, actor)
}
