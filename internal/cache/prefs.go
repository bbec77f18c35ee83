package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// UIState is the per-user interface state the front end reads on load:
// dashboard period filter, lead search text and display toggles. It is
// an injected store with read/patch operations, not ambient state.
type UIState struct {
	Periodo     string `json:"periodo"`
	TabelaDensa bool   `json:"tabela_densa"`
	Animacoes   bool   `json:"animacoes"`
	BuscaLeads  string `json:"busca_leads"`
}

// UIStatePatch carries only the fields the caller wants to change.
type UIStatePatch struct {
	Periodo     *string `json:"periodo,omitempty"`
	TabelaDensa *bool   `json:"tabela_densa,omitempty"`
	Animacoes   *bool   `json:"animacoes,omitempty"`
	BuscaLeads  *string `json:"busca_leads,omitempty"`
}

func DefaultUIState() UIState {
	return UIState{Periodo: "7d", Animacoes: true}
}

type PrefsStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPrefsStore(rdb *redis.Client) *PrefsStore {
	return &PrefsStore{rdb: rdb, ttl: 30 * 24 * time.Hour}
}

func prefsKey(userID uuid.UUID) string {
	return "prefs:" + userID.String()
}

// Get returns the stored state, or the defaults when nothing is stored
// or the store is unreachable.
func (s *PrefsStore) Get(ctx context.Context, userID uuid.UUID) UIState {
	str, err := s.rdb.Get(ctx, prefsKey(userID)).Result()
	if err != nil {
		return DefaultUIState()
	}
	state := DefaultUIState()
	if err := json.Unmarshal([]byte(str), &state); err != nil {
		return DefaultUIState()
	}
	return state
}

// Patch merges the given fields into the stored state and returns the
// result.
func (s *PrefsStore) Patch(ctx context.Context, userID uuid.UUID, patch UIStatePatch) (UIState, error) {
	state := s.Get(ctx, userID)
	if patch.Periodo != nil {
		switch *patch.Periodo {
		case "hoje", "7d", "30d", "total":
		default:
			return state, errors.New("invalid periodo: " + *patch.Periodo)
		}
		state.Periodo = *patch.Periodo
	}
	if patch.TabelaDensa != nil {
		state.TabelaDensa = *patch.TabelaDensa
	}
	if patch.Animacoes != nil {
		state.Animacoes = *patch.Animacoes
	}
	if patch.BuscaLeads != nil {
		state.BuscaLeads = *patch.BuscaLeads
	}

	b, err := json.Marshal(state)
	if err != nil {
		return state, err
	}
	if err := s.rdb.Set(ctx, prefsKey(userID), b, s.ttl).Err(); err != nil {
		return state, err
	}
	return state, nil
}
