package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zapcrm/internal/cache"
	"zapcrm/internal/models"
	"zapcrm/internal/repositories"
)

// LeadService fronts the lead repository with the read-through redis
// cache. Every mutation invalidates the cached list, including failed
// status moves, so a board refetch never trusts a speculative state.
type LeadService struct {
	repo  *repositories.LeadRepository
	cache *cache.LeadCache
	log   zerolog.Logger
}

func NewLeadService(repo *repositories.LeadRepository, leadCache *cache.LeadCache, log zerolog.Logger) *LeadService {
	return &LeadService{repo: repo, cache: leadCache, log: log}
}

// ListLeads returns all leads newest first, serving from cache when
// warm.
func (s *LeadService) ListLeads(ctx context.Context) ([]models.Lead, error) {
	if leads, ok := s.cache.Get(ctx); ok {
		return leads, nil
	}
	leads, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, leads)
	return leads, nil
}

func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	return s.repo.GetByID(ctx, id)
}

// FindByPhone resolves a lead by normalized phone number; (nil, nil)
// when there is none.
func (s *LeadService) FindByPhone(ctx context.Context, telefone string) (*models.Lead, error) {
	return s.repo.FindByPhone(ctx, telefone)
}

func (s *LeadService) Create(ctx context.Context, lead *models.Lead) error {
	if lead.ID == uuid.Nil {
		lead.ID = uuid.New()
	}
	if lead.Status == "" {
		lead.Status = models.StatusNovo
	}
	if lead.Origem == "" {
		lead.Origem = models.OriginOutros
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	if err := lead.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *LeadService) Update(ctx context.Context, lead *models.Lead) error {
	if err := lead.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, lead); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *LeadService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// UpdateLeadStatus persists a pipeline transition. The cache is
// invalidated on both outcomes: on success so the next board load sees
// the new column, on failure so it discards any speculative view.
func (s *LeadService) UpdateLeadStatus(ctx context.Context, id uuid.UUID, status models.LeadStatus) error {
	defer s.cache.Invalidate(ctx)
	if !status.Valid() {
		return models.ErrInvalidLead
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *LeadService) Assign(ctx context.Context, id uuid.UUID, responsavelID *uuid.UUID) error {
	if err := s.repo.UpdateOwner(ctx, id, responsavelID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// BulkInsert writes an import batch and drops the cached list.
func (s *LeadService) BulkInsert(ctx context.Context, leads []models.Lead) error {
	if err := s.repo.BulkInsert(ctx, leads); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	s.log.Info().Int("count", len(leads)).Msg("leads imported")
	return nil
}
