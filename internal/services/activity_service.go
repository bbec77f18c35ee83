package services

import (
	"context"

	"github.com/google/uuid"

	"zapcrm/internal/models"
	"zapcrm/internal/repositories"
)

type ActivityService struct {
	repo  *repositories.ActivityRepository
	leads *LeadService
}

func NewActivityService(repo *repositories.ActivityRepository, leads *LeadService) *ActivityService {
	return &ActivityService{repo: repo, leads: leads}
}

// Record logs an interaction on a lead's timeline.
func (s *ActivityService) Record(ctx context.Context, a *models.Activity) error {
	if err := a.Validate(); err != nil {
		return err
	}
	// the lead must exist; a dangling activity is useless
	if _, err := s.leads.GetByID(ctx, a.LeadID); err != nil {
		return err
	}
	return s.repo.Create(ctx, a)
}

func (s *ActivityService) ListByLead(ctx context.Context, leadID uuid.UUID) ([]models.Activity, error) {
	return s.repo.ListByLead(ctx, leadID)
}
