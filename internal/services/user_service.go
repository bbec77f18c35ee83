package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zapcrm/internal/models"
	"zapcrm/internal/repositories"
)

// UserService implements the admin surface: account creation with an
// invite email, role changes (including approving "nenhum" accounts)
// and deletion.
type UserService struct {
	repo  *repositories.UserRepository
	auth  *AuthService
	email EmailService
	log   zerolog.Logger
}

func NewUserService(repo *repositories.UserRepository, auth *AuthService, email EmailService, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, auth: auth, email: email, log: log}
}

type CreateUserInput struct {
	Nome     string      `json:"nome"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Papel    models.Role `json:"papel"`
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.AppUser, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Nome == "" || in.Email == "" || in.Password == "" || in.Papel == "" {
		return nil, errors.New("campos obrigatórios ausentes: email, password, nome, papel")
	}
	if !in.Papel.Valid() {
		return nil, errors.New("invalid papel: " + string(in.Papel))
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.AppUser{
		ID:           uuid.New(),
		Nome:         in.Nome,
		Email:        in.Email,
		Papel:        in.Papel,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.email != nil {
		// warn but do not fail creation
		if err := s.email.SendInviteEmail(user.Email, user.Nome, in.Password); err != nil {
			s.log.Warn().Err(err).Str("email", user.Email).Msg("failed to send invite email")
		}
	}
	return user, nil
}

type UpdateUserInput struct {
	Nome  string      `json:"nome"`
	Email string      `json:"email"`
	Papel models.Role `json:"papel"`
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*models.AppUser, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Nome != "" {
		user.Nome = in.Nome
	}
	if in.Email != "" {
		user.Email = strings.TrimSpace(strings.ToLower(in.Email))
	}
	if in.Papel != "" {
		if !in.Papel.Valid() {
			return nil, errors.New("invalid papel: " + string(in.Papel))
		}
		user.Papel = in.Papel
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.AppUser, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.AppUser, error) {
	return s.repo.List(ctx)
}

// ListTeam returns users that can own leads (admin and vendedor), for
// the assignment dropdowns.
func (s *UserService) ListTeam(ctx context.Context) ([]models.AppUser, error) {
	return s.repo.ListTeam(ctx)
}
