package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"zapcrm/internal/models"
	"zapcrm/internal/repositories"
	"zapcrm/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService struct {
	users      *repositories.UserRepository
	resets     *repositories.PasswordResetRepository
	email      EmailService
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        zerolog.Logger
}

func NewAuthService(
	users *repositories.UserRepository,
	resets *repositories.PasswordResetRepository,
	email EmailService,
	jwtSecret string,
	accessTTL, refreshTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		resets:     resets,
		email:      email,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

func (s *AuthService) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Login verifies the credentials and mints an access/refresh pair. The
// refresh token is opaque, stored on the user row with its expiry.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *models.AppUser, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !s.CheckPassword(user.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh trades a stored, unexpired refresh token for a new pair.
// Each refresh rotates the stored token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, *models.AppUser, error) {
	user, err := s.users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if user.RefreshExpiresAt == nil || user.RefreshExpiresAt.Before(time.Now()) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.AppUser) (*TokenPair, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"papel":   string(user.Papel),
		"iat":     now.Unix(),
		"exp":     now.Add(s.accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := utils.NewOpaqueToken(32)
	if err != nil {
		return nil, err
	}
	if err := s.users.SaveRefreshToken(ctx, user.ID, refresh, now.Add(s.refreshTTL)); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ForgotPassword mails a one-shot reset token. Unknown addresses are
// treated as success so the endpoint does not reveal which emails have
// accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, err := utils.NewOpaqueToken(32)
	if err != nil {
		return err
	}
	if err := s.resets.Create(ctx, user.ID, token, time.Now().Add(time.Hour)); err != nil {
		return err
	}

	if s.email != nil {
		if err := s.email.SendPasswordResetEmail(user.Email, token); err != nil {
			s.log.Warn().Err(err).Str("email", user.Email).Msg("failed to send reset email")
		}
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must have at least 6 characters")
	}
	userID, err := s.resets.Consume(ctx, token)
	if err != nil {
		return err
	}
	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}
