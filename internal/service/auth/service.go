package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medtrack/patient-api/internal/model"
	"github.com/medtrack/patient-api/internal/repository"
	"github.com/medtrack/patient-api/pkg/auth"
	apperrors "github.com/medtrack/patient-api/pkg/errors"
	"github.com/medtrack/patient-api/pkg/security"
)

type Service struct {
	users  repository.UserRepository
	hasher security.PasswordHasher
	jwtSvc auth.JWTService
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher, jwtSvc auth.JWTService) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		jwtSvc: jwtSvc,
	}
}

// Signup creates a patient account. The users table is the only credential
// store.
func (s *Service) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordLength) {
			return nil, apperrors.NewBadRequest("password too short", err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewBadRequest("user already exists", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(errors.New("invalid credentials"))
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to update login timestamp: %w", err)
	}

	token, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtSvc.Expiry().Seconds()),
	}, nil
}

// ValidateToken verifies an access token and returns its claims.
func (s *Service) ValidateToken(ctx context.Context, token string) (*auth.TokenClaims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return claims, nil
}
