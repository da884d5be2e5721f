package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/patient-api/internal/model"
	"github.com/medtrack/patient-api/internal/repository"
	"github.com/medtrack/patient-api/pkg/auth"
	apperrors "github.com/medtrack/patient-api/pkg/errors"
	"github.com/medtrack/patient-api/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if _, exists := r.byEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	user.ID = uuid.New()
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	for _, user := range r.byEmail {
		if user.ID == id {
			user.LastLoginAt = &at
			return nil
		}
	}
	return repository.ErrNotFound
}

func newTestService(users *fakeUserRepo) *Service {
	// Min bcrypt cost keeps the tests fast
	return NewService(users, security.NewBcryptHasher(4), auth.NewJWTService("test-secret", time.Hour))
}

func TestSignupAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users)

	user, err := svc.Signup(context.Background(), &model.SignupRequest{
		Email:    "patient@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash, "password must be stored hashed")

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "patient@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, int64(3600), tokens.ExpiresIn)

	stored, err := users.GetByEmail(context.Background(), "patient@example.com")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	req := &model.SignupRequest{Email: "patient@example.com", Password: "s3cretpass"}
	_, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), req)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestSignupShortPassword(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), &model.SignupRequest{
		Email:    "patient@example.com",
		Password: "short",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), &model.SignupRequest{
		Email:    "patient@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "patient@example.com",
		Password: "wrongpass1",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "s3cretpass",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestValidateToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users)

	user, err := svc.Signup(context.Background(), &model.SignupRequest{
		Email:    "patient@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "patient@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "patient@example.com", claims.Email)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.ValidateToken(context.Background(), strings.Repeat("x", 40))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}
