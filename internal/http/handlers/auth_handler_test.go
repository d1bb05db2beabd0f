package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
	"github.com/ignatzorin/classifieds-backend/internal/service"
)

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) Register(ctx context.Context, req dto.RegisterRequest) (*service.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *mockAuthUseCase) Login(ctx context.Context, req dto.LoginRequest) (*service.AuthResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *mockAuthUseCase) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *mockAuthUseCase) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestAuthHandler_Register(t *testing.T) {
	auth := new(mockAuthUseCase)
	h := NewAuthHandler(auth)
	r := newTestRouter(nil, "")
	r.POST("/api/auth/register", h.Register)

	req := dto.RegisterRequest{Email: "a@example.com", Password: "Secret123"}
	auth.On("Register", mock.Anything, req).Return(&service.AuthResult{
		User:      &models.User{ID: uuid.New(), Email: "a@example.com", PasswordHash: "hash"},
		TokenPair: &service.TokenPair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900},
	}, nil)

	w := doJSON(r, http.MethodPost, "/api/auth/register", req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"access"`)
	assert.NotContains(t, w.Body.String(), "hash")

	w = doJSON(r, http.MethodPost, "/api/auth/register", map[string]string{"email": "a@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LoginFailure(t *testing.T) {
	auth := new(mockAuthUseCase)
	h := NewAuthHandler(auth)
	r := newTestRouter(nil, "")
	r.POST("/api/auth/login", h.Login)
	auth.On("Login", mock.Anything, mock.Anything).Return(nil, apperror.ErrInvalidCredentials)

	w := doJSON(r, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: "a@example.com", Password: "nope"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Profile(t *testing.T) {
	userID := uuid.New()
	auth := new(mockAuthUseCase)
	h := NewAuthHandler(auth)
	r := newTestRouter(&userID, models.RoleUser)
	r.GET("/api/profile", h.Profile)
	auth.On("Profile", mock.Anything, userID).Return(&models.User{ID: userID, Email: "me@example.com"}, nil)

	w := doJSON(r, http.MethodGet, "/api/profile", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "me@example.com")
}
