package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
	"github.com/ignatzorin/classifieds-backend/internal/validation"
)

// UserRepository описывает зависимости AuthService от слоя хранилища.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
}

// AuthService инкапсулирует регистрацию и аутентификацию.
type AuthService struct {
	repo         UserRepository
	tokenManager *TokenManager
}

// AuthResult возвращает итог регистрации или входа.
type AuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

func NewAuthService(repo UserRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{repo: repo, tokenManager: tokenManager}
}

// Register создаёт пользователя с ролью user. Администраторов заводит adsctl.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*AuthResult, error) {
	user, err := s.CreateUser(ctx, req.Email, req.Username, req.Password, models.RoleUser)
	if err != nil {
		return nil, err
	}

	pair, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}
	return &AuthResult{User: user, TokenPair: pair}, nil
}

// CreateUser проверяет учётные данные, хеширует пароль и сохраняет пользователя с заданной ролью.
// Пустое имя пользователя выводится из email.
func (s *AuthService) CreateUser(ctx context.Context, email, username, password, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, validationError(err)
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = deriveUsername(email)
	} else if err := validation.ValidateUsername(username); err != nil {
		return nil, validationError(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storeError("auth service: create user", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("Пользователь зарегистрирован")
	return user, nil
}

// Login проверяет учётные данные и возвращает токены.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, apperror.ErrUserNotFound) {
		return nil, apperror.ErrInvalidCredentials
	}
	if err != nil {
		return nil, storeError("auth service: login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "аккаунт заблокирован")
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Warn("Не удалось обновить last_login_at")
	}

	pair, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}
	return &AuthResult{User: user, TokenPair: pair}, nil
}

// Refresh выпускает новую пару токенов по refresh токену.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.tokenManager.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "refresh токен невалиден")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, apperror.ErrUserNotFound) {
		return nil, apperror.ErrUnauthorized
	}
	if err != nil {
		return nil, storeError("auth service: refresh", err)
	}
	if !user.IsActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "аккаунт заблокирован")
	}

	pair, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}
	return pair, nil
}

// Profile возвращает текущего пользователя.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError("auth service: profile", err)
	}
	return user, nil
}

// deriveUsername формирует username из email.
func deriveUsername(email string) string {
	name := strings.Split(email, "@")[0]
	name = strings.NewReplacer(".", "_", "+", "_", "-", "_").Replace(name)
	name = strings.ToLower(name)
	if len(name) < 3 {
		name = "user_" + uuid.NewString()[:6]
	}
	return name
}
