package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/service"
)

// Интерфейсы сервисов, которые нужны хэндлерам. Реализуются пакетом service.

type AdUseCase interface {
	Browse(ctx context.Context, adType *int, page int) (*dto.BrowseResponse, error)
	MyAds(ctx context.Context, owner uuid.UUID, status string, page int) (*dto.MyAdsResponse, error)
	Filter(ctx context.Context, req dto.AdFilterRequest) ([]dto.AdView, error)
	Create(ctx context.Context, owner uuid.UUID, req dto.CreateAdRequest) (*dto.AdView, error)
	Get(ctx context.Context, id string) (*dto.AdView, error)
	Update(ctx context.Context, owner uuid.UUID, id string, req dto.UpdateAdRequest) (*dto.AdView, error)
	SetActive(ctx context.Context, owner uuid.UUID, id string, active bool) (*dto.AdView, error)
	Renew(ctx context.Context, owner uuid.UUID, id string, days int) (*dto.AdView, error)
	Delete(ctx context.Context, requester uuid.UUID, isAdmin bool, id string) error
}

type BoostUseCase interface {
	Boost(ctx context.Context, owner uuid.UUID, id string, days int) (*dto.BoostResponse, error)
}

type ModerationUseCase interface {
	ListPending(ctx context.Context, page int) (*dto.BrowseResponse, error)
	Approve(ctx context.Context, id string, req dto.ApproveAdRequest) (*dto.AdView, error)
	Reject(ctx context.Context, id, reason string) error
}

type ReviewUseCase interface {
	Create(ctx context.Context, authorID uuid.UUID, adID string, req dto.CreateReviewRequest) (*models.Review, error)
	ListApproved(ctx context.Context, adID string, limit, offset int) ([]models.Review, error)
	Approve(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Reject(ctx context.Context, id uuid.UUID) error
}

type PaymentUseCase interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*models.UserBalance, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error)
	VerifySignature(body []byte, signature string) bool
	HandleWebhook(ctx context.Context, event dto.PaymentWebhookEvent) (bool, error)
}

type AuthUseCase interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*service.AuthResult, error)
	Login(ctx context.Context, req dto.LoginRequest) (*service.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

var (
	_ AdUseCase         = (*service.AdService)(nil)
	_ BoostUseCase      = (*service.BoostService)(nil)
	_ ModerationUseCase = (*service.ModerationService)(nil)
	_ ReviewUseCase     = (*service.ReviewService)(nil)
	_ PaymentUseCase    = (*service.PaymentService)(nil)
	_ AuthUseCase       = (*service.AuthService)(nil)
)
