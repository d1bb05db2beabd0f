package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/http/middleware"
	"github.com/ignatzorin/classifieds-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter собирает gin с ErrorHandler и, если userID не nil, подставляет пользователя.
func newTestRouter(userID *uuid.UUID, role string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	if userID != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserIDKey, *userID)
			c.Set(middleware.ContextRoleKey, role)
			c.Next()
		})
	}
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type mockAdUseCase struct {
	mock.Mock
}

func (m *mockAdUseCase) Browse(ctx context.Context, adType *int, page int) (*dto.BrowseResponse, error) {
	args := m.Called(ctx, adType, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BrowseResponse), args.Error(1)
}

func (m *mockAdUseCase) MyAds(ctx context.Context, owner uuid.UUID, status string, page int) (*dto.MyAdsResponse, error) {
	args := m.Called(ctx, owner, status, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MyAdsResponse), args.Error(1)
}

func (m *mockAdUseCase) Filter(ctx context.Context, req dto.AdFilterRequest) ([]dto.AdView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.AdView), args.Error(1)
}

func (m *mockAdUseCase) Create(ctx context.Context, owner uuid.UUID, req dto.CreateAdRequest) (*dto.AdView, error) {
	args := m.Called(ctx, owner, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AdView), args.Error(1)
}

func (m *mockAdUseCase) Get(ctx context.Context, id string) (*dto.AdView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AdView), args.Error(1)
}

func (m *mockAdUseCase) Update(ctx context.Context, owner uuid.UUID, id string, req dto.UpdateAdRequest) (*dto.AdView, error) {
	args := m.Called(ctx, owner, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AdView), args.Error(1)
}

func (m *mockAdUseCase) SetActive(ctx context.Context, owner uuid.UUID, id string, active bool) (*dto.AdView, error) {
	args := m.Called(ctx, owner, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AdView), args.Error(1)
}

func (m *mockAdUseCase) Renew(ctx context.Context, owner uuid.UUID, id string, days int) (*dto.AdView, error) {
	args := m.Called(ctx, owner, id, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AdView), args.Error(1)
}

func (m *mockAdUseCase) Delete(ctx context.Context, requester uuid.UUID, isAdmin bool, id string) error {
	return m.Called(ctx, requester, isAdmin, id).Error(0)
}

type mockBoostUseCase struct {
	mock.Mock
}

func (m *mockBoostUseCase) Boost(ctx context.Context, owner uuid.UUID, id string, days int) (*dto.BoostResponse, error) {
	args := m.Called(ctx, owner, id, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BoostResponse), args.Error(1)
}

type mockModerationUseCase struct {
	mock.Mock
}

func (m *mockModerationUseCase) ListPending(ctx context.Context, page int) (*dto.BrowseResponse, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BrowseResponse), args.Error(1)
}

func (m *mockModerationUseCase) Approve(ctx context.Context, id string, req dto.ApproveAdRequest) (*dto.AdView, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AdView), args.Error(1)
}

func (m *mockModerationUseCase) Reject(ctx context.Context, id, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

type mockReviewUseCase struct {
	mock.Mock
}

func (m *mockReviewUseCase) Create(ctx context.Context, authorID uuid.UUID, adID string, req dto.CreateReviewRequest) (*models.Review, error) {
	args := m.Called(ctx, authorID, adID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewUseCase) ListApproved(ctx context.Context, adID string, limit, offset int) ([]models.Review, error) {
	args := m.Called(ctx, adID, limit, offset)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *mockReviewUseCase) Approve(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *mockReviewUseCase) Reject(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
