package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/classifieds-backend/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
)

func TestAdHandler_Browse_CoercesQuery(t *testing.T) {
	ads := new(mockAdUseCase)
	h := NewAdHandler(ads, nil)
	r := newTestRouter(nil, "")
	r.GET("/api/ads", h.Browse)

	ads.On("Browse", mock.Anything, (*int)(nil), 1).Return(&dto.BrowseResponse{Ads: []dto.AdView{}, CurrentPage: 1}, nil).Once()
	w := doJSON(r, http.MethodGet, "/api/ads?type=abc&page=xyz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	ads.On("Browse", mock.Anything, mock.MatchedBy(func(v *int) bool { return v != nil && *v == 3 }), 2).
		Return(&dto.BrowseResponse{Ads: []dto.AdView{}, Total: 30, CurrentPage: 2, TotalPages: 2}, nil).Once()
	w = doJSON(r, http.MethodGet, "/api/ads?type=3&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.BrowseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(30), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	ads.AssertExpectations(t)
}

func TestAdHandler_MyAds(t *testing.T) {
	userID := uuid.New()
	ads := new(mockAdUseCase)
	h := NewAdHandler(ads, nil)

	anonymous := newTestRouter(nil, "")
	anonymous.GET("/api/ads/my", h.MyAds)
	assert.Equal(t, http.StatusUnauthorized, doJSON(anonymous, http.MethodGet, "/api/ads/my", nil).Code)

	r := newTestRouter(&userID, models.RoleUser)
	r.GET("/api/ads/my", h.MyAds)
	ads.On("MyAds", mock.Anything, userID, "pending", 1).Return(&dto.MyAdsResponse{
		Ads:         []dto.AdView{},
		TotalCounts: valueobject.StatusCounts{Active: 3, Pending: 2, Expired: 1},
		CurrentPage: 1,
		TotalPages:  1,
	}, nil)

	w := doJSON(r, http.MethodGet, "/api/ads/my?status=pending&page=0x", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalCounts"`)
}

func TestAdHandler_Filter_ParsesLists(t *testing.T) {
	ads := new(mockAdUseCase)
	h := NewAdHandler(ads, nil)
	r := newTestRouter(nil, "")
	r.GET("/api/ads/filter", h.Filter)

	ads.On("Filter", mock.Anything, mock.MatchedBy(func(req dto.AdFilterRequest) bool {
		return len(req.Regions) == 2 && len(req.Tags) == 1 && req.Search == "велосипед" && req.Verified && req.Type == nil
	})).Return([]dto.AdView{}, nil)

	w := doJSON(r, http.MethodGet, "/api/ads/filter?regions=1,2&tags=7&search=%D0%B2%D0%B5%D0%BB%D0%BE%D1%81%D0%B8%D0%BF%D0%B5%D0%B4&verified=true", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	ads.AssertExpectations(t)
}

func TestAdHandler_Get_NotFound(t *testing.T) {
	ads := new(mockAdUseCase)
	h := NewAdHandler(ads, nil)
	r := newTestRouter(nil, "")
	r.GET("/api/ads/:id", h.Get)
	ads.On("Get", mock.Anything, "missing").Return(nil, apperror.ErrAdNotFound)

	w := doJSON(r, http.MethodGet, "/api/ads/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestAdHandler_Create(t *testing.T) {
	userID := uuid.New()
	ads := new(mockAdUseCase)
	h := NewAdHandler(ads, nil)
	r := newTestRouter(&userID, models.RoleUser)
	r.POST("/api/ads", h.Create)

	ads.On("Create", mock.Anything, userID, mock.MatchedBy(func(req dto.CreateAdRequest) bool {
		return req.Title == "Велосипед" && req.DurationDays == 30
	})).Return(&dto.AdView{Ad: models.Ad{ID: "a1"}, Status: valueobject.AdStatusActive}, nil)

	w := doJSON(r, http.MethodPost, "/api/ads", map[string]interface{}{"title": "Велосипед", "durationDays": 30})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"active"`)

	w = doJSON(r, http.MethodPost, "/api/ads", map[string]interface{}{"description": "без заголовка"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdHandler_SetActive_RequiresFlag(t *testing.T) {
	userID := uuid.New()
	ads := new(mockAdUseCase)
	h := NewAdHandler(ads, nil)
	r := newTestRouter(&userID, models.RoleUser)
	r.PUT("/api/ads/:id/active", h.SetActive)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPut, "/api/ads/a1/active", map[string]interface{}{}).Code)

	ads.On("SetActive", mock.Anything, userID, "a1", false).Return(&dto.AdView{}, nil)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodPut, "/api/ads/a1/active", map[string]bool{"active": false}).Code)
}

func TestAdHandler_RenewWithoutBody(t *testing.T) {
	userID := uuid.New()
	ads := new(mockAdUseCase)
	h := NewAdHandler(ads, nil)
	r := newTestRouter(&userID, models.RoleUser)
	r.POST("/api/ads/:id/renew", h.Renew)
	ads.On("Renew", mock.Anything, userID, "a1", 0).Return(&dto.AdView{}, nil)

	w := doJSON(r, http.MethodPost, "/api/ads/a1/renew", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdHandler_Boost(t *testing.T) {
	userID := uuid.New()
	boosts := new(mockBoostUseCase)
	h := NewAdHandler(new(mockAdUseCase), boosts)
	r := newTestRouter(&userID, models.RoleUser)
	r.POST("/api/ads/:id/boost", h.Boost)

	boosts.On("Boost", mock.Anything, userID, "a1", 3).Return(nil, apperror.ErrInsufficientFunds)

	w := doJSON(r, http.MethodPost, "/api/ads/a1/boost", map[string]int{"days": 3})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = doJSON(r, http.MethodPost, "/api/ads/a1/boost", map[string]int{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdHandler_Delete_PassesAdminFlag(t *testing.T) {
	adminID := uuid.New()
	ads := new(mockAdUseCase)
	h := NewAdHandler(ads, nil)
	r := newTestRouter(&adminID, models.RoleAdmin)
	r.DELETE("/api/ads/:id", h.Delete)
	ads.On("Delete", mock.Anything, adminID, true, "a1").Return(nil)

	w := doJSON(r, http.MethodDelete, "/api/ads/a1", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	ads.AssertExpectations(t)
}
