package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/http/handlers/common"
)

// AdHandler обслуживает каталог и объявления владельца.
type AdHandler struct {
	ads    AdUseCase
	boosts BoostUseCase
}

func NewAdHandler(ads AdUseCase, boosts BoostUseCase) *AdHandler {
	return &AdHandler{ads: ads, boosts: boosts}
}

// Browse обрабатывает GET /api/ads?type=&page=.
// Нечисловые type и page не отклоняются: type игнорируется, page становится 1.
func (h *AdHandler) Browse(c *gin.Context) {
	resp, err := h.ads.Browse(c.Request.Context(), common.ParseOptionalIntQuery(c, "type"), common.ParseIntQuery(c, "page", 1))
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Filter обрабатывает GET /api/ads/filter.
func (h *AdHandler) Filter(c *gin.Context) {
	req := dto.AdFilterRequest{
		Type:     common.ParseOptionalIntQuery(c, "type"),
		Regions:  common.ParseIDListQuery(c, "regions"),
		Tags:     common.ParseIDListQuery(c, "tags"),
		Offers:   common.ParseIDListQuery(c, "offers"),
		Search:   c.Query("search"),
		Verified: common.ParseBoolQuery(c, "verified"),
		Page:     common.ParseIntQuery(c, "page", 0),
	}

	ads, err := h.ads.Filter(c.Request.Context(), req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ads": ads})
}

// MyAds обрабатывает GET /api/ads/my?status=&page=.
func (h *AdHandler) MyAds(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	resp, err := h.ads.MyAds(c.Request.Context(), userID, c.Query("status"), common.ParseIntQuery(c, "page", 1))
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get обрабатывает GET /api/ads/:id.
func (h *AdHandler) Get(c *gin.Context) {
	ad, err := h.ads.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

// Create обрабатывает POST /api/ads.
func (h *AdHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.CreateAdRequest
	if !common.BindJSON(c, &req) {
		return
	}

	ad, err := h.ads.Create(c.Request.Context(), userID, req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, ad)
}

// Update обрабатывает PUT /api/ads/:id.
func (h *AdHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.UpdateAdRequest
	if !common.BindJSON(c, &req) {
		return
	}

	ad, err := h.ads.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

// SetActive обрабатывает PUT /api/ads/:id/active.
func (h *AdHandler) SetActive(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.SetActiveRequest
	if !common.BindJSON(c, &req) {
		return
	}

	ad, err := h.ads.SetActive(c.Request.Context(), userID, c.Param("id"), *req.Active)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

// Renew обрабатывает POST /api/ads/:id/renew. Тело необязательно.
func (h *AdHandler) Renew(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.RenewAdRequest
	if c.Request.ContentLength > 0 && !common.BindJSON(c, &req) {
		return
	}

	ad, err := h.ads.Renew(c.Request.Context(), userID, c.Param("id"), req.Days)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

// Boost обрабатывает POST /api/ads/:id/boost.
func (h *AdHandler) Boost(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.BoostAdRequest
	if !common.BindJSON(c, &req) {
		return
	}

	resp, err := h.boosts.Boost(c.Request.Context(), userID, c.Param("id"), req.Days)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete обрабатывает DELETE /api/ads/:id. Администратор может удалить любое объявление.
func (h *AdHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	if err := h.ads.Delete(c.Request.Context(), userID, common.IsAdmin(c), c.Param("id")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
