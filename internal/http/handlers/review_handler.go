package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/http/handlers/common"
)

// ReviewHandler управляет отзывами на объявления.
type ReviewHandler struct {
	reviews ReviewUseCase
}

func NewReviewHandler(reviews ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List обрабатывает GET /api/ads/:id/reviews.
func (h *ReviewHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	reviews, err := h.reviews.ListApproved(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// Create обрабатывает POST /api/ads/:id/reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.CreateReviewRequest
	if !common.BindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// Approve обрабатывает PUT /api/admin/reviews/:id/approve.
func (h *ReviewHandler) Approve(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviews.Approve(c.Request.Context(), id)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// Reject обрабатывает DELETE /api/admin/reviews/:id.
func (h *ReviewHandler) Reject(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.reviews.Reject(c.Request.Context(), id); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
