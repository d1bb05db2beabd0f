package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/http/handlers/common"
)

// ModerationHandler: очередь модерации для администраторов.
type ModerationHandler struct {
	moderation ModerationUseCase
}

func NewModerationHandler(moderation ModerationUseCase) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

// ListPending обрабатывает GET /api/admin/ads/pending?page=.
func (h *ModerationHandler) ListPending(c *gin.Context) {
	resp, err := h.moderation.ListPending(c.Request.Context(), common.ParseIntQuery(c, "page", 1))
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Approve обрабатывает PUT /api/admin/ads/:id/approve.
func (h *ModerationHandler) Approve(c *gin.Context) {
	var req dto.ApproveAdRequest
	if c.Request.ContentLength > 0 && !common.BindJSON(c, &req) {
		return
	}

	ad, err := h.moderation.Approve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

// Reject обрабатывает PUT /api/admin/ads/:id/reject.
func (h *ModerationHandler) Reject(c *gin.Context) {
	var req dto.RejectAdRequest
	if c.Request.ContentLength > 0 && !common.BindJSON(c, &req) {
		return
	}

	if err := h.moderation.Reject(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
