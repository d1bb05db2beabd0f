package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/http/handlers/common"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
)

const (
	signatureHeader = "X-Signature"
	maxWebhookBody  = 64 << 10
)

// PaymentHandler: баланс пользователя и вебхук платёжного провайдера.
type PaymentHandler struct {
	payments PaymentUseCase
}

func NewPaymentHandler(payments PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Balance обрабатывает GET /api/payments/balance.
func (h *PaymentHandler) Balance(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	balance, err := h.payments.GetBalance(c.Request.Context(), userID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// Transactions обрабатывает GET /api/payments/transactions?limit=&offset=.
func (h *PaymentHandler) Transactions(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	limit, offset := common.GetPagination(c)
	transactions, err := h.payments.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// Webhook обрабатывает POST /api/payments/webhook.
// Подпись X-Signature считается по сырому телу, поэтому тело читается до разбора JSON.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "не удалось прочитать тело запроса")
		return
	}

	if !h.payments.VerifySignature(body, c.GetHeader(signatureHeader)) {
		logger.Log.WithField("ip", c.ClientIP()).Warn("Вебхук с неверной подписью")
		common.RespondError(c, http.StatusUnauthorized, "неверная подпись")
		return
	}

	var event dto.PaymentWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		common.Fail(c, apperror.Wrap(err, apperror.ErrCodeValidation, "некорректное тело события"))
		return
	}
	if err := binding.Validator.ValidateStruct(&event); err != nil {
		common.Fail(c, apperror.Wrap(err, apperror.ErrCodeValidation, "некорректное тело события"))
		return
	}

	applied, err := h.payments.HandleWebhook(c.Request.Context(), event)
	if err != nil {
		common.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied})
}
