package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/repository"
	"github.com/ignatzorin/classifieds-backend/internal/service"
)

// memoryLedger: PaymentRepository в памяти с идемпотентностью по reference.
type memoryLedger struct {
	balances map[uuid.UUID]float64
	seen     map[string]bool
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{balances: map[uuid.UUID]float64{}, seen: map[string]bool{}}
}

func (m *memoryLedger) GetBalance(_ context.Context, userID uuid.UUID) (*models.UserBalance, error) {
	return &models.UserBalance{UserID: userID, Available: m.balances[userID]}, nil
}

func (m *memoryLedger) apply(entry models.LedgerEntry, delta float64) (*models.Transaction, error) {
	key := *entry.Provider + "/" + *entry.Reference + "/" + entry.Type
	if m.seen[key] {
		return nil, repository.ErrDuplicateEvent
	}
	if m.balances[entry.UserID]+delta < 0 {
		return nil, repository.ErrInsufficientFunds
	}
	m.seen[key] = true
	m.balances[entry.UserID] += delta
	return &models.Transaction{ID: uuid.New(), UserID: entry.UserID, Amount: entry.Amount, Type: entry.Type}, nil
}

func (m *memoryLedger) Credit(_ context.Context, entry models.LedgerEntry) (*models.Transaction, error) {
	return m.apply(entry, entry.Amount)
}

func (m *memoryLedger) Debit(_ context.Context, entry models.LedgerEntry) (*models.Transaction, error) {
	return m.apply(entry, -entry.Amount)
}

func (m *memoryLedger) ListTransactions(context.Context, uuid.UUID, int, int) ([]models.Transaction, error) {
	return []models.Transaction{}, nil
}

func postWebhook(r http.Handler, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", signature)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPaymentHandler_Webhook(t *testing.T) {
	ledger := newMemoryLedger()
	payments := service.NewPaymentService(ledger, "webhook-secret")
	h := NewPaymentHandler(payments)
	r := newTestRouter(nil, "")
	r.POST("/api/payments/webhook", h.Webhook)

	userID := uuid.New()
	body := []byte(`{"provider":"yookassa","event_id":"evt-1","user_id":"` + userID.String() + `","type":"deposit","amount":150}`)

	w := postWebhook(r, body, "00ff")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, ledger.balances[userID])

	w = postWebhook(r, body, payments.Sign(body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"applied":true}`, w.Body.String())
	assert.Equal(t, 150.0, ledger.balances[userID])

	// повторная доставка не меняет баланс
	w = postWebhook(r, body, payments.Sign(body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"applied":false}`, w.Body.String())
	assert.Equal(t, 150.0, ledger.balances[userID])

	invalid := []byte(`{"provider":"yookassa","user_id":"` + userID.String() + `","type":"deposit","amount":1}`)
	assert.Equal(t, http.StatusBadRequest, postWebhook(r, invalid, payments.Sign(invalid)).Code)

	charge := []byte(`{"provider":"yookassa","event_id":"evt-2","user_id":"` + userID.String() + `","type":"charge","amount":500}`)
	assert.Equal(t, http.StatusPaymentRequired, postWebhook(r, charge, payments.Sign(charge)).Code)
}

func TestPaymentHandler_Balance(t *testing.T) {
	userID := uuid.New()
	ledger := newMemoryLedger()
	ledger.balances[userID] = 42
	h := NewPaymentHandler(service.NewPaymentService(ledger, "s"))

	r := newTestRouter(&userID, models.RoleUser)
	r.GET("/api/payments/balance", h.Balance)
	r.GET("/api/payments/transactions", h.Transactions)

	w := doJSON(r, http.MethodGet, "/api/payments/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available":42`)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/api/payments/transactions", nil).Code)

	anonymous := newTestRouter(nil, "")
	anonymous.GET("/api/payments/balance", h.Balance)
	assert.Equal(t, http.StatusUnauthorized, doJSON(anonymous, http.MethodGet, "/api/payments/balance", nil).Code)
}
