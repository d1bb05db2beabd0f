package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
	"github.com/ignatzorin/classifieds-backend/internal/repository"
)

func TestPaymentService_Signature(t *testing.T) {
	svc := NewPaymentService(new(mockLedger), "secret")
	body := []byte(`{"event_id":"e1"}`)

	sig := svc.Sign(body)

	assert.True(t, svc.VerifySignature(body, sig))
	assert.False(t, svc.VerifySignature(body, "deadbeef"))
	assert.False(t, svc.VerifySignature(body, "not-hex"))
	assert.False(t, svc.VerifySignature([]byte(`{"event_id":"e2"}`), sig))
	assert.False(t, NewPaymentService(new(mockLedger), "").VerifySignature(body, sig))
}

func TestPaymentService_HandleWebhook_Deposit(t *testing.T) {
	repo := new(mockLedger)
	svc := NewPaymentService(repo, "secret")
	userID := uuid.New()

	repo.On("Credit", mock.Anything, mock.MatchedBy(func(e models.LedgerEntry) bool {
		return e.UserID == userID && e.Amount == 100 && e.Type == models.TransactionTypeDeposit &&
			*e.Provider == "yookassa" && *e.Reference == "evt-1"
	})).Return(&models.Transaction{}, nil).Once()

	applied, err := svc.HandleWebhook(context.Background(), dto.PaymentWebhookEvent{
		Provider: "yookassa", EventID: "evt-1", UserID: userID, Type: WebhookTypeDeposit, Amount: 100,
	})

	require.NoError(t, err)
	assert.True(t, applied)
	repo.AssertExpectations(t)
}

func TestPaymentService_HandleWebhook_DuplicateIsNoop(t *testing.T) {
	repo := new(mockLedger)
	svc := NewPaymentService(repo, "secret")
	repo.On("Credit", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicateEvent)

	applied, err := svc.HandleWebhook(context.Background(), dto.PaymentWebhookEvent{
		Provider: "p", EventID: "evt-1", UserID: uuid.New(), Type: WebhookTypeDeposit, Amount: 5,
	})

	require.NoError(t, err)
	assert.False(t, applied)
}

func TestPaymentService_HandleWebhook_Charge(t *testing.T) {
	repo := new(mockLedger)
	svc := NewPaymentService(repo, "secret")
	repo.On("Debit", mock.Anything, mock.MatchedBy(func(e models.LedgerEntry) bool {
		return e.Type == models.TransactionTypeCharge
	})).Return(nil, repository.ErrInsufficientFunds)

	_, err := svc.HandleWebhook(context.Background(), dto.PaymentWebhookEvent{
		Provider: "p", EventID: "evt-2", UserID: uuid.New(), Type: WebhookTypeCharge, Amount: 5,
	})

	assert.ErrorIs(t, err, apperror.ErrInsufficientFunds)
}

func TestPaymentService_HandleWebhook_Validation(t *testing.T) {
	svc := NewPaymentService(new(mockLedger), "secret")
	base := dto.PaymentWebhookEvent{Provider: "p", EventID: "e", UserID: uuid.New(), Type: WebhookTypeDeposit, Amount: 1}

	bad := base
	bad.Amount = -1
	_, err := svc.HandleWebhook(context.Background(), bad)
	assert.True(t, apperror.IsValidation(err))

	bad = base
	bad.Type = "refund"
	_, err = svc.HandleWebhook(context.Background(), bad)
	assert.True(t, apperror.IsValidation(err))

	bad = base
	bad.EventID = " "
	_, err = svc.HandleWebhook(context.Background(), bad)
	assert.True(t, apperror.IsValidation(err))
}

func TestPaymentService_ListTransactions_ClampsLimit(t *testing.T) {
	repo := new(mockLedger)
	svc := NewPaymentService(repo, "secret")
	userID := uuid.New()
	repo.On("ListTransactions", mock.Anything, userID, 20, 0).Return([]models.Transaction{}, nil)

	_, err := svc.ListTransactions(context.Background(), userID, 1000, -5)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPaymentService_GetBalance_StoreFailure(t *testing.T) {
	repo := new(mockLedger)
	svc := NewPaymentService(repo, "secret")
	repo.On("GetBalance", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.GetBalance(context.Background(), uuid.New())

	assert.True(t, apperror.IsInfrastructure(err))
}
