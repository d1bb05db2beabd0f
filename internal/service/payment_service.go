package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
)

// Типы событий платёжного провайдера.
const (
	WebhookTypeDeposit = "deposit"
	WebhookTypeCharge  = "charge"
)

// PaymentRepository: баланс и журнал операций.
type PaymentRepository interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*models.UserBalance, error)
	Credit(ctx context.Context, entry models.LedgerEntry) (*models.Transaction, error)
	Debit(ctx context.Context, entry models.LedgerEntry) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error)
}

type PaymentService struct {
	repo          PaymentRepository
	webhookSecret []byte
}

func NewPaymentService(repo PaymentRepository, webhookSecret string) *PaymentService {
	return &PaymentService{repo: repo, webhookSecret: []byte(webhookSecret)}
}

// GetBalance возвращает баланс пользователя.
func (s *PaymentService) GetBalance(ctx context.Context, userID uuid.UUID) (*models.UserBalance, error) {
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, storeError("payment service: balance", err)
	}
	return balance, nil
}

// ListTransactions возвращает историю транзакций.
func (s *PaymentService) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	transactions, err := s.repo.ListTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, storeError("payment service: transactions", err)
	}
	return transactions, nil
}

// VerifySignature проверяет HMAC-SHA256 тела запроса в hex.
func (s *PaymentService) VerifySignature(body []byte, signature string) bool {
	if len(s.webhookSecret) == 0 {
		return false
	}
	expected, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.webhookSecret)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}

// Sign подписывает тело тем же ключом. Нужен для тестов и CLI.
func (s *PaymentService) Sign(body []byte) string {
	mac := hmac.New(sha256.New, s.webhookSecret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// HandleWebhook применяет событие провайдера к балансу.
// Повторная доставка того же события возвращает applied=false без ошибки.
func (s *PaymentService) HandleWebhook(ctx context.Context, event dto.PaymentWebhookEvent) (bool, error) {
	if event.Amount <= 0 {
		return false, validationError(fmt.Errorf("сумма должна быть положительной"))
	}
	if strings.TrimSpace(event.Provider) == "" || strings.TrimSpace(event.EventID) == "" {
		return false, validationError(fmt.Errorf("provider и event_id обязательны"))
	}

	entry := models.LedgerEntry{
		UserID:    event.UserID,
		Amount:    event.Amount,
		Provider:  &event.Provider,
		Reference: &event.EventID,
	}

	var err error
	switch event.Type {
	case WebhookTypeDeposit:
		entry.Type = models.TransactionTypeDeposit
		entry.Description = "Пополнение баланса"
		_, err = s.repo.Credit(ctx, entry)
	case WebhookTypeCharge:
		entry.Type = models.TransactionTypeCharge
		entry.Description = "Списание по запросу провайдера"
		_, err = s.repo.Debit(ctx, entry)
	default:
		return false, validationError(fmt.Errorf("неизвестный тип события %q", event.Type))
	}

	fields := logrus.Fields{"provider": event.Provider, "event_id": event.EventID, "user_id": event.UserID}
	if errors.Is(err, apperror.ErrDuplicateEvent) {
		logger.Log.WithFields(fields).Info("Повторное событие провайдера пропущено")
		return false, nil
	}
	if err != nil {
		return false, storeError("payment service: webhook", err)
	}

	logger.Log.WithFields(fields).WithField("amount", event.Amount).Info("Событие провайдера применено")
	return true, nil
}
