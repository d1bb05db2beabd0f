package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-backend/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/validation"
)

// AtomicBooster реализуется хранилищем, которое умеет списать деньги и продлить премиум одной транзакцией.
type AtomicBooster interface {
	ApplyPremiumWithDebit(ctx context.Context, owner uuid.UUID, adID string, days int, now time.Time, cost float64, reference string) (time.Time, error)
}

// Ledger: операции с балансом, нужные для поднятия.
type Ledger interface {
	Debit(ctx context.Context, entry models.LedgerEntry) (*models.Transaction, error)
	Credit(ctx context.Context, entry models.LedgerEntry) (*models.Transaction, error)
}

// BoostService продаёт премиум-размещение объявлений.
type BoostService struct {
	ads      AdStore
	ledger   Ledger
	dayPrice float64
	now      func() time.Time
	newRef   func() string
}

func NewBoostService(ads AdStore, ledger Ledger, dayPrice float64) *BoostService {
	return &BoostService{
		ads:      ads,
		ledger:   ledger,
		dayPrice: dayPrice,
		now:      time.Now,
		newRef:   uuid.NewString,
	}
}

// Boost продлевает премиум на days дней от max(now, текущий конец премиума).
// Новый конец считает хранилище, поэтому параллельные поднятия не теряют оплаченные дни.
// Поднять можно только своё активное объявление.
func (s *BoostService) Boost(ctx context.Context, owner uuid.UUID, id string, days int) (*dto.BoostResponse, error) {
	if err := validation.ValidateDays("срок поднятия", days); err != nil {
		return nil, validationError(err)
	}

	ad, err := loadOwnedAd(ctx, s.ads, owner, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if ad.Status(now) != valueobject.AdStatusActive {
		return nil, conflictError("поднять можно только активное объявление")
	}

	cost := float64(days) * s.dayPrice
	reference := "boost:" + s.newRef()

	var premiumEnd time.Time
	if atomic, ok := s.ads.(AtomicBooster); ok {
		premiumEnd, err = atomic.ApplyPremiumWithDebit(ctx, owner, id, days, now, cost, reference)
		if err != nil {
			return nil, storeError("boost service: apply", err)
		}
	} else if premiumEnd, err = s.debitThenExtend(ctx, owner, id, days, now, cost, reference); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"ad_id":       id,
		"owner":       owner,
		"days":        days,
		"cost":        cost,
		"premium_end": premiumEnd,
	}).Info("Объявление поднято")

	return &dto.BoostResponse{AdID: id, PremiumEndDate: premiumEnd, Cost: cost}, nil
}

// debitThenExtend используется с хранилищами без общей транзакции с балансом.
// Если продление не прошло, списание компенсируется зачислением.
func (s *BoostService) debitThenExtend(ctx context.Context, owner uuid.UUID, id string, days int, now time.Time, cost float64, reference string) (time.Time, error) {
	adID := id
	entry := models.LedgerEntry{
		UserID:      owner,
		Amount:      cost,
		Type:        models.TransactionTypePremium,
		AdID:        &adID,
		Reference:   &reference,
		Description: "Поднятие объявления",
	}
	if _, err := s.ledger.Debit(ctx, entry); err != nil {
		return time.Time{}, storeError("boost service: debit", err)
	}

	premiumEnd, updateErr := s.ads.ExtendPremium(ctx, id, days, now)
	if updateErr == nil {
		return premiumEnd, nil
	}

	compensation := entry
	compensation.Type = models.TransactionTypeCompensation
	compensation.Description = "Возврат за неудавшееся поднятие"
	// Компенсация не должна зависеть от отменённого контекста запроса.
	compCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if _, err := s.ledger.Credit(compCtx, compensation); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"ad_id":     id,
			"owner":     owner,
			"reference": reference,
		}).Error("Не удалось вернуть средства за поднятие")
		return time.Time{}, storeError("boost service: compensate", errors.Join(updateErr, err))
	}

	return time.Time{}, storeError("boost service: update", fmt.Errorf("премиум не применён, средства возвращены: %w", updateErr))
}
