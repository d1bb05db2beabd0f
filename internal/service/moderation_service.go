package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-backend/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/validation"
)

// ModerationService обслуживает очередь объявлений, ожидающих публикации.
type ModerationService struct {
	ads             AdStore
	media           MediaRemover
	notify          asyncNotifier
	defaultDuration int
	now             func() time.Time
}

// NewModerationService создаёт сервис модерации. notifier и media могут быть nil.
func NewModerationService(ads AdStore, media MediaRemover, notifier Notifier, defaultDurationDays int) *ModerationService {
	return &ModerationService{
		ads:             ads,
		media:           media,
		notify:          newAsyncNotifier(notifier),
		defaultDuration: defaultDurationDays,
		now:             time.Now,
	}
}

// ListPending возвращает страницу очереди модерации.
func (s *ModerationService) ListPending(ctx context.Context, page int) (*dto.BrowseResponse, error) {
	page = valueobject.NormalizePage(page)
	now := s.now()

	q := models.AdQuery{PendingOnly: true}
	total, err := s.ads.Count(ctx, q)
	if err != nil {
		return nil, storeError("moderation service: count pending", err)
	}

	ads := []models.Ad{}
	if !valueobject.PastLastPage(total, page, ModerationPageSize) {
		q.Skip = valueobject.PageOffset(page, ModerationPageSize)
		q.Limit = ModerationPageSize
		if ads, err = s.ads.Find(ctx, q); err != nil {
			return nil, storeError("moderation service: list pending", err)
		}
	}

	return &dto.BrowseResponse{
		Ads:         dto.NewAdViews(ads, now),
		Total:       total,
		CurrentPage: page,
		TotalPages:  valueobject.TotalPages(total, ModerationPageSize),
	}, nil
}

// Approve публикует объявление с текущего момента. Срок берётся из запроса,
// затем из объявления, затем по умолчанию. Verify подтверждает приложенный документ.
func (s *ModerationService) Approve(ctx context.Context, id string, req dto.ApproveAdRequest) (*dto.AdView, error) {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("moderation service: approve", err)
	}

	now := s.now()
	if ad.Status(now) != valueobject.AdStatusPending {
		return nil, conflictError("объявление уже опубликовано")
	}

	days := firstPositive(req.DurationDays, ad.DurationDays, s.defaultDuration)
	if err := validation.ValidateDays("срок публикации", days); err != nil {
		return nil, validationError(err)
	}

	start, end := publicationWindow(now, days)
	patch := models.AdPatch{StartDate: &start, EndDate: &end}
	if req.Verify && ad.VerificationAttachment != nil {
		verified := true
		patch.Verified = &verified
	}

	if err := s.ads.UpdateOne(ctx, id, patch); err != nil {
		return nil, storeError("moderation service: approve", err)
	}

	ad.StartDate, ad.EndDate = &start, &end
	if patch.Verified != nil {
		ad.Verified = patch.Verified
	}

	logger.Log.WithFields(logrus.Fields{"ad_id": id, "days": days, "verified": ad.IsVerified()}).Info("Объявление одобрено")
	s.notify.send(ad.OwnerID, EventAdApproved, map[string]interface{}{
		"id":      ad.ID,
		"title":   ad.Title,
		"endDate": end,
	})

	view := dto.NewAdView(*ad, now)
	return &view, nil
}

// Reject удаляет объявление из очереди и сообщает владельцу причину.
func (s *ModerationService) Reject(ctx context.Context, id, reason string) error {
	if err := validation.ValidateLength("причина", reason, 0, validation.MaxRejectReasonLength); err != nil {
		return validationError(err)
	}

	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return storeError("moderation service: reject", err)
	}
	if ad.Status(s.now()) != valueobject.AdStatusPending {
		return conflictError("отклонить можно только объявление на модерации")
	}

	if err := s.ads.Delete(ctx, id); err != nil {
		return storeError("moderation service: reject", err)
	}
	removeAdMedia(ctx, s.media, ad)

	logger.Log.WithFields(logrus.Fields{"ad_id": id, "reason": reason}).Info("Объявление отклонено")
	s.notify.send(ad.OwnerID, EventAdRejected, map[string]interface{}{
		"id":     ad.ID,
		"title":  ad.Title,
		"reason": reason,
	})
	return nil
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
