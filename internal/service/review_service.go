package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
	"github.com/ignatzorin/classifieds-backend/internal/validation"
)

const (
	defaultReviewPageSize = 20
	maxReviewPageSize     = 100
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListApproved(ctx context.Context, adID string, limit, offset int) ([]models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SetStatusAndRecalc и DeleteAndRecalc меняют отзыв и вызывают apply со средней оценкой,
	// посчитанной после изменения. Пересчёты одного объявления не пересекаются.
	SetStatusAndRecalc(ctx context.Context, id uuid.UUID, adID, status string, apply func(ctx context.Context, average float64, count int) error) error
	DeleteAndRecalc(ctx context.Context, id uuid.UUID, adID string, apply func(ctx context.Context, average float64, count int) error) error
}

type ReviewService struct {
	repo   ReviewRepository
	ads    AdStore
	notify asyncNotifier
}

func NewReviewService(repo ReviewRepository, ads AdStore, notifier Notifier) *ReviewService {
	return &ReviewService{repo: repo, ads: ads, notify: newAsyncNotifier(notifier)}
}

// Create оставляет отзыв на объявление. Отзыв попадает на модерацию.
func (s *ReviewService) Create(ctx context.Context, authorID uuid.UUID, adID string, req dto.CreateReviewRequest) (*models.Review, error) {
	if err := validation.ValidateRating(req.Rating); err != nil {
		return nil, validationError(err)
	}
	if err := validation.ValidateReviewComment(req.Comment); err != nil {
		return nil, validationError(err)
	}

	ad, err := s.ads.GetByID(ctx, adID)
	if err != nil {
		return nil, storeError("review service: load ad", err)
	}
	if ad.OwnerID == authorID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя оставить отзыв на своё объявление")
	}

	review := &models.Review{
		AdID:     ad.ID,
		AuthorID: authorID,
		Rating:   req.Rating,
		Comment:  req.Comment,
		Status:   models.ReviewStatusPending,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, storeError("review service: create", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"review_id": review.ID,
		"ad_id":     ad.ID,
		"author_id": authorID,
	}).Info("Отзыв отправлен на модерацию")
	return review, nil
}

// ListApproved возвращает одобренные отзывы объявления.
func (s *ReviewService) ListApproved(ctx context.Context, adID string, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > maxReviewPageSize {
		limit = defaultReviewPageSize
	}
	if offset < 0 {
		offset = 0
	}
	reviews, err := s.repo.ListApproved(ctx, adID, limit, offset)
	if err != nil {
		return nil, storeError("review service: list", err)
	}
	return reviews, nil
}

// Approve публикует отзыв и пересчитывает среднюю оценку объявления.
func (s *ReviewService) Approve(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("review service: approve", err)
	}
	if review.Status == models.ReviewStatusApproved {
		return review, nil
	}

	err = s.repo.SetStatusAndRecalc(ctx, id, review.AdID, models.ReviewStatusApproved, s.ratingWriter(review.AdID))
	if err != nil {
		return nil, storeError("review service: approve", err)
	}
	review.Status = models.ReviewStatusApproved

	s.notify.send(review.AuthorID, EventReviewApproved, map[string]interface{}{
		"id":    review.ID,
		"ad_id": review.AdID,
	})
	return review, nil
}

// Reject удаляет отзыв. Если он уже был одобрен, средняя оценка пересчитывается.
func (s *ReviewService) Reject(ctx context.Context, id uuid.UUID) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeError("review service: reject", err)
	}

	if review.Status == models.ReviewStatusApproved {
		err = s.repo.DeleteAndRecalc(ctx, id, review.AdID, s.ratingWriter(review.AdID))
	} else {
		err = s.repo.Delete(ctx, id)
	}
	if err != nil {
		return storeError("review service: reject", err)
	}

	s.notify.send(review.AuthorID, EventReviewRejected, map[string]interface{}{
		"id":    review.ID,
		"ad_id": review.AdID,
	})
	return nil
}

// ratingWriter записывает в объявление среднюю оценку одобренных отзывов.
// Объявление могло быть удалено раньше отзыва, это не ошибка.
func (s *ReviewService) ratingWriter(adID string) func(ctx context.Context, average float64, count int) error {
	return func(ctx context.Context, average float64, count int) error {
		rating := math.Round(average*100) / 100

		err := s.ads.UpdateOne(ctx, adID, models.AdPatch{AverageRating: &rating})
		if apperror.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return storeError("review service: update rating", err)
		}

		logger.Log.WithFields(logrus.Fields{"ad_id": adID, "rating": rating, "reviews": count}).Debug("Рейтинг объявления обновлён")
		return nil
	}
}
