package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/repository/common"
)

const reviewColumns = `id, ad_id, author_id, rating, comment, status, created_at`

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create создаёт отзыв. Второй отзыв того же автора на объявление даёт ErrReviewExists.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (ad_id, author_id, rating, comment, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		review.AdID, review.AuthorID, review.Rating, review.Comment, review.Status,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return ErrReviewExists
		}
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// GetByID возвращает отзыв по ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := common.GetOne[models.Review](ctx, r.db, ErrReviewNotFound, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
	if err != nil && !errors.Is(err, ErrReviewNotFound) {
		return nil, fmt.Errorf("review repository: get by id %w", err)
	}
	return review, err
}

// ListApproved возвращает одобренные отзывы объявления, новые первыми.
func (r *ReviewRepository) ListApproved(ctx context.Context, adID string, limit, offset int) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE ad_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, adID, models.ReviewStatusApproved, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("review repository: list approved %w", err)
	}
	return reviews, nil
}

// RatingUpdate получает свежую среднюю оценку одобренных отзывов объявления и их число.
type RatingUpdate = func(ctx context.Context, average float64, count int) error

// SetStatusAndRecalc меняет статус отзыва и передаёт новую среднюю оценку в apply.
func (r *ReviewRepository) SetStatusAndRecalc(ctx context.Context, id uuid.UUID, adID, status string, apply RatingUpdate) error {
	return r.withAdRating(ctx, adID, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE reviews SET status = $2 WHERE id = $1`, id, status)
		if err != nil {
			return fmt.Errorf("review repository: set status %w", err)
		}
		return expectOneRow(res, ErrReviewNotFound)
	}, apply)
}

// DeleteAndRecalc удаляет отзыв и передаёт новую среднюю оценку в apply.
func (r *ReviewRepository) DeleteAndRecalc(ctx context.Context, id uuid.UUID, adID string, apply RatingUpdate) error {
	return r.withAdRating(ctx, adID, func(tx *sqlx.Tx) error {
		return deleteReview(ctx, tx, id)
	}, apply)
}

// Delete удаляет отзыв.
func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteReview(ctx, r.db, id)
}

// withAdRating выполняет change и пересчёт рейтинга под advisory-блокировкой объявления.
// Пересчёты одного объявления идут строго по очереди, а среднее считается уже после
// получения блокировки, поэтому последняя записанная оценка учитывает все изменения.
// Ошибка apply откатывает изменение отзыва.
func (r *ReviewRepository) withAdRating(ctx context.Context, adID string, change func(tx *sqlx.Tx) error, apply RatingUpdate) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, adID); err != nil {
			return fmt.Errorf("review repository: lock ad rating %w", err)
		}
		if err := change(tx); err != nil {
			return err
		}

		var result struct {
			Average float64 `db:"average"`
			Count   int     `db:"count"`
		}
		err := tx.GetContext(ctx, &result, `
			SELECT COALESCE(AVG(rating), 0)::float8 AS average, COUNT(*) AS count
			FROM reviews
			WHERE ad_id = $1 AND status = $2
		`, adID, models.ReviewStatusApproved)
		if err != nil {
			return fmt.Errorf("review repository: approved average %w", err)
		}
		return apply(ctx, result.Average, result.Count)
	})
}

func deleteReview(ctx context.Context, exec sqlx.ExecerContext, id uuid.UUID) error {
	res, err := exec.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("review repository: delete %w", err)
	}
	return expectOneRow(res, ErrReviewNotFound)
}
