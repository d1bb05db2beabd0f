package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/repository/common"
)

const adColumns = `id, owner_id, type, title, description, price, images, tags, regions, offers,
	start_date, end_date, active, premium_end_date, verified, verification_attachment,
	duration_days, average_rating, created_at, updated_at`

// adRow: строка таблицы ads. Массивы читаются через типы lib/pq.
type adRow struct {
	ID                     string         `db:"id"`
	OwnerID                uuid.UUID      `db:"owner_id"`
	Type                   int            `db:"type"`
	Title                  string         `db:"title"`
	Description            string         `db:"description"`
	Price                  float64        `db:"price"`
	Images                 pq.StringArray `db:"images"`
	Tags                   pq.Int64Array  `db:"tags"`
	Regions                pq.Int64Array  `db:"regions"`
	Offers                 pq.Int64Array  `db:"offers"`
	StartDate              *time.Time     `db:"start_date"`
	EndDate                *time.Time     `db:"end_date"`
	Active                 *bool          `db:"active"`
	PremiumEndDate         *time.Time     `db:"premium_end_date"`
	Verified               *bool          `db:"verified"`
	VerificationAttachment *string        `db:"verification_attachment"`
	DurationDays           int            `db:"duration_days"`
	AverageRating          float64        `db:"average_rating"`
	CreatedAt              time.Time      `db:"created_at"`
	UpdatedAt              time.Time      `db:"updated_at"`
}

func (r adRow) toModel() models.Ad {
	return models.Ad{
		ID:                     r.ID,
		OwnerID:                r.OwnerID,
		Type:                   r.Type,
		Title:                  r.Title,
		Description:            r.Description,
		Price:                  r.Price,
		Images:                 nonNilStrings(r.Images),
		Tags:                   nonNilInts(r.Tags),
		Regions:                nonNilInts(r.Regions),
		Offers:                 nonNilInts(r.Offers),
		StartDate:              r.StartDate,
		EndDate:                r.EndDate,
		Active:                 r.Active,
		PremiumEndDate:         r.PremiumEndDate,
		Verified:               r.Verified,
		VerificationAttachment: r.VerificationAttachment,
		DurationDays:           r.DurationDays,
		AverageRating:          r.AverageRating,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nonNilInts(v []int64) []int64 {
	if v == nil {
		return []int64{}
	}
	return v
}

// AdRepository хранит объявления в PostgreSQL.
type AdRepository struct {
	db *sqlx.DB
}

// NewAdRepository создаёт экземпляр репозитория.
func NewAdRepository(db *sqlx.DB) *AdRepository {
	return &AdRepository{db: db}
}

// Create вставляет объявление. id, created_at и updated_at назначает база.
func (r *AdRepository) Create(ctx context.Context, ad *models.Ad) error {
	query := `
		INSERT INTO ads (owner_id, type, title, description, price, images, tags, regions, offers,
			start_date, end_date, active, premium_end_date, verified, verification_attachment, duration_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		ad.OwnerID, ad.Type, ad.Title, ad.Description, ad.Price,
		pq.Array(nonNilStrings(ad.Images)), pq.Array(nonNilInts(ad.Tags)),
		pq.Array(nonNilInts(ad.Regions)), pq.Array(nonNilInts(ad.Offers)),
		ad.StartDate, ad.EndDate, ad.Active, ad.PremiumEndDate, ad.Verified,
		ad.VerificationAttachment, ad.DurationDays,
	).Scan(&ad.ID, &ad.CreatedAt, &ad.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ad repository: create %w", err)
	}
	return nil
}

// GetByID возвращает объявление. Некорректный id равнозначен отсутствию записи.
func (r *AdRepository) GetByID(ctx context.Context, id string) (*models.Ad, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrAdNotFound
	}

	row, err := common.GetOne[adRow](ctx, r.db, ErrAdNotFound, `SELECT `+adColumns+` FROM ads WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, ErrAdNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("ad repository: get by id %w", err)
	}

	ad := row.toModel()
	return &ad, nil
}

// Find возвращает объявления по предикату, отсортированные по start_date по убыванию.
func (r *AdRepository) Find(ctx context.Context, q models.AdQuery) ([]models.Ad, error) {
	query, args := BuildAdSelect(q)

	var rows []adRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("ad repository: find %w", err)
	}

	ads := make([]models.Ad, 0, len(rows))
	for _, row := range rows {
		ads = append(ads, row.toModel())
	}
	return ads, nil
}

// Count считает объявления по тому же предикату, что и Find. Skip и Limit игнорируются.
func (r *AdRepository) Count(ctx context.Context, q models.AdQuery) (int64, error) {
	where, args := BuildAdWhere(q)

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM ads`+where, args...); err != nil {
		return 0, fmt.Errorf("ad repository: count %w", err)
	}
	return total, nil
}

// UpdateOne применяет патч одной командой UPDATE.
func (r *AdRepository) UpdateOne(ctx context.Context, id string, patch models.AdPatch) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrAdNotFound
	}

	query, args := BuildAdUpdate(id, patch)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ad repository: update %w", err)
	}
	return expectOneRow(res, ErrAdNotFound)
}

// Delete удаляет объявление безвозвратно.
func (r *AdRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrAdNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM ads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ad repository: delete %w", err)
	}
	return expectOneRow(res, ErrAdNotFound)
}

// extendPremiumQuery продлевает премиум от max(now, текущий конец) одной командой.
const extendPremiumQuery = `
	UPDATE ads
	SET premium_end_date = GREATEST(COALESCE(premium_end_date, $2), $2) + make_interval(days => $3),
	    updated_at = NOW()
	WHERE id = $1
`

// ExtendPremium продлевает премиум на days дней и возвращает новый конец.
func (r *AdRepository) ExtendPremium(ctx context.Context, id string, days int, now time.Time) (time.Time, error) {
	if _, err := uuid.Parse(id); err != nil {
		return time.Time{}, ErrAdNotFound
	}

	var premiumEnd time.Time
	err := r.db.GetContext(ctx, &premiumEnd, extendPremiumQuery+` RETURNING premium_end_date`, id, now, days)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrAdNotFound
		}
		return time.Time{}, fmt.Errorf("ad repository: extend premium %w", err)
	}
	return premiumEnd, nil
}

// ApplyPremiumWithDebit списывает стоимость поднятия и продлевает премиум в одной транзакции.
// Повтор с тем же reference возвращает ErrDuplicateEvent и ничего не меняет.
func (r *AdRepository) ApplyPremiumWithDebit(ctx context.Context, owner uuid.UUID, adID string, days int, now time.Time, cost float64, reference string) (time.Time, error) {
	if _, err := uuid.Parse(adID); err != nil {
		return time.Time{}, ErrAdNotFound
	}

	var premiumEnd time.Time
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var available float64
		err := tx.GetContext(ctx, &available, `SELECT available FROM user_balances WHERE user_id = $1 FOR UPDATE`, owner)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInsufficientFunds
			}
			return fmt.Errorf("ad repository: lock balance %w", err)
		}
		if available < cost {
			return ErrInsufficientFunds
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (user_id, ad_id, type, amount, status, reference, description)
			VALUES ($1, $2, $3, $4, $5, $6, 'Поднятие объявления')
		`, owner, adID, models.TransactionTypePremium, cost, models.TransactionStatusCompleted, reference)
		if err != nil {
			if common.IsUniqueViolation(err) {
				return ErrDuplicateEvent
			}
			return fmt.Errorf("ad repository: premium transaction %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE user_balances SET available = available - $2, updated_at = NOW() WHERE user_id = $1
		`, owner, cost); err != nil {
			return debitError("ad repository", err)
		}

		err = tx.GetContext(ctx, &premiumEnd, extendPremiumQuery+` AND owner_id = $4 RETURNING premium_end_date`, adID, now, days, owner)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAdNotFound
			}
			return fmt.Errorf("ad repository: set premium %w", err)
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return premiumEnd, nil
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
