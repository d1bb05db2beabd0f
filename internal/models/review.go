package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы отзывов
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
)

// Review: отзыв пользователя об объявлении.
// В среднюю оценку объявления попадают только одобренные отзывы.
type Review struct {
	ID        uuid.UUID `db:"id" json:"id"`
	AdID      string    `db:"ad_id" json:"ad_id"`
	AuthorID  uuid.UUID `db:"author_id" json:"author_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
