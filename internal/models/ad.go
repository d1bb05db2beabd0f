package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-backend/internal/domain/valueobject"
)

// Ad описывает объявление.
// StartDate и EndDate пустые, пока объявление ждёт модерации.
// Active == nil встречается у старых записей и трактуется как true.
// Хранилища держат собственные представления строки/документа и конвертируют их в Ad.
type Ad struct {
	ID                     string     `json:"id"`
	OwnerID                uuid.UUID  `json:"owner"`
	Type                   int        `json:"type"`
	Title                  string     `json:"title"`
	Description            string     `json:"description"`
	Price                  float64    `json:"price"`
	Images                 []string   `json:"images"`
	Tags                   []int64    `json:"tags"`
	Regions                []int64    `json:"regions"`
	Offers                 []int64    `json:"offers"`
	StartDate              *time.Time `json:"startDate"`
	EndDate                *time.Time `json:"endDate"`
	Active                 *bool      `json:"active,omitempty"`
	PremiumEndDate         *time.Time `json:"premiumEndDate,omitempty"`
	Verified               *bool      `json:"verified,omitempty"`
	VerificationAttachment *string    `json:"verificationAttachment,omitempty"`
	DurationDays           int        `json:"durationDays"`
	AverageRating          float64    `json:"averageRating"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// Status вычисляет жизненный статус объявления на момент now.
func (a *Ad) Status(now time.Time) valueobject.AdStatus {
	return valueobject.ClassifyAd(a.EndDate, a.Active, now)
}

// IsPremium сообщает, поднято ли объявление на момент now.
func (a *Ad) IsPremium(now time.Time) bool {
	return valueobject.IsPremium(a.PremiumEndDate, now)
}

// IsActiveFlag возвращает значение флага active с учётом значения по умолчанию.
func (a *Ad) IsActiveFlag() bool {
	return a.Active == nil || *a.Active
}

// IsVerified возвращает true, только если модератор подтвердил объявление.
func (a *Ad) IsVerified() bool {
	return a.Verified != nil && *a.Verified
}

// StartUnixMilli: ключ сортировки: объявления без startDate считаются самыми старыми.
func (a *Ad) StartUnixMilli() int64 {
	if a.StartDate == nil {
		return 0
	}
	return a.StartDate.UnixMilli()
}
