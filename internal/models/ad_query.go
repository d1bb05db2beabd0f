package models

import (
	"time"

	"github.com/google/uuid"
)

// AdQuery: независимый от хранилища предикат выборки объявлений.
// Пустые поля не добавляют условий. Сортировка всегда по startDate по убыванию.
type AdQuery struct {
	OwnerID *uuid.UUID
	Type    *int

	// NotExpiredAt добавляет условие endDate >= NotExpiredAt.
	NotExpiredAt *time.Time
	// ActiveOrAbsent добавляет условие (active отсутствует ИЛИ active = true).
	ActiveOrAbsent bool
	// PendingOnly оставляет только объявления без endDate (очередь модерации).
	PendingOnly bool

	Regions      []int64
	Tags         []int64
	Offers       []int64
	Search       string
	VerifiedOnly bool

	Skip  int
	Limit int
}

// AdPatch: частичное обновление объявления. Применяется одной командой хранилища.
type AdPatch struct {
	Title                       *string
	Description                 *string
	Price                       *float64
	Images                      *[]string
	Tags                        *[]int64
	Regions                     *[]int64
	Offers                      *[]int64
	Active                      *bool
	StartDate                   *time.Time
	EndDate                     *time.Time
	PremiumEndDate              *time.Time
	Verified                    *bool
	ClearVerificationAttachment bool
	AverageRating               *float64
}

// IsEmpty сообщает, что патч ничего не меняет.
func (p AdPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Images == nil &&
		p.Tags == nil && p.Regions == nil && p.Offers == nil && p.Active == nil &&
		p.StartDate == nil && p.EndDate == nil && p.PremiumEndDate == nil &&
		p.Verified == nil && !p.ClearVerificationAttachment && p.AverageRating == nil
}
