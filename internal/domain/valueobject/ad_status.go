package valueobject

import (
	"strings"
	"time"
)

// AdStatus: жизненный статус объявления. Не хранится в базе,
// всегда вычисляется из дат и флага active на момент запроса.
type AdStatus string

const (
	AdStatusActive   AdStatus = "active"
	AdStatusPending  AdStatus = "pending"
	AdStatusInactive AdStatus = "inactive"
	AdStatusExpired  AdStatus = "expired"
)

// AllAdStatuses перечисляет статусы в порядке вывода счётчиков.
var AllAdStatuses = []AdStatus{AdStatusActive, AdStatusPending, AdStatusInactive, AdStatusExpired}

func (s AdStatus) IsValid() bool {
	switch s {
	case AdStatusActive, AdStatusPending, AdStatusInactive, AdStatusExpired:
		return true
	}
	return false
}

func (s AdStatus) String() string {
	return string(s)
}

// ParseAdStatus разбирает статус из query-параметра.
// Пустое или неизвестное значение превращается в active, запрос не отклоняется.
func ParseAdStatus(raw string) AdStatus {
	s := AdStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return AdStatusActive
	}
	return s
}

// ClassifyAd определяет статус объявления на момент now.
// Порядок проверок важен: первая сработавшая ветка выигрывает.
//  1. нет endDate: pending (startDate и active не учитываются);
//  2. endDate < now: expired;
//  3. active явно false: inactive;
//  4. иначе active (active == nil считается true).
func ClassifyAd(endDate *time.Time, active *bool, now time.Time) AdStatus {
	if endDate == nil {
		return AdStatusPending
	}
	if endDate.Before(now) {
		return AdStatusExpired
	}
	if active != nil && !*active {
		return AdStatusInactive
	}
	return AdStatusActive
}

// IsPremium: объявление поднято, пока premiumEndDate строго в будущем.
func IsPremium(premiumEndDate *time.Time, now time.Time) bool {
	return premiumEndDate != nil && premiumEndDate.After(now)
}

// StatusCounts: количество объявлений владельца в каждом статусе.
type StatusCounts struct {
	Active   int `json:"active"`
	Pending  int `json:"pending"`
	Inactive int `json:"inactive"`
	Expired  int `json:"expired"`
}

// Add увеличивает счётчик указанного статуса.
func (c *StatusCounts) Add(s AdStatus) {
	switch s {
	case AdStatusActive:
		c.Active++
	case AdStatusPending:
		c.Pending++
	case AdStatusInactive:
		c.Inactive++
	case AdStatusExpired:
		c.Expired++
	}
}

// Total возвращает сумму по всем статусам.
func (c StatusCounts) Total() int {
	return c.Active + c.Pending + c.Inactive + c.Expired
}
