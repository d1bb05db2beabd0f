package dto

import (
	"time"

	"github.com/ignatzorin/classifieds-backend/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-backend/internal/models"
)

// AdView is a listing with its status and premium flag computed at one instant
type AdView struct {
	models.Ad
	Status  valueobject.AdStatus `json:"status"`
	Premium bool                 `json:"premium"`
}

// NewAdView classifies the listing at now
func NewAdView(ad models.Ad, now time.Time) AdView {
	return AdView{
		Ad:      ad,
		Status:  ad.Status(now),
		Premium: ad.IsPremium(now),
	}
}

// NewAdViews classifies every listing with the same now
func NewAdViews(ads []models.Ad, now time.Time) []AdView {
	views := make([]AdView, 0, len(ads))
	for _, ad := range ads {
		views = append(views, NewAdView(ad, now))
	}
	return views
}

// BrowseResponse represents one page of the public catalogue
type BrowseResponse struct {
	Ads         []AdView `json:"ads"`
	Total       int64    `json:"total"`
	CurrentPage int      `json:"currentPage"`
	TotalPages  int      `json:"totalPages"`
}

// MyAdsResponse represents one page of the owner's listings.
// TotalCounts covers all owned listings regardless of the status filter.
type MyAdsResponse struct {
	Ads         []AdView                 `json:"ads"`
	TotalCounts valueobject.StatusCounts `json:"totalCounts"`
	CurrentPage int                      `json:"currentPage"`
	TotalPages  int                      `json:"totalPages"`
}

// BoostResponse reports the new premium window
type BoostResponse struct {
	AdID           string    `json:"id"`
	PremiumEndDate time.Time `json:"premiumEndDate"`
	Cost           float64   `json:"cost"`
}

// MediaUploadResponse describes a stored file
type MediaUploadResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
