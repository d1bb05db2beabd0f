package dto

import (
	"github.com/google/uuid"
)

// RegisterRequest represents the request to create an account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Username string `json:"username"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to refresh a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateAdRequest represents the request to publish a listing.
// A positive DurationDays without a verification attachment publishes immediately,
// otherwise the listing waits for moderation.
type CreateAdRequest struct {
	Type                   int      `json:"type"`
	Title                  string   `json:"title" binding:"required"`
	Description            string   `json:"description"`
	Price                  float64  `json:"price"`
	Images                 []string `json:"images"`
	Tags                   []int64  `json:"tags"`
	Regions                []int64  `json:"regions"`
	Offers                 []int64  `json:"offers"`
	DurationDays           int      `json:"durationDays"`
	VerificationAttachment *string  `json:"verificationAttachment"`
}

// UpdateAdRequest represents a partial update of listing content
type UpdateAdRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Images      *[]string `json:"images"`
	Tags        *[]int64  `json:"tags"`
	Regions     *[]int64  `json:"regions"`
	Offers      *[]int64  `json:"offers"`
}

// SetActiveRequest toggles owner-controlled visibility
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// RenewAdRequest restarts the publication window of a listing
type RenewAdRequest struct {
	Days int `json:"days"`
}

// BoostAdRequest buys premium placement for a number of days
type BoostAdRequest struct {
	Days int `json:"days" binding:"required"`
}

// ApproveAdRequest represents a moderator decision to publish a pending listing.
// Zero DurationDays keeps the duration stored on the listing.
type ApproveAdRequest struct {
	DurationDays int  `json:"durationDays"`
	Verify       bool `json:"verify"`
}

// RejectAdRequest carries the reason shown to the owner
type RejectAdRequest struct {
	Reason string `json:"reason"`
}

// AdFilterRequest represents the faceted search query. Empty criteria are ignored.
type AdFilterRequest struct {
	Type     *int
	Regions  []int64
	Tags     []int64
	Offers   []int64
	Search   string
	Verified bool
	Page     int
}

// CreateReviewRequest represents a review left on a listing
type CreateReviewRequest struct {
	Rating  int     `json:"rating" binding:"required"`
	Comment *string `json:"comment"`
}

// PaymentWebhookEvent is posted by the payment provider.
// Type is either "deposit" or "charge"; (Provider, EventID) identifies the event.
type PaymentWebhookEvent struct {
	Provider string    `json:"provider" binding:"required"`
	EventID  string    `json:"event_id" binding:"required"`
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	Type     string    `json:"type" binding:"required"`
	Amount   float64   `json:"amount" binding:"required"`
}
