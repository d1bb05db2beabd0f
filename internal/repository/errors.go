package repository

import "github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"

// Ошибки репозиториев. Это те же значения, что и в apperror,
// поэтому ErrorHandler сразу отдаёт корректный HTTP статус.
var (
	ErrAdNotFound        = apperror.ErrAdNotFound
	ErrUserNotFound      = apperror.ErrUserNotFound
	ErrReviewNotFound    = apperror.ErrReviewNotFound
	ErrInsufficientFunds = apperror.ErrInsufficientFunds
	ErrDuplicateEvent    = apperror.ErrDuplicateEvent
	ErrReviewExists      = apperror.ErrReviewExists
	ErrEmailTaken        = apperror.ErrEmailTaken
)
