package common

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/http/middleware"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
)

var (
	// ErrUserNotFound is returned when user is not found in context
	ErrUserNotFound = errors.New("пользователь не найден в контексте")

	// ErrInvalidUUID is returned when UUID parsing fails
	ErrInvalidUUID = errors.New("неверный формат UUID")
)

// CurrentUserID extracts user ID from Gin context
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, ErrUserNotFound
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrUserNotFound
	}

	return userID, nil
}

// IsAdmin reports whether the authenticated user has the admin role
func IsAdmin(c *gin.Context) bool {
	return c.GetString(middleware.ContextRoleKey) == models.RoleAdmin
}

// ParseUUIDParam parses UUID from URL parameter
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return parsed, nil
}

// Fail hands the error to middleware.ErrorHandler and stops the chain
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// BindJSON binds the body and reports a validation error on failure
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		Fail(c, apperror.Wrap(err, apperror.ErrCodeValidation, "некорректное тело запроса"))
		return false
	}
	return true
}

// RespondError sends a standardized error response
func RespondError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, dto.ErrorResponse{Error: message})
}

// RespondUnauthorized sends a 401 Unauthorized response
func RespondUnauthorized(c *gin.Context) {
	RespondError(c, http.StatusUnauthorized, "требуется авторизация")
}

// ParseIntQuery reads an integer query parameter; missing or malformed values give the fallback
func ParseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := strings.TrimSpace(c.Query(key)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// ParseOptionalIntQuery returns nil when the parameter is missing or not a number
func ParseOptionalIntQuery(c *gin.Context, key string) *int {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &parsed
}

// ParseIDListQuery accepts both ?tags=1,2 and ?tags=1&tags=2; non-numeric items are skipped
func ParseIDListQuery(c *gin.Context, key string) []int64 {
	var ids []int64
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err == nil {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// ParseBoolQuery treats "1", "true", "yes" as true
func ParseBoolQuery(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// GetPagination extracts limit and offset from query parameters with defaults
func GetPagination(c *gin.Context) (limit, offset int) {
	limit = ParseIntQuery(c, "limit", 20)
	offset = ParseIntQuery(c, "offset", 0)
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return
}
