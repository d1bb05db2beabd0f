package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
)

// UUIDValidator отсекает запросы, где параметр пути не UUID.
// Идентификаторы объявлений не проверяются: в MongoDB это ObjectID.
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param(paramName)); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "параметр " + paramName + " должен быть валидным UUID",
				Code:  "VALIDATION_ERROR",
			})
			return
		}
		c.Next()
	}
}
