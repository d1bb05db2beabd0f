package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/logger"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
)

// ErrorHandler превращает последнюю ошибку из c.Errors в JSON ответ.
// Для AppError клиент видит сообщение и код, остальные ошибки маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		body := dto.ErrorResponse{Error: "внутренняя ошибка сервера", Code: string(apperror.ErrCodeInternal)}

		if appErr, ok := apperror.As(err); ok {
			status = appErr.HTTPStatus
			body = dto.ErrorResponse{Error: appErr.Message, Code: string(appErr.Code)}
		}

		entry := logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"status": status,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("Request error")
		} else {
			entry.Debug("Request rejected")
		}

		c.JSON(status, body)
	}
}
