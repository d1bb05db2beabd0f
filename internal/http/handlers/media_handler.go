package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/http/handlers/common"
	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
	"github.com/ignatzorin/classifieds-backend/internal/storage"
)

// MediaHandler принимает фотографии и документы для объявлений.
type MediaHandler struct {
	store storage.MediaStore
}

func NewMediaHandler(store storage.MediaStore) *MediaHandler {
	return &MediaHandler{store: store}
}

// UploadPhoto обрабатывает POST /api/media/photos (multipart, поле file).
// Тип проверяется по магическим байтам, расширение имени файла не учитывается.
func (h *MediaHandler) UploadPhoto(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		common.RespondError(c, http.StatusBadRequest, "файл не может быть пустым")
		return
	}

	src, err := file.Open()
	if err != nil {
		common.Fail(c, err)
		return
	}
	defer src.Close()

	path, size, err := h.store.Save(c.Request.Context(), userID, file.Filename, src)
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		common.RespondError(c, http.StatusRequestEntityTooLarge, "размер файла превышает лимит")
		return
	case errors.Is(err, storage.ErrUnsupportedType):
		common.Fail(c, apperror.Wrap(err, apperror.ErrCodeValidation, "разрешены только изображения jpeg, png, gif, webp"))
		return
	case err != nil:
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MediaUploadResponse{Path: path, URL: h.store.URL(path), Size: size})
}
