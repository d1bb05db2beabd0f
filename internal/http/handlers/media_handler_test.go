package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/storage"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

func uploadRequest(t *testing.T, name string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMediaHandler_UploadPhoto(t *testing.T) {
	store, err := storage.NewPhotoStorage(t.TempDir(), "/media", 1)
	require.NoError(t, err)
	userID := uuid.New()
	h := NewMediaHandler(store)
	r := newTestRouter(&userID, models.RoleUser)
	r.POST("/api/media/photos", h.UploadPhoto)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "bike.jpg", pngBytes))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.MediaUploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Path, userID.String()+"/"))
	assert.Equal(t, "/media/"+resp.Path, resp.URL)
	assert.Equal(t, int64(len(pngBytes)), resp.Size)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "virus.png", []byte("MZ not an image at all")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaHandler_Unauthorized(t *testing.T) {
	h := NewMediaHandler(nil)
	r := newTestRouter(nil, "")
	r.POST("/api/media/photos", h.UploadPhoto)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "a.png", pngBytes))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
