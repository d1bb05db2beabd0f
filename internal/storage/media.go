package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

var (
	// ErrTooLarge возвращается, когда файл больше лимита загрузки.
	ErrTooLarge = errors.New("storage: размер файла превышает лимит")
	// ErrUnsupportedType возвращается для файлов, не являющихся изображениями.
	ErrUnsupportedType = errors.New("storage: разрешены только изображения")
)

// Разрешённые типы изображений по магическим байтам.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// MediaStore хранит фотографии и вложения объявлений.
// Path: непрозрачный ключ, который сохраняется в объявлении.
type MediaStore interface {
	Save(ctx context.Context, owner uuid.UUID, originalName string, r io.Reader) (path string, size int64, err error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// DetectImage определяет тип изображения по первым байтам файла.
func DetectImage(header []byte) (mime string, ext string, err error) {
	kind, err := filetype.Match(header)
	if err != nil || kind == filetype.Unknown {
		return "", "", ErrUnsupportedType
	}
	if !allowedImageTypes[kind.MIME.Value] {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, kind.MIME.Value)
	}
	return kind.MIME.Value, "." + kind.Extension, nil
}

// readLimited читает весь поток, но не больше limit байт.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("storage: ошибка чтения файла: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}
