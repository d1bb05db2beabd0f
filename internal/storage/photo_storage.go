package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PhotoStorage хранит изображения на локальном диске. Файлы раздаются по publicBaseURL.
type PhotoStorage struct {
	rootPath       string
	publicBaseURL  string
	maxUploadBytes int64
}

// NewPhotoStorage создаёт файловое хранилище.
func NewPhotoStorage(rootPath, publicBaseURL string, maxUploadMB int64) (*PhotoStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &PhotoStorage{
		rootPath:       rootPath,
		publicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Root возвращает каталог для раздачи статики.
func (s *PhotoStorage) Root() string {
	return s.rootPath
}

// Save проверяет тип изображения и сохраняет файл в каталог владельца.
func (s *PhotoStorage) Save(ctx context.Context, owner uuid.UUID, _ string, r io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	data, err := readLimited(r, s.maxUploadBytes)
	if err != nil {
		return "", 0, err
	}
	_, ext, err := DetectImage(data)
	if err != nil {
		return "", 0, err
	}

	ownerDir := filepath.Join(s.rootPath, owner.String())
	if err := os.MkdirAll(ownerDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать каталог владельца: %w", err)
	}

	fileName := uuid.NewString() + ext
	targetPath := filepath.Join(ownerDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	written, err := io.Copy(f, bytes.NewReader(data))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		_ = os.Remove(tempPath)
		return "", 0, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return owner.String() + "/" + fileName, written, nil
}

// Delete удаляет файл. Отсутствующий файл не считается ошибкой.
func (s *PhotoStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := s.resolve(relativePath)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

// URL возвращает публичный адрес файла.
func (s *PhotoStorage) URL(relativePath string) string {
	return s.publicBaseURL + "/" + strings.TrimLeft(relativePath, "/")
}

// resolve не даёт выйти за пределы корня хранилища.
func (s *PhotoStorage) resolve(relativePath string) (string, error) {
	cleaned := filepath.Clean("/" + filepath.FromSlash(relativePath))
	target := filepath.Join(s.rootPath, cleaned)
	root := filepath.Clean(s.rootPath) + string(filepath.Separator)
	if !strings.HasPrefix(target, root) {
		return "", fmt.Errorf("storage: некорректный путь %q", relativePath)
	}
	return target, nil
}
