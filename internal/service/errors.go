package service

import (
	"fmt"

	"github.com/ignatzorin/classifieds-backend/internal/pkg/apperror"
)

// storeError пропускает доменные ошибки как есть, а сбои хранилища превращает в 500.
func storeError(op string, err error) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	return apperror.Infrastructure(fmt.Errorf("%s: %w", op, err))
}

func validationError(err error) error {
	return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
}

func conflictError(message string) error {
	return apperror.New(apperror.ErrCodeConflict, message)
}
