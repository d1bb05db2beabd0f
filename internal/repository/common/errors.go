package common

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, на которые реагируют репозитории.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// IsUniqueViolation сообщает, что вставка нарушила уникальный индекс.
func IsUniqueViolation(err error) bool {
	return hasPQCode(err, pgUniqueViolation)
}

// IsForeignKeyViolation сообщает, что запись ссылается на несуществующую строку.
func IsForeignKeyViolation(err error) bool {
	return hasPQCode(err, pgForeignKeyViolation)
}

// IsCheckViolation сообщает о нарушении CHECK (например, отрицательный баланс).
func IsCheckViolation(err error) bool {
	return hasPQCode(err, pgCheckViolation)
}

func hasPQCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
