package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы транзакций
const (
	TransactionTypeDeposit      = "deposit"
	TransactionTypeCharge       = "charge"
	TransactionTypePremium      = "premium"
	TransactionTypeCompensation = "compensation"
)

// Статусы транзакций
const (
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// UserBalance представляет баланс пользователя.
type UserBalance struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Available float64   `db:"available" json:"available"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction: запись в журнале операций по балансу.
// Reference хранит ключ идемпотентности (id события провайдера или id поднятия).
type Transaction struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	AdID        *string   `db:"ad_id" json:"ad_id,omitempty"`
	Type        string    `db:"type" json:"type"`
	Amount      float64   `db:"amount" json:"amount"`
	Status      string    `db:"status" json:"status"`
	Provider    *string   `db:"provider" json:"provider,omitempty"`
	Reference   *string   `db:"reference" json:"reference,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// LedgerEntry описывает изменение баланса до записи в журнал.
type LedgerEntry struct {
	UserID      uuid.UUID
	Amount      float64
	Type        string
	AdID        *string
	Provider    *string
	Reference   *string
	Description string
}
