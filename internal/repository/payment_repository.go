package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/classifieds-backend/internal/models"
	"github.com/ignatzorin/classifieds-backend/internal/repository/common"
)

const transactionColumns = `id, user_id, ad_id, type, amount, status, provider, reference, description, created_at`

// PaymentRepository ведёт балансы пользователей и журнал операций.
type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetBalance возвращает баланс пользователя, создаёт если не существует.
func (r *PaymentRepository) GetBalance(ctx context.Context, userID uuid.UUID) (*models.UserBalance, error) {
	var balance models.UserBalance
	query := `
		INSERT INTO user_balances (user_id, available)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = user_balances.updated_at
		RETURNING user_id, available, updated_at
	`
	if err := r.db.GetContext(ctx, &balance, query, userID); err != nil {
		return nil, fmt.Errorf("payment repository: get balance %w", err)
	}
	return &balance, nil
}

// Credit зачисляет средства. Повтор записи с тем же reference даёт ErrDuplicateEvent.
func (r *PaymentRepository) Credit(ctx context.Context, entry models.LedgerEntry) (*models.Transaction, error) {
	var transaction *models.Transaction
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		created, err := insertTransaction(ctx, tx, entry)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_balances (user_id, available)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET available = user_balances.available + $2, updated_at = NOW()
		`, entry.UserID, entry.Amount); err != nil {
			return fmt.Errorf("payment repository: credit balance %w", err)
		}

		transaction = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// Debit списывает средства, если их достаточно.
func (r *PaymentRepository) Debit(ctx context.Context, entry models.LedgerEntry) (*models.Transaction, error) {
	var transaction *models.Transaction
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var available float64
		err := tx.GetContext(ctx, &available, `SELECT available FROM user_balances WHERE user_id = $1 FOR UPDATE`, entry.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInsufficientFunds
			}
			return fmt.Errorf("payment repository: lock balance %w", err)
		}
		if available < entry.Amount {
			return ErrInsufficientFunds
		}

		created, err := insertTransaction(ctx, tx, entry)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE user_balances SET available = available - $2, updated_at = NOW() WHERE user_id = $1
		`, entry.UserID, entry.Amount); err != nil {
			return debitError("payment repository", err)
		}

		transaction = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// debitError переводит срабатывание CHECK (available >= 0) в ErrInsufficientFunds.
func debitError(scope string, err error) error {
	if common.IsCheckViolation(err) {
		return ErrInsufficientFunds
	}
	return fmt.Errorf("%s: debit balance %w", scope, err)
}

// ListTransactions возвращает операции пользователя, новые первыми.
func (r *PaymentRepository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	err := r.db.SelectContext(ctx, &transactions, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("payment repository: list transactions %w", err)
	}
	return transactions, nil
}

func insertTransaction(ctx context.Context, tx *sqlx.Tx, entry models.LedgerEntry) (*models.Transaction, error) {
	var transaction models.Transaction
	err := tx.GetContext(ctx, &transaction, `
		INSERT INTO transactions (user_id, ad_id, type, amount, status, provider, reference, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+transactionColumns,
		entry.UserID, entry.AdID, entry.Type, entry.Amount, models.TransactionStatusCompleted,
		entry.Provider, entry.Reference, entry.Description,
	)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return nil, ErrDuplicateEvent
		}
		if common.IsForeignKeyViolation(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("payment repository: create transaction %w", err)
	}
	return &transaction, nil
}
