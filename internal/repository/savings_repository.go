package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
)

type savingsRepository struct {
	db *sqlx.DB
}

func NewSavingsRepository(db *sqlx.DB) SavingsRepository {
	return &savingsRepository{db: db}
}

func (r *savingsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsTransaction, error) {
	query := `
		SELECT id, entry_seq, transaction_number, student_id, type, amount, balance_before, balance_after, transaction_date, description, created_by, created_at, updated_at
		FROM savings_transactions
		WHERE id = $1
	`

	var transaction domain.SavingsTransaction
	err := r.db.GetContext(ctx, &transaction, query, id)
	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *savingsRepository) GetLatest(ctx context.Context, tx *sqlx.Tx, studentID uuid.UUID) (*domain.SavingsTransaction, error) {
	query := `
		SELECT id, entry_seq, transaction_number, student_id, type, amount, balance_before, balance_after, transaction_date, description, created_by, created_at, updated_at
		FROM savings_transactions
		WHERE student_id = $1
		ORDER BY transaction_date DESC, entry_seq DESC
		LIMIT 1
	`

	var transaction domain.SavingsTransaction
	err := sqlx.GetContext(ctx, r.queryer(tx), &transaction, query, studentID)
	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *savingsRepository) GetPreceding(ctx context.Context, tx *sqlx.Tx, studentID, excludeID uuid.UUID) (*domain.SavingsTransaction, error) {
	query := `
		SELECT id, entry_seq, transaction_number, student_id, type, amount, balance_before, balance_after, transaction_date, description, created_by, created_at, updated_at
		FROM savings_transactions
		WHERE student_id = $1 AND id <> $2
		ORDER BY transaction_date DESC, entry_seq DESC
		LIMIT 1
	`

	var transaction domain.SavingsTransaction
	err := sqlx.GetContext(ctx, r.queryer(tx), &transaction, query, studentID, excludeID)
	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

func (r *savingsRepository) queryer(tx *sqlx.Tx) sqlx.QueryerContext {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *savingsRepository) List(ctx context.Context, studentID uuid.UUID) ([]*domain.SavingsTransaction, error) {
	query := `
		SELECT id, entry_seq, transaction_number, student_id, type, amount, balance_before, balance_after, transaction_date, description, created_by, created_at, updated_at
		FROM savings_transactions
		WHERE student_id = $1
		ORDER BY transaction_date, entry_seq
	`

	var transactions []*domain.SavingsTransaction
	err := r.db.SelectContext(ctx, &transactions, query, studentID)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (r *savingsRepository) Create(ctx context.Context, tx *sqlx.Tx, transaction *domain.SavingsTransaction) error {
	query := `
		INSERT INTO savings_transactions (id, transaction_number, student_id, type, amount, balance_before, balance_after, transaction_date, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING entry_seq
	`

	return tx.GetContext(ctx, &transaction.EntrySeq, query,
		transaction.ID,
		transaction.TransactionNumber,
		transaction.StudentID,
		transaction.Type,
		transaction.Amount,
		transaction.BalanceBefore,
		transaction.BalanceAfter,
		transaction.TransactionDate,
		transaction.Description,
		transaction.CreatedBy,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	)
}

func (r *savingsRepository) Update(ctx context.Context, tx *sqlx.Tx, transaction *domain.SavingsTransaction) error {
	query := `
		UPDATE savings_transactions
		SET type = $2, amount = $3, balance_before = $4, balance_after = $5, transaction_date = $6, description = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := tx.ExecContext(ctx, query,
		transaction.ID,
		transaction.Type,
		transaction.Amount,
		transaction.BalanceBefore,
		transaction.BalanceAfter,
		transaction.TransactionDate,
		transaction.Description,
		time.Now(),
	)

	return err
}

func (r *savingsRepository) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM savings_transactions WHERE id = $1`, id)
	return err
}
