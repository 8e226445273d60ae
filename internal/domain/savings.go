package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	SavingsTypeDeposit    = "deposit"
	SavingsTypeWithdrawal = "withdrawal"
)

// SavingsTransaction is one entry in a student's append-only savings ledger.
// Entries are ordered by (transaction_date, entry_seq); balance_after of the latest
// entry is the student's current balance.
type SavingsTransaction struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	EntrySeq          int64           `json:"entry_seq" db:"entry_seq"`
	TransactionNumber string          `json:"transaction_number" db:"transaction_number"`
	StudentID         uuid.UUID       `json:"student_id" db:"student_id"`
	Type              string          `json:"type" db:"type"`
	Amount            decimal.Decimal `json:"amount" db:"amount"`
	BalanceBefore     decimal.Decimal `json:"balance_before" db:"balance_before"`
	BalanceAfter      decimal.Decimal `json:"balance_after" db:"balance_after"`
	TransactionDate   time.Time       `json:"transaction_date" db:"transaction_date"`
	Description       string          `json:"description" db:"description"`
	CreatedBy         string          `json:"created_by" db:"created_by"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// SignedAmount returns the amount with the sign implied by the type.
func (t *SavingsTransaction) SignedAmount() decimal.Decimal {
	if t.Type == SavingsTypeWithdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// DTOs for requests and responses

type RecordSavingsRequest struct {
	StudentID       uuid.UUID       `json:"student_id" validate:"required"`
	Type            string          `json:"type" validate:"required,oneof=deposit withdrawal"`
	Amount          decimal.Decimal `json:"amount" validate:"required,decimal_gt=0"`
	TransactionDate time.Time       `json:"transaction_date" validate:"required"`
	Description     string          `json:"description"`
	CreatedBy       string          `json:"created_by" validate:"required"`
}

type UpdateSavingsRequest struct {
	Type            string          `json:"type" validate:"required,oneof=deposit withdrawal"`
	Amount          decimal.Decimal `json:"amount" validate:"required,decimal_gt=0"`
	TransactionDate time.Time       `json:"transaction_date" validate:"required"`
	Description     string          `json:"description"`
}

type BalanceResponse struct {
	StudentID uuid.UUID       `json:"student_id"`
	Balance   decimal.Decimal `json:"balance"`
}
