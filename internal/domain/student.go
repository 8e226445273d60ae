package domain

import (
	"time"

	"github.com/google/uuid"
)

// Student is the billing/ledger aggregate root. Enrollment management lives
// elsewhere; here the student is looked up, never mutated.
type Student struct {
	ID         uuid.UUID `json:"id" db:"id"`
	NIS        string    `json:"nis" db:"nis"`
	Name       string    `json:"name" db:"name"`
	GradeLevel int       `json:"grade_level" db:"grade_level"`
	ClassName  string    `json:"class_name" db:"class_name"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// StudentSummary aggregates a student's financial standing.
type StudentSummary struct {
	Student           *Student              `json:"student"`
	Balance           *BalanceResponse      `json:"savings"`
	UnpaidMonths      *UnpaidMonthsResponse `json:"unpaid_months"`
	ActiveScholarship *Scholarship          `json:"active_scholarship,omitempty"`
}
