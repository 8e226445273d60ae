package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
)

// TxManager runs a function inside a database transaction. The transaction is
// rolled back when the function returns an error, committed otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// StudentRepository defines the interface for student lookups
type StudentRepository interface {
	// GetByID retrieves a student by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)

	// LockStudent takes a row lock on the student for the duration of the
	// transaction, serializing billing and ledger mutations per student
	LockStudent(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

// AcademicYearRepository defines the interface for academic year data operations
type AcademicYearRepository interface {
	Create(ctx context.Context, year *domain.AcademicYear) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.AcademicYear, error)

	// GetActive retrieves the single active academic year
	GetActive(ctx context.Context) (*domain.AcademicYear, error)

	List(ctx context.Context) ([]*domain.AcademicYear, error)

	// SetActiveExclusive deactivates every other year and activates the given
	// one inside the supplied transaction
	SetActiveExclusive(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error

	Deactivate(ctx context.Context, id uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error

	// CountActiveExcept counts active years other than the given one
	CountActiveExcept(ctx context.Context, id uuid.UUID) (int, error)

	// CountReferences counts tuition settings referencing the year
	CountReferences(ctx context.Context, id uuid.UUID) (int, error)
}

// TuitionRepository defines the interface for SPP settings and payments
type TuitionRepository interface {
	CreateSetting(ctx context.Context, setting *domain.SppSetting) error

	// GetSetting retrieves the tuition rate for a grade level in a year
	GetSetting(ctx context.Context, academicYearID uuid.UUID, gradeLevel int) (*domain.SppSetting, error)

	ListSettings(ctx context.Context, academicYearID uuid.UUID) ([]*domain.SppSetting, error)

	// CreatePayment inserts a payment and its detail rows
	CreatePayment(ctx context.Context, tx *sqlx.Tx, payment *domain.SppPayment) error

	// UpdatePayment updates the payment row and replaces its detail rows
	UpdatePayment(ctx context.Context, tx *sqlx.Tx, payment *domain.SppPayment) error

	// DeletePayment removes a payment; detail rows cascade
	DeletePayment(ctx context.Context, tx *sqlx.Tx, paymentID uuid.UUID) error

	// GetPaymentByID retrieves a payment with its details
	GetPaymentByID(ctx context.Context, paymentID uuid.UUID) (*domain.SppPayment, error)

	ListPayments(ctx context.Context, studentID, academicYearID uuid.UUID) ([]*domain.SppPayment, error)

	// GetPaidMonths retrieves every detail row for the student and year,
	// ordered by (year, month). A nil tx reads through the pool.
	GetPaidMonths(ctx context.Context, tx *sqlx.Tx, studentID, academicYearID uuid.UUID) ([]*domain.SppPaymentDetail, error)

	// GetLatestPayment retrieves the most recently created payment for the
	// student and year. A nil tx reads through the pool.
	GetLatestPayment(ctx context.Context, tx *sqlx.Tx, studentID, academicYearID uuid.UUID) (*domain.SppPayment, error)
}

// SavingsRepository defines the interface for the savings ledger
type SavingsRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsTransaction, error)

	// GetLatest retrieves the ledger tail: the entry with the greatest
	// (transaction_date, entry_seq) for the student. A nil tx reads
	// through the pool.
	GetLatest(ctx context.Context, tx *sqlx.Tx, studentID uuid.UUID) (*domain.SavingsTransaction, error)

	// GetPreceding retrieves the latest entry for the student excluding
	// the given row, i.e. the tail's predecessor when excludeID is the
	// tail. A nil tx reads through the pool.
	GetPreceding(ctx context.Context, tx *sqlx.Tx, studentID, excludeID uuid.UUID) (*domain.SavingsTransaction, error)

	// List retrieves the student's ledger ordered by (transaction_date, entry_seq)
	List(ctx context.Context, studentID uuid.UUID) ([]*domain.SavingsTransaction, error)

	Create(ctx context.Context, tx *sqlx.Tx, transaction *domain.SavingsTransaction) error

	Update(ctx context.Context, tx *sqlx.Tx, transaction *domain.SavingsTransaction) error

	Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
}

// ScholarshipRepository defines the interface for scholarship data operations
type ScholarshipRepository interface {
	Create(ctx context.Context, scholarship *domain.Scholarship) error

	Update(ctx context.Context, scholarship *domain.Scholarship) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Scholarship, error)

	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Scholarship, error)

	// GetActiveForStudent retrieves the active scholarship covering the date
	GetActiveForStudent(ctx context.Context, studentID uuid.UUID, at time.Time) (*domain.Scholarship, error)

	// RefreshStatuses re-derives every scholarship status from its date range
	// and returns the number of rows that changed
	RefreshStatuses(ctx context.Context, now time.Time) (int64, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

// CounterRepository issues gap-free receipt sequence numbers
type CounterRepository interface {
	// Next atomically increments and returns the counter for (kind, year).
	// Must run inside the same transaction as the write it numbers.
	Next(ctx context.Context, tx *sqlx.Tx, kind string, year int) (int64, error)
}
