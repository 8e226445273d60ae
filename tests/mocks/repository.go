package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/events"
)

// MockTxManager runs the transactional function immediately with a nil
// transaction, so service logic can be unit tested without a database.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentRepository) LockStudent(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

type MockAcademicYearRepository struct {
	mock.Mock
}

func (m *MockAcademicYearRepository) Create(ctx context.Context, year *domain.AcademicYear) error {
	args := m.Called(ctx, year)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AcademicYear, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) GetActive(ctx context.Context) (*domain.AcademicYear, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) List(ctx context.Context) ([]*domain.AcademicYear, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AcademicYear), args.Error(1)
}

func (m *MockAcademicYearRepository) SetActiveExclusive(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAcademicYearRepository) CountActiveExcept(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockAcademicYearRepository) CountReferences(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

type MockTuitionRepository struct {
	mock.Mock
}

func (m *MockTuitionRepository) CreateSetting(ctx context.Context, setting *domain.SppSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockTuitionRepository) GetSetting(ctx context.Context, academicYearID uuid.UUID, gradeLevel int) (*domain.SppSetting, error) {
	args := m.Called(ctx, academicYearID, gradeLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SppSetting), args.Error(1)
}

func (m *MockTuitionRepository) ListSettings(ctx context.Context, academicYearID uuid.UUID) ([]*domain.SppSetting, error) {
	args := m.Called(ctx, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SppSetting), args.Error(1)
}

func (m *MockTuitionRepository) CreatePayment(ctx context.Context, tx *sqlx.Tx, payment *domain.SppPayment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockTuitionRepository) UpdatePayment(ctx context.Context, tx *sqlx.Tx, payment *domain.SppPayment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockTuitionRepository) DeletePayment(ctx context.Context, tx *sqlx.Tx, paymentID uuid.UUID) error {
	args := m.Called(ctx, tx, paymentID)
	return args.Error(0)
}

func (m *MockTuitionRepository) GetPaymentByID(ctx context.Context, paymentID uuid.UUID) (*domain.SppPayment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SppPayment), args.Error(1)
}

func (m *MockTuitionRepository) ListPayments(ctx context.Context, studentID, academicYearID uuid.UUID) ([]*domain.SppPayment, error) {
	args := m.Called(ctx, studentID, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SppPayment), args.Error(1)
}

func (m *MockTuitionRepository) GetPaidMonths(ctx context.Context, tx *sqlx.Tx, studentID, academicYearID uuid.UUID) ([]*domain.SppPaymentDetail, error) {
	args := m.Called(ctx, tx, studentID, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SppPaymentDetail), args.Error(1)
}

func (m *MockTuitionRepository) GetLatestPayment(ctx context.Context, tx *sqlx.Tx, studentID, academicYearID uuid.UUID) (*domain.SppPayment, error) {
	args := m.Called(ctx, tx, studentID, academicYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SppPayment), args.Error(1)
}

type MockSavingsRepository struct {
	mock.Mock
}

func (m *MockSavingsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingsTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsTransaction), args.Error(1)
}

func (m *MockSavingsRepository) GetLatest(ctx context.Context, tx *sqlx.Tx, studentID uuid.UUID) (*domain.SavingsTransaction, error) {
	args := m.Called(ctx, tx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsTransaction), args.Error(1)
}

func (m *MockSavingsRepository) GetPreceding(ctx context.Context, tx *sqlx.Tx, studentID, excludeID uuid.UUID) (*domain.SavingsTransaction, error) {
	args := m.Called(ctx, tx, studentID, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsTransaction), args.Error(1)
}

func (m *MockSavingsRepository) List(ctx context.Context, studentID uuid.UUID) ([]*domain.SavingsTransaction, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SavingsTransaction), args.Error(1)
}

func (m *MockSavingsRepository) Create(ctx context.Context, tx *sqlx.Tx, transaction *domain.SavingsTransaction) error {
	args := m.Called(ctx, tx, transaction)
	return args.Error(0)
}

func (m *MockSavingsRepository) Update(ctx context.Context, tx *sqlx.Tx, transaction *domain.SavingsTransaction) error {
	args := m.Called(ctx, tx, transaction)
	return args.Error(0)
}

func (m *MockSavingsRepository) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

type MockScholarshipRepository struct {
	mock.Mock
}

func (m *MockScholarshipRepository) Create(ctx context.Context, scholarship *domain.Scholarship) error {
	args := m.Called(ctx, scholarship)
	return args.Error(0)
}

func (m *MockScholarshipRepository) Update(ctx context.Context, scholarship *domain.Scholarship) error {
	args := m.Called(ctx, scholarship)
	return args.Error(0)
}

func (m *MockScholarshipRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Scholarship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scholarship), args.Error(1)
}

func (m *MockScholarshipRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Scholarship, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Scholarship), args.Error(1)
}

func (m *MockScholarshipRepository) GetActiveForStudent(ctx context.Context, studentID uuid.UUID, at time.Time) (*domain.Scholarship, error) {
	args := m.Called(ctx, studentID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scholarship), args.Error(1)
}

func (m *MockScholarshipRepository) RefreshStatuses(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockScholarshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) Next(ctx context.Context, tx *sqlx.Tx, kind string, year int) (int64, error) {
	args := m.Called(ctx, tx, kind, year)
	return args.Get(0).(int64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event *events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
