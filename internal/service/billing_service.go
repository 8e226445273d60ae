package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/config"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/events"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/repository"
	customError "github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/errors"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/utils"
)

const counterKindSpp = "spp"

// BillingService validates and records tuition payments. Months must be paid
// in chronological order within an academic year; amounts are validated
// exactly, never corrected.
type BillingService struct {
	StudentRepo repository.StudentRepository
	YearRepo    repository.AcademicYearRepository
	TuitionRepo repository.TuitionRepository
	CounterRepo repository.CounterRepository
	txm         repository.TxManager
	publisher   events.Publisher
	config      *config.Config
}

func NewBillingService(
	studentRepo repository.StudentRepository,
	yearRepo repository.AcademicYearRepository,
	tuitionRepo repository.TuitionRepository,
	counterRepo repository.CounterRepository,
	txm repository.TxManager,
	publisher events.Publisher,
	config *config.Config,
) *BillingService {
	return &BillingService{
		StudentRepo: studentRepo,
		YearRepo:    yearRepo,
		TuitionRepo: tuitionRepo,
		CounterRepo: counterRepo,
		txm:         txm,
		publisher:   publisher,
		config:      config,
	}
}

// resolveYear returns the academic year by id, or the active year when id is nil.
func (s *BillingService) resolveYear(ctx context.Context, academicYearID uuid.UUID) (*domain.AcademicYear, error) {
	if academicYearID == uuid.Nil {
		year, err := s.YearRepo.GetActive(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapAcademicYearNotFound("active")
		}
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		return year, nil
	}

	year, err := s.YearRepo.GetByID(ctx, academicYearID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapAcademicYearNotFound(academicYearID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return year, nil
}

// CreateSetting stores the tuition rate for a grade level in an academic year.
// The late-fee start day must fall after the due day so the fee-free window is
// well defined.
func (s *BillingService) CreateSetting(ctx context.Context, request *domain.CreateSppSettingRequest) (*domain.SppSetting, error) {
	if _, err := s.YearRepo.GetByID(ctx, request.AcademicYearID); errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapAcademicYearNotFound(request.AcademicYearID.String())
	} else if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if request.LateFeeType != domain.LateFeeTypeNone {
		if !request.LateFeeAmount.IsPositive() {
			return nil, customError.WrapValidationError(errors.New("late_fee_amount must be greater than 0"))
		}
		if request.LateFeeStartDay <= request.DueDay {
			return nil, customError.WrapValidationError(errors.New("late_fee_start_day must be after due_day"))
		}
	}

	now := time.Now()
	setting := &domain.SppSetting{
		ID:              uuid.New(),
		AcademicYearID:  request.AcademicYearID,
		GradeLevel:      request.GradeLevel,
		MonthlyAmount:   request.MonthlyAmount,
		DueDay:          request.DueDay,
		LateFeeType:     request.LateFeeType,
		LateFeeAmount:   request.LateFeeAmount,
		LateFeeStartDay: request.LateFeeStartDay,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.TuitionRepo.CreateSetting(ctx, setting); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return setting, nil
}

// ListSettings retrieves the tuition rates of an academic year.
func (s *BillingService) ListSettings(ctx context.Context, academicYearID uuid.UUID) ([]*domain.SppSetting, error) {
	year, err := s.resolveYear(ctx, academicYearID)
	if err != nil {
		return nil, err
	}

	settings, err := s.TuitionRepo.ListSettings(ctx, year.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return settings, nil
}

// UnpaidMonths lists the academic months the student still owes, in
// chronological order, with the monthly rate and a late-fee projection for a
// payment made today.
func (s *BillingService) UnpaidMonths(ctx context.Context, studentID, academicYearID uuid.UUID) (*domain.UnpaidMonthsResponse, error) {
	student, err := s.StudentRepo.GetByID(ctx, studentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapStudentNotFound(studentID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	year, err := s.resolveYear(ctx, academicYearID)
	if err != nil {
		return nil, err
	}

	setting, err := s.TuitionRepo.GetSetting(ctx, year.ID, student.GradeLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapSppSettingNotFound(student.GradeLevel, year.ID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	paid, err := s.TuitionRepo.GetPaidMonths(ctx, nil, student.ID, year.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	paidSet := make(map[int]bool, len(paid))
	for _, detail := range paid {
		if idx := year.MonthIndex(detail.Month, detail.Year); idx >= 0 {
			paidSet[idx] = true
		}
	}

	today := time.Now()
	response := &domain.UnpaidMonthsResponse{
		StudentID:      student.ID,
		AcademicYearID: year.ID,
		Months:         make([]*domain.UnpaidMonth, 0),
	}
	for idx, month := range year.Months() {
		if paidSet[idx] {
			continue
		}
		response.Months = append(response.Months, &domain.UnpaidMonth{
			Month:            month.Month,
			Year:             month.Year,
			MonthName:        month.Name,
			Amount:           setting.MonthlyAmount,
			DueDay:           setting.DueDay,
			ProjectedLateFee: projectedLateFee(setting, month, today),
		})
	}

	return response, nil
}

// projectedLateFee estimates the fee for paying the month today: full fee for
// months already past, the day-based fee for the current month, zero for
// future months.
func projectedLateFee(setting *domain.SppSetting, month domain.AcademicMonth, today time.Time) decimal.Decimal {
	switch {
	case month.Year > today.Year() || (month.Year == today.Year() && month.Month > int(today.Month())):
		return decimal.Zero
	case month.Year == today.Year() && month.Month == int(today.Month()):
		return setting.LateFeeFor(today.Day())
	default:
		return setting.LateFeeFor(setting.LateFeeStartDay)
	}
}

// validatePayment runs the conflict, sequencing and arithmetic checks for a
// proposed set of months. Details belonging to excludePaymentID are ignored in
// the paid history (used by the update path).
func validatePayment(
	year *domain.AcademicYear,
	paid []*domain.SppPaymentDetail,
	excludePaymentID uuid.UUID,
	details []domain.PaymentDetailRequest,
	subtotal, discount, lateFee, totalAmount decimal.Decimal,
) error {
	months := year.Months()

	union := make(map[int]bool)
	paidSet := make(map[int]bool)
	for _, detail := range paid {
		if detail.PaymentID == excludePaymentID {
			continue
		}
		if idx := year.MonthIndex(detail.Month, detail.Year); idx >= 0 {
			paidSet[idx] = true
			union[idx] = true
		}
	}

	// 1. Conflict check: no requested month may already be paid (or repeated).
	maxIdx := -1
	for _, detail := range details {
		idx := year.MonthIndex(detail.Month, detail.Year)
		if idx < 0 {
			return customError.WrapMonthOutsideYear(detail.Month, detail.Year)
		}
		if paidSet[idx] || union[idx] {
			return customError.WrapMonthAlreadyPaid(months[idx].Name, months[idx].Year)
		}
		union[idx] = true
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	// 2. Sequencing check: the union of paid and requested months must have no
	// gap before its highest month.
	for idx := 0; idx <= maxIdx; idx++ {
		if !union[idx] {
			return customError.WrapSequenceGap(months[idx].Name, months[idx].Year)
		}
	}

	// 3. Arithmetic check: exact equality, no tolerance.
	detailSum := decimal.Zero
	for _, detail := range details {
		detailSum = detailSum.Add(detail.Amount)
	}
	if !subtotal.Equal(detailSum) {
		return customError.WrapSubtotalMismatch(detailSum, subtotal)
	}

	expectedTotal := utils.ExpectedTotal(subtotal, discount, lateFee)
	if !totalAmount.Equal(expectedTotal) {
		return customError.WrapTotalMismatch(expectedTotal, totalAmount)
	}

	return nil
}

// RecordPayment validates a payment request against the paid-month history and
// persists the payment with its detail rows atomically.
func (s *BillingService) RecordPayment(ctx context.Context, request *domain.RecordPaymentRequest) (*domain.SppPayment, error) {
	student, err := s.StudentRepo.GetByID(ctx, request.StudentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapStudentNotFound(request.StudentID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	year, err := s.resolveYear(ctx, uuid.Nil)
	if err != nil {
		return nil, err
	}

	if _, err := s.TuitionRepo.GetSetting(ctx, year.ID, student.GradeLevel); errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapSppSettingNotFound(student.GradeLevel, year.ID.String())
	} else if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := time.Now()
	payment := &domain.SppPayment{
		ID:             uuid.New(),
		StudentID:      student.ID,
		AcademicYearID: year.ID,
		PaymentDate:    request.PaymentDate,
		Subtotal:       request.Subtotal,
		Discount:       request.Discount,
		LateFee:        request.LateFee,
		TotalAmount:    request.TotalAmount,
		PaymentMethod:  request.PaymentMethod,
		CreatedBy:      request.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, detail := range request.Details {
		payment.Details = append(payment.Details, &domain.SppPaymentDetail{
			ID:        uuid.New(),
			PaymentID: payment.ID,
			Month:     detail.Month,
			Year:      detail.Year,
			Amount:    detail.Amount,
			CreatedAt: now,
		})
	}

	err = s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.StudentRepo.LockStudent(ctx, tx, student.ID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		paid, err := s.TuitionRepo.GetPaidMonths(ctx, tx, student.ID, year.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := validatePayment(year, paid, uuid.Nil, request.Details,
			request.Subtotal, request.Discount, request.LateFee, request.TotalAmount); err != nil {
			return err
		}

		sequence, err := s.CounterRepo.Next(ctx, tx, counterKindSpp, request.PaymentDate.Year())
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		payment.ReceiptNumber = utils.FormatTransactionNumber(
			s.config.Business.SppReceiptPrefix, request.PaymentDate.Year(), sequence)

		if err := s.TuitionRepo.CreatePayment(ctx, tx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.TypePaymentRecorded,
		payment.StudentID, payment.ID, payment.ReceiptNumber, payment.TotalAmount.String()))

	return payment, nil
}

// UpdatePayment replaces the months and amounts of the most recently created
// payment after re-running every validation with the payment's own months
// excluded from the paid history. Earlier payments are immutable.
func (s *BillingService) UpdatePayment(ctx context.Context, paymentID uuid.UUID, request *domain.UpdatePaymentRequest) (*domain.SppPayment, error) {
	payment, err := s.TuitionRepo.GetPaymentByID(ctx, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapPaymentNotFound(paymentID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	year, err := s.YearRepo.GetByID(ctx, payment.AcademicYearID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	err = s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.StudentRepo.LockStudent(ctx, tx, payment.StudentID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		latest, err := s.TuitionRepo.GetLatestPayment(ctx, tx, payment.StudentID, payment.AcademicYearID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if latest.ID != payment.ID {
			return customError.WrapNotLastEntry("payment")
		}

		paid, err := s.TuitionRepo.GetPaidMonths(ctx, tx, payment.StudentID, payment.AcademicYearID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := validatePayment(year, paid, payment.ID, request.Details,
			request.Subtotal, request.Discount, request.LateFee, request.TotalAmount); err != nil {
			return err
		}

		now := time.Now()
		payment.PaymentDate = request.PaymentDate
		payment.Subtotal = request.Subtotal
		payment.Discount = request.Discount
		payment.LateFee = request.LateFee
		payment.TotalAmount = request.TotalAmount
		payment.PaymentMethod = request.PaymentMethod
		payment.UpdatedAt = now
		payment.Details = payment.Details[:0]
		for _, detail := range request.Details {
			payment.Details = append(payment.Details, &domain.SppPaymentDetail{
				ID:        uuid.New(),
				PaymentID: payment.ID,
				Month:     detail.Month,
				Year:      detail.Year,
				Amount:    detail.Amount,
				CreatedAt: now,
			})
		}

		if err := s.TuitionRepo.UpdatePayment(ctx, tx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.TypePaymentUpdated,
		payment.StudentID, payment.ID, payment.ReceiptNumber, payment.TotalAmount.String()))

	return payment, nil
}

// DeletePayment removes the most recently created payment and its detail rows.
func (s *BillingService) DeletePayment(ctx context.Context, paymentID uuid.UUID) error {
	payment, err := s.TuitionRepo.GetPaymentByID(ctx, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapPaymentNotFound(paymentID.String())
	}
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	err = s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.StudentRepo.LockStudent(ctx, tx, payment.StudentID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		latest, err := s.TuitionRepo.GetLatestPayment(ctx, tx, payment.StudentID, payment.AcademicYearID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if latest.ID != payment.ID {
			return customError.WrapNotLastEntry("payment")
		}

		if err := s.TuitionRepo.DeletePayment(ctx, tx, payment.ID); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.NewEvent(events.TypePaymentDeleted,
		payment.StudentID, payment.ID, payment.ReceiptNumber, payment.TotalAmount.String()))

	return nil
}

// GetPayment retrieves a payment with its detail rows.
func (s *BillingService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*domain.SppPayment, error) {
	payment, err := s.TuitionRepo.GetPaymentByID(ctx, paymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapPaymentNotFound(paymentID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return payment, nil
}

// ListPayments retrieves a student's payments for an academic year (the active
// year when academicYearID is nil).
func (s *BillingService) ListPayments(ctx context.Context, studentID, academicYearID uuid.UUID) ([]*domain.SppPayment, error) {
	year, err := s.resolveYear(ctx, academicYearID)
	if err != nil {
		return nil, err
	}

	payments, err := s.TuitionRepo.ListPayments(ctx, studentID, year.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return payments, nil
}

func (s *BillingService) publish(ctx context.Context, event *events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.Printf("publish %s event: %v", event.Type, err)
	}
}
