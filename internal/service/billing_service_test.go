package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/config"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	customError "github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/errors"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/tests/mocks"
)

type billingMocks struct {
	studentRepo *mocks.MockStudentRepository
	yearRepo    *mocks.MockAcademicYearRepository
	tuitionRepo *mocks.MockTuitionRepository
	counterRepo *mocks.MockCounterRepository
	txm         *mocks.MockTxManager
}

func newBillingService() (*BillingService, *billingMocks) {
	m := &billingMocks{
		studentRepo: &mocks.MockStudentRepository{},
		yearRepo:    &mocks.MockAcademicYearRepository{},
		tuitionRepo: &mocks.MockTuitionRepository{},
		counterRepo: &mocks.MockCounterRepository{},
		txm:         &mocks.MockTxManager{},
	}
	cfg := &config.Config{
		Business: config.BusinessConfig{
			SppReceiptPrefix:     "SPP",
			SavingsReceiptPrefix: "TRX",
			BalanceCacheTTL:      "10m",
		},
	}
	service := NewBillingService(m.studentRepo, m.yearRepo, m.tuitionRepo, m.counterRepo, m.txm, nil, cfg)
	return service, m
}

func activeAcademicYear() *domain.AcademicYear {
	return &domain.AcademicYear{
		ID:         uuid.New(),
		Name:       "2024/2025",
		StartDate:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		StartMonth: 7,
		EndMonth:   6,
		IsActive:   true,
	}
}

func paidDetail(month, year int, amount int64) *domain.SppPaymentDetail {
	return &domain.SppPaymentDetail{
		ID:        uuid.New(),
		PaymentID: uuid.New(),
		Month:     month,
		Year:      year,
		Amount:    decimal.NewFromInt(amount),
	}
}

func TestRecordPayment(t *testing.T) {
	student := &domain.Student{ID: uuid.New(), NIS: "2024001", Name: "Budi Santoso", GradeLevel: 7}
	setting := &domain.SppSetting{
		MonthlyAmount: decimal.NewFromInt(150000),
		DueDay:        10,
	}

	tests := []struct {
		name           string
		request        *domain.RecordPaymentRequest
		paid           []*domain.SppPaymentDetail
		expectedError  bool
		errorCode      string
		expectCreate   bool
		validateResult func(*testing.T, *domain.SppPayment)
	}{
		{
			name: "Success - Pay first three months",
			request: &domain.RecordPaymentRequest{
				StudentID:   student.ID,
				PaymentDate: time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC),
				Details: []domain.PaymentDetailRequest{
					{Month: 7, Year: 2024, Amount: decimal.NewFromInt(150000)},
					{Month: 8, Year: 2024, Amount: decimal.NewFromInt(150000)},
					{Month: 9, Year: 2024, Amount: decimal.NewFromInt(150000)},
				},
				Subtotal:      decimal.NewFromInt(450000),
				Discount:      decimal.Zero,
				LateFee:       decimal.Zero,
				TotalAmount:   decimal.NewFromInt(450000),
				PaymentMethod: domain.PaymentMethodCash,
				CreatedBy:     "admin",
			},
			paid:         []*domain.SppPaymentDetail{},
			expectCreate: true,
			validateResult: func(t *testing.T, payment *domain.SppPayment) {
				assert.Equal(t, "SPP/2024/0001", payment.ReceiptNumber)
				assert.Len(t, payment.Details, 3)
				assert.True(t, payment.TotalAmount.Equal(decimal.NewFromInt(450000)))
			},
		},
		{
			name: "Failure - Total does not match the parts",
			request: &domain.RecordPaymentRequest{
				StudentID:   student.ID,
				PaymentDate: time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC),
				Details: []domain.PaymentDetailRequest{
					{Month: 7, Year: 2024, Amount: decimal.NewFromInt(150000)},
					{Month: 8, Year: 2024, Amount: decimal.NewFromInt(150000)},
					{Month: 9, Year: 2024, Amount: decimal.NewFromInt(150000)},
				},
				Subtotal:      decimal.NewFromInt(450000),
				Discount:      decimal.Zero,
				LateFee:       decimal.Zero,
				TotalAmount:   decimal.NewFromInt(460000),
				PaymentMethod: domain.PaymentMethodCash,
				CreatedBy:     "admin",
			},
			paid:          []*domain.SppPaymentDetail{},
			expectedError: true,
			errorCode:     customError.ErrCodeTotalMismatch,
		},
		{
			name: "Failure - Subtotal does not match detail sum",
			request: &domain.RecordPaymentRequest{
				StudentID:   student.ID,
				PaymentDate: time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC),
				Details: []domain.PaymentDetailRequest{
					{Month: 7, Year: 2024, Amount: decimal.NewFromInt(150000)},
				},
				Subtotal:      decimal.NewFromInt(300000),
				Discount:      decimal.Zero,
				LateFee:       decimal.Zero,
				TotalAmount:   decimal.NewFromInt(300000),
				PaymentMethod: domain.PaymentMethodCash,
				CreatedBy:     "admin",
			},
			paid:          []*domain.SppPaymentDetail{},
			expectedError: true,
			errorCode:     customError.ErrCodeSubtotalMismatch,
		},
		{
			name: "Failure - Skipping an unpaid month",
			request: &domain.RecordPaymentRequest{
				StudentID:   student.ID,
				PaymentDate: time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC),
				Details: []domain.PaymentDetailRequest{
					{Month: 10, Year: 2024, Amount: decimal.NewFromInt(150000)},
				},
				Subtotal:      decimal.NewFromInt(150000),
				Discount:      decimal.Zero,
				LateFee:       decimal.Zero,
				TotalAmount:   decimal.NewFromInt(150000),
				PaymentMethod: domain.PaymentMethodCash,
				CreatedBy:     "admin",
			},
			paid: []*domain.SppPaymentDetail{
				paidDetail(7, 2024, 150000),
				paidDetail(8, 2024, 150000),
			},
			expectedError: true,
			errorCode:     customError.ErrCodeSequenceGap,
		},
		{
			name: "Failure - Month already paid",
			request: &domain.RecordPaymentRequest{
				StudentID:   student.ID,
				PaymentDate: time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC),
				Details: []domain.PaymentDetailRequest{
					{Month: 7, Year: 2024, Amount: decimal.NewFromInt(150000)},
				},
				Subtotal:      decimal.NewFromInt(150000),
				Discount:      decimal.Zero,
				LateFee:       decimal.Zero,
				TotalAmount:   decimal.NewFromInt(150000),
				PaymentMethod: domain.PaymentMethodCash,
				CreatedBy:     "admin",
			},
			paid: []*domain.SppPaymentDetail{
				paidDetail(7, 2024, 150000),
			},
			expectedError: true,
			errorCode:     customError.ErrCodeMonthAlreadyPaid,
		},
		{
			name: "Failure - Month outside the academic year",
			request: &domain.RecordPaymentRequest{
				StudentID:   student.ID,
				PaymentDate: time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC),
				Details: []domain.PaymentDetailRequest{
					{Month: 7, Year: 2025, Amount: decimal.NewFromInt(150000)},
				},
				Subtotal:      decimal.NewFromInt(150000),
				Discount:      decimal.Zero,
				LateFee:       decimal.Zero,
				TotalAmount:   decimal.NewFromInt(150000),
				PaymentMethod: domain.PaymentMethodCash,
				CreatedBy:     "admin",
			},
			paid:          []*domain.SppPaymentDetail{},
			expectedError: true,
			errorCode:     customError.ErrCodeMonthOutsideYear,
		},
		{
			name: "Success - Full scholarship pays zero",
			request: &domain.RecordPaymentRequest{
				StudentID:   student.ID,
				PaymentDate: time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC),
				Details: []domain.PaymentDetailRequest{
					{Month: 7, Year: 2024, Amount: decimal.NewFromInt(150000)},
				},
				Subtotal:      decimal.NewFromInt(150000),
				Discount:      decimal.NewFromInt(150000),
				LateFee:       decimal.Zero,
				TotalAmount:   decimal.Zero,
				PaymentMethod: domain.PaymentMethodCash,
				CreatedBy:     "admin",
			},
			paid:         []*domain.SppPaymentDetail{},
			expectCreate: true,
			validateResult: func(t *testing.T, payment *domain.SppPayment) {
				assert.True(t, payment.TotalAmount.IsZero())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newBillingService()
			year := activeAcademicYear()

			m.studentRepo.On("GetByID", mock.Anything, student.ID).Return(student, nil)
			m.yearRepo.On("GetActive", mock.Anything).Return(year, nil)
			m.tuitionRepo.On("GetSetting", mock.Anything, year.ID, student.GradeLevel).Return(setting, nil)
			m.txm.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
			m.studentRepo.On("LockStudent", mock.Anything, mock.Anything, student.ID).Return(nil)
			m.tuitionRepo.On("GetPaidMonths", mock.Anything, mock.Anything, student.ID, year.ID).Return(tt.paid, nil)
			if tt.expectCreate {
				m.counterRepo.On("Next", mock.Anything, mock.Anything, "spp", tt.request.PaymentDate.Year()).Return(int64(1), nil)
				m.tuitionRepo.On("CreatePayment", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			}

			payment, err := service.RecordPayment(context.Background(), tt.request)

			if tt.expectedError {
				assert.Error(t, err)
				var businessErr *customError.BusinessError
				assert.True(t, errors.As(err, &businessErr))
				assert.Equal(t, tt.errorCode, businessErr.Code)
				assert.Nil(t, payment)
				m.tuitionRepo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				if tt.validateResult != nil {
					tt.validateResult(t, payment)
				}
				m.tuitionRepo.AssertCalled(t, "CreatePayment", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestValidatePaymentNamesFirstGapMonth(t *testing.T) {
	year := &domain.AcademicYear{
		ID:         uuid.New(),
		Name:       "2025",
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		StartMonth: 1,
		EndMonth:   12,
	}
	paid := []*domain.SppPaymentDetail{
		paidDetail(1, 2025, 150000),
		paidDetail(2, 2025, 150000),
	}
	details := []domain.PaymentDetailRequest{
		{Month: 4, Year: 2025, Amount: decimal.NewFromInt(150000)},
	}

	err := validatePayment(year, paid, uuid.Nil, details,
		decimal.NewFromInt(150000), decimal.Zero, decimal.Zero, decimal.NewFromInt(150000))

	var businessErr *customError.BusinessError
	assert.True(t, errors.As(err, &businessErr))
	assert.Equal(t, customError.ErrCodeSequenceGap, businessErr.Code)
	assert.Contains(t, businessErr.Message, "Maret 2025")
}

func TestRecordPaymentStudentNotFound(t *testing.T) {
	service, m := newBillingService()
	studentID := uuid.New()
	m.studentRepo.On("GetByID", mock.Anything, studentID).Return(nil, sql.ErrNoRows)

	payment, err := service.RecordPayment(context.Background(), &domain.RecordPaymentRequest{StudentID: studentID})

	assert.Nil(t, payment)
	var businessErr *customError.BusinessError
	assert.True(t, errors.As(err, &businessErr))
	assert.Equal(t, customError.ErrCodeStudentNotFound, businessErr.Code)
}

func TestUpdatePayment(t *testing.T) {
	student := &domain.Student{ID: uuid.New(), GradeLevel: 7}

	tests := []struct {
		name          string
		latestID      func(paymentID uuid.UUID) uuid.UUID
		expectedError bool
		errorCode     string
	}{
		{
			name:     "Success - Update the most recent payment",
			latestID: func(paymentID uuid.UUID) uuid.UUID { return paymentID },
		},
		{
			name:          "Failure - Payment is not the most recent",
			latestID:      func(uuid.UUID) uuid.UUID { return uuid.New() },
			expectedError: true,
			errorCode:     customError.ErrCodeNotLastEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newBillingService()
			year := activeAcademicYear()
			payment := &domain.SppPayment{
				ID:             uuid.New(),
				ReceiptNumber:  "SPP/2024/0001",
				StudentID:      student.ID,
				AcademicYearID: year.ID,
				Subtotal:       decimal.NewFromInt(150000),
				TotalAmount:    decimal.NewFromInt(150000),
				Details: []*domain.SppPaymentDetail{
					{Month: 7, Year: 2024, Amount: decimal.NewFromInt(150000)},
				},
			}
			request := &domain.UpdatePaymentRequest{
				PaymentDate: time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC),
				Details: []domain.PaymentDetailRequest{
					{Month: 7, Year: 2024, Amount: decimal.NewFromInt(150000)},
					{Month: 8, Year: 2024, Amount: decimal.NewFromInt(150000)},
				},
				Subtotal:      decimal.NewFromInt(300000),
				Discount:      decimal.Zero,
				LateFee:       decimal.Zero,
				TotalAmount:   decimal.NewFromInt(300000),
				PaymentMethod: domain.PaymentMethodTransfer,
			}

			m.tuitionRepo.On("GetPaymentByID", mock.Anything, payment.ID).Return(payment, nil)
			m.yearRepo.On("GetByID", mock.Anything, year.ID).Return(year, nil)
			m.txm.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
			m.studentRepo.On("LockStudent", mock.Anything, mock.Anything, student.ID).Return(nil)
			m.tuitionRepo.On("GetLatestPayment", mock.Anything, mock.Anything, student.ID, year.ID).
				Return(&domain.SppPayment{ID: tt.latestID(payment.ID)}, nil)
			m.tuitionRepo.On("GetPaidMonths", mock.Anything, mock.Anything, student.ID, year.ID).Return([]*domain.SppPaymentDetail{
				{PaymentID: payment.ID, Month: 7, Year: 2024, Amount: decimal.NewFromInt(150000)},
			}, nil)
			m.tuitionRepo.On("UpdatePayment", mock.Anything, mock.Anything, mock.Anything).Return(nil)

			updated, err := service.UpdatePayment(context.Background(), payment.ID, request)

			if tt.expectedError {
				assert.Error(t, err)
				var businessErr *customError.BusinessError
				assert.True(t, errors.As(err, &businessErr))
				assert.Equal(t, tt.errorCode, businessErr.Code)
				m.tuitionRepo.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Len(t, updated.Details, 2)
				assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(300000)))
				assert.Equal(t, domain.PaymentMethodTransfer, updated.PaymentMethod)
			}
		})
	}
}

func TestDeletePayment(t *testing.T) {
	tests := []struct {
		name          string
		latestID      func(paymentID uuid.UUID) uuid.UUID
		expectedError bool
		errorCode     string
	}{
		{
			name:     "Success - Delete the most recent payment",
			latestID: func(paymentID uuid.UUID) uuid.UUID { return paymentID },
		},
		{
			name:          "Failure - Payment is not the most recent",
			latestID:      func(uuid.UUID) uuid.UUID { return uuid.New() },
			expectedError: true,
			errorCode:     customError.ErrCodeNotLastEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newBillingService()
			payment := &domain.SppPayment{
				ID:             uuid.New(),
				StudentID:      uuid.New(),
				AcademicYearID: uuid.New(),
				TotalAmount:    decimal.NewFromInt(150000),
			}

			m.tuitionRepo.On("GetPaymentByID", mock.Anything, payment.ID).Return(payment, nil)
			m.txm.On("WithinTx", mock.Anything, mock.Anything).Return(nil)
			m.studentRepo.On("LockStudent", mock.Anything, mock.Anything, payment.StudentID).Return(nil)
			m.tuitionRepo.On("GetLatestPayment", mock.Anything, mock.Anything, payment.StudentID, payment.AcademicYearID).
				Return(&domain.SppPayment{ID: tt.latestID(payment.ID)}, nil)
			m.tuitionRepo.On("DeletePayment", mock.Anything, mock.Anything, payment.ID).Return(nil)

			err := service.DeletePayment(context.Background(), payment.ID)

			if tt.expectedError {
				assert.Error(t, err)
				var businessErr *customError.BusinessError
				assert.True(t, errors.As(err, &businessErr))
				assert.Equal(t, tt.errorCode, businessErr.Code)
				m.tuitionRepo.AssertNotCalled(t, "DeletePayment", mock.Anything, mock.Anything, payment.ID)
			} else {
				assert.NoError(t, err)
				m.tuitionRepo.AssertCalled(t, "DeletePayment", mock.Anything, mock.Anything, payment.ID)
			}
		})
	}
}

func TestUnpaidMonths(t *testing.T) {
	service, m := newBillingService()
	year := activeAcademicYear()
	student := &domain.Student{ID: uuid.New(), GradeLevel: 8}
	setting := &domain.SppSetting{
		MonthlyAmount: decimal.NewFromInt(150000),
		DueDay:        10,
		LateFeeType:   domain.LateFeeTypeNone,
	}

	m.studentRepo.On("GetByID", mock.Anything, student.ID).Return(student, nil)
	m.yearRepo.On("GetActive", mock.Anything).Return(year, nil)
	m.tuitionRepo.On("GetSetting", mock.Anything, year.ID, student.GradeLevel).Return(setting, nil)
	m.tuitionRepo.On("GetPaidMonths", mock.Anything, mock.Anything, student.ID, year.ID).Return([]*domain.SppPaymentDetail{
		paidDetail(7, 2024, 150000),
		paidDetail(8, 2024, 150000),
	}, nil)

	response, err := service.UnpaidMonths(context.Background(), student.ID, uuid.Nil)

	assert.NoError(t, err)
	assert.Len(t, response.Months, 10)
	assert.Equal(t, 9, response.Months[0].Month)
	assert.Equal(t, 2024, response.Months[0].Year)
	assert.Equal(t, "September", response.Months[0].MonthName)
	assert.Equal(t, 6, response.Months[9].Month)
	assert.Equal(t, 2025, response.Months[9].Year)
	for _, month := range response.Months {
		assert.True(t, month.Amount.Equal(setting.MonthlyAmount))
		assert.True(t, month.ProjectedLateFee.IsZero())
	}
}

func TestCreateSetting(t *testing.T) {
	tests := []struct {
		name          string
		request       *domain.CreateSppSettingRequest
		expectedError bool
		errorCode     string
	}{
		{
			name: "Success - Fixed late fee",
			request: &domain.CreateSppSettingRequest{
				GradeLevel:      7,
				MonthlyAmount:   decimal.NewFromInt(150000),
				DueDay:          10,
				LateFeeType:     domain.LateFeeTypeFixed,
				LateFeeAmount:   decimal.NewFromInt(10000),
				LateFeeStartDay: 15,
			},
		},
		{
			name: "Failure - Late fee window starts before the due day",
			request: &domain.CreateSppSettingRequest{
				GradeLevel:      7,
				MonthlyAmount:   decimal.NewFromInt(150000),
				DueDay:          10,
				LateFeeType:     domain.LateFeeTypeFixed,
				LateFeeAmount:   decimal.NewFromInt(10000),
				LateFeeStartDay: 10,
			},
			expectedError: true,
			errorCode:     customError.ErrCodeValidationError,
		},
		{
			name: "Failure - Late fee amount is zero",
			request: &domain.CreateSppSettingRequest{
				GradeLevel:      7,
				MonthlyAmount:   decimal.NewFromInt(150000),
				DueDay:          10,
				LateFeeType:     domain.LateFeeTypePercentage,
				LateFeeAmount:   decimal.Zero,
				LateFeeStartDay: 15,
			},
			expectedError: true,
			errorCode:     customError.ErrCodeValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newBillingService()
			year := activeAcademicYear()
			tt.request.AcademicYearID = year.ID

			m.yearRepo.On("GetByID", mock.Anything, year.ID).Return(year, nil)
			m.tuitionRepo.On("CreateSetting", mock.Anything, mock.Anything).Return(nil)

			setting, err := service.CreateSetting(context.Background(), tt.request)

			if tt.expectedError {
				assert.Error(t, err)
				var businessErr *customError.BusinessError
				assert.True(t, errors.As(err, &businessErr))
				assert.Equal(t, tt.errorCode, businessErr.Code)
				assert.Nil(t, setting)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, year.ID, setting.AcademicYearID)
				assert.NotEqual(t, uuid.Nil, setting.ID)
			}
		})
	}
}
