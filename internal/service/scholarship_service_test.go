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

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	customError "github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/errors"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/tests/mocks"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestCreateScholarship(t *testing.T) {
	student := &domain.Student{ID: uuid.New(), Name: "Andi Wijaya"}
	start := time.Now().AddDate(0, -1, 0)
	end := time.Now().AddDate(0, 5, 0)

	tests := []struct {
		name           string
		request        *domain.CreateScholarshipRequest
		existing       []*domain.Scholarship
		expectedError  bool
		errorCode      string
		validateResult func(*testing.T, *domain.Scholarship)
	}{
		{
			name: "Success - Full scholarship",
			request: &domain.CreateScholarshipRequest{
				StudentID: student.ID,
				Name:      "Yatim Piatu",
				Type:      domain.ScholarshipTypeFull,
				StartDate: start,
				EndDate:   end,
			},
			existing: []*domain.Scholarship{},
			validateResult: func(t *testing.T, scholarship *domain.Scholarship) {
				assert.Equal(t, domain.ScholarshipStatusActive, scholarship.Status)
				assert.False(t, scholarship.DiscountAmount.Valid)
				assert.False(t, scholarship.DiscountPercentage.Valid)
			},
		},
		{
			name: "Success - Partial scholarship with percentage",
			request: &domain.CreateScholarshipRequest{
				StudentID:          student.ID,
				Name:               "Prestasi",
				Type:               domain.ScholarshipTypePartial,
				DiscountPercentage: decimalPtr(decimal.NewFromInt(50)),
				StartDate:          start,
				EndDate:            end,
			},
			existing: []*domain.Scholarship{},
			validateResult: func(t *testing.T, scholarship *domain.Scholarship) {
				assert.True(t, scholarship.DiscountPercentage.Valid)
				assert.True(t, scholarship.DiscountPercentage.Decimal.Equal(decimal.NewFromInt(50)))
			},
		},
		{
			name: "Failure - Partial scholarship without a discount",
			request: &domain.CreateScholarshipRequest{
				StudentID: student.ID,
				Name:      "Prestasi",
				Type:      domain.ScholarshipTypePartial,
				StartDate: start,
				EndDate:   end,
			},
			existing:      []*domain.Scholarship{},
			expectedError: true,
			errorCode:     customError.ErrCodeValidationError,
		},
		{
			name: "Failure - Partial scholarship with both discounts",
			request: &domain.CreateScholarshipRequest{
				StudentID:          student.ID,
				Name:               "Prestasi",
				Type:               domain.ScholarshipTypePartial,
				DiscountPercentage: decimalPtr(decimal.NewFromInt(50)),
				DiscountAmount:     decimalPtr(decimal.NewFromInt(50000)),
				StartDate:          start,
				EndDate:            end,
			},
			existing:      []*domain.Scholarship{},
			expectedError: true,
			errorCode:     customError.ErrCodeValidationError,
		},
		{
			name: "Failure - Percentage above 100",
			request: &domain.CreateScholarshipRequest{
				StudentID:          student.ID,
				Name:               "Prestasi",
				Type:               domain.ScholarshipTypePartial,
				DiscountPercentage: decimalPtr(decimal.NewFromInt(150)),
				StartDate:          start,
				EndDate:            end,
			},
			existing:      []*domain.Scholarship{},
			expectedError: true,
			errorCode:     customError.ErrCodeValidationError,
		},
		{
			name: "Failure - Overlapping same-name scholarship",
			request: &domain.CreateScholarshipRequest{
				StudentID: student.ID,
				Name:      "Prestasi",
				Type:      domain.ScholarshipTypeFull,
				StartDate: start,
				EndDate:   end,
			},
			existing: []*domain.Scholarship{
				{
					ID:        uuid.New(),
					StudentID: student.ID,
					Name:      "Prestasi",
					Status:    domain.ScholarshipStatusActive,
					StartDate: start.AddDate(0, 0, -10),
					EndDate:   start.AddDate(0, 1, 0),
				},
			},
			expectedError: true,
			errorCode:     customError.ErrCodeOverlappingScholarship,
		},
		{
			name: "Success - Expired scholarship does not block a new grant",
			request: &domain.CreateScholarshipRequest{
				StudentID: student.ID,
				Name:      "Prestasi",
				Type:      domain.ScholarshipTypeFull,
				StartDate: start,
				EndDate:   end,
			},
			existing: []*domain.Scholarship{
				{
					ID:        uuid.New(),
					StudentID: student.ID,
					Name:      "Prestasi",
					Status:    domain.ScholarshipStatusExpired,
					StartDate: start.AddDate(0, 0, -10),
					EndDate:   start.AddDate(0, 1, 0),
				},
			},
			validateResult: func(t *testing.T, scholarship *domain.Scholarship) {
				assert.Equal(t, "Prestasi", scholarship.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scholarshipRepo := &mocks.MockScholarshipRepository{}
			studentRepo := &mocks.MockStudentRepository{}
			service := NewScholarshipService(scholarshipRepo, studentRepo)

			studentRepo.On("GetByID", mock.Anything, student.ID).Return(student, nil)
			scholarshipRepo.On("ListByStudent", mock.Anything, student.ID).Return(tt.existing, nil)
			scholarshipRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

			scholarship, err := service.Create(context.Background(), tt.request)

			if tt.expectedError {
				assert.Error(t, err)
				var businessErr *customError.BusinessError
				assert.True(t, errors.As(err, &businessErr))
				assert.Equal(t, tt.errorCode, businessErr.Code)
				assert.Nil(t, scholarship)
				scholarshipRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				if tt.validateResult != nil {
					tt.validateResult(t, scholarship)
				}
			}
		})
	}
}

func TestUpdateScholarshipExcludesOwnRow(t *testing.T) {
	student := &domain.Student{ID: uuid.New()}
	start := time.Now().AddDate(0, -1, 0)
	end := time.Now().AddDate(0, 5, 0)
	current := &domain.Scholarship{
		ID:        uuid.New(),
		StudentID: student.ID,
		Name:      "Prestasi",
		Type:      domain.ScholarshipTypeFull,
		Status:    domain.ScholarshipStatusActive,
		StartDate: start,
		EndDate:   end,
		CreatedAt: time.Now().AddDate(0, -2, 0),
	}

	scholarshipRepo := &mocks.MockScholarshipRepository{}
	studentRepo := &mocks.MockStudentRepository{}
	service := NewScholarshipService(scholarshipRepo, studentRepo)

	scholarshipRepo.On("GetByID", mock.Anything, current.ID).Return(current, nil)
	scholarshipRepo.On("ListByStudent", mock.Anything, student.ID).Return([]*domain.Scholarship{current}, nil)
	scholarshipRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := service.Update(context.Background(), current.ID, &domain.CreateScholarshipRequest{
		StudentID:      student.ID,
		Name:           "Prestasi",
		Type:           domain.ScholarshipTypePartial,
		DiscountAmount: decimalPtr(decimal.NewFromInt(75000)),
		StartDate:      start,
		EndDate:        end,
	})

	assert.NoError(t, err)
	assert.Equal(t, current.ID, updated.ID)
	assert.Equal(t, current.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.DiscountAmount.Valid)
}

func TestComputeDiscount(t *testing.T) {
	studentID := uuid.New()
	at := time.Now()
	gross := decimal.NewFromInt(450000)

	tests := []struct {
		name        string
		scholarship *domain.Scholarship
		expected    decimal.Decimal
	}{
		{
			name:        "No active scholarship",
			scholarship: nil,
			expected:    decimal.Zero,
		},
		{
			name:        "Full scholarship",
			scholarship: &domain.Scholarship{Type: domain.ScholarshipTypeFull},
			expected:    gross,
		},
		{
			name: "Partial percentage scholarship",
			scholarship: &domain.Scholarship{
				Type:               domain.ScholarshipTypePartial,
				DiscountPercentage: decimal.NewNullDecimal(decimal.NewFromInt(25)),
			},
			expected: decimal.NewFromInt(112500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scholarshipRepo := &mocks.MockScholarshipRepository{}
			studentRepo := &mocks.MockStudentRepository{}
			service := NewScholarshipService(scholarshipRepo, studentRepo)

			if tt.scholarship == nil {
				scholarshipRepo.On("GetActiveForStudent", mock.Anything, studentID, at).Return(nil, sql.ErrNoRows)
			} else {
				scholarshipRepo.On("GetActiveForStudent", mock.Anything, studentID, at).Return(tt.scholarship, nil)
			}

			discount, _, err := service.ComputeDiscount(context.Background(), studentID, gross, at)

			assert.NoError(t, err)
			assert.True(t, discount.Equal(tt.expected), "expected %s, got %s", tt.expected, discount)
		})
	}
}
