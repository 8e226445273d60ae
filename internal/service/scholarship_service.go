package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/repository"
	customError "github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/errors"
)

// ScholarshipService manages scholarship grants and computes tuition discounts.
// Status is never stored by hand: it is re-derived from the date range on every
// save and refreshed in bulk by the scheduler.
type ScholarshipService struct {
	ScholarshipRepo repository.ScholarshipRepository
	StudentRepo     repository.StudentRepository
}

func NewScholarshipService(
	scholarshipRepo repository.ScholarshipRepository,
	studentRepo repository.StudentRepository,
) *ScholarshipService {
	return &ScholarshipService{
		ScholarshipRepo: scholarshipRepo,
		StudentRepo:     studentRepo,
	}
}

func buildScholarship(request *domain.CreateScholarshipRequest, now time.Time) (*domain.Scholarship, error) {
	scholarship := &domain.Scholarship{
		ID:        uuid.New(),
		StudentID: request.StudentID,
		Name:      request.Name,
		Type:      request.Type,
		StartDate: request.StartDate,
		EndDate:   request.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if request.Type == domain.ScholarshipTypePartial {
		hasPercentage := request.DiscountPercentage != nil
		hasAmount := request.DiscountAmount != nil
		if hasPercentage == hasAmount {
			return nil, customError.WrapValidationError(
				errors.New("partial scholarship requires exactly one of discount_percentage or discount_amount"))
		}
		if hasPercentage {
			if request.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
				return nil, customError.WrapValidationError(errors.New("discount_percentage must not exceed 100"))
			}
			scholarship.DiscountPercentage = decimal.NullDecimal{Decimal: *request.DiscountPercentage, Valid: true}
		} else {
			scholarship.DiscountAmount = decimal.NullDecimal{Decimal: *request.DiscountAmount, Valid: true}
		}
	}

	if request.AcademicYearID != nil {
		scholarship.AcademicYearID = uuid.NullUUID{UUID: *request.AcademicYearID, Valid: true}
	}

	scholarship.Status = scholarship.DeriveStatus(now)
	return scholarship, nil
}

// checkOverlap rejects a scholarship whose date range intersects a same-name,
// not-yet-expired scholarship of the same student.
func (s *ScholarshipService) checkOverlap(ctx context.Context, scholarship *domain.Scholarship, excludeID uuid.UUID) error {
	existing, err := s.ScholarshipRepo.ListByStudent(ctx, scholarship.StudentID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}

	for _, other := range existing {
		if other.ID == excludeID || other.Status == domain.ScholarshipStatusExpired {
			continue
		}
		if scholarship.Overlaps(other) {
			return customError.WrapOverlappingScholarship(scholarship.Name)
		}
	}
	return nil
}

// Create validates and stores a scholarship grant.
func (s *ScholarshipService) Create(ctx context.Context, request *domain.CreateScholarshipRequest) (*domain.Scholarship, error) {
	if _, err := s.StudentRepo.GetByID(ctx, request.StudentID); errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapStudentNotFound(request.StudentID.String())
	} else if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	scholarship, err := buildScholarship(request, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, scholarship, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.ScholarshipRepo.Create(ctx, scholarship); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return scholarship, nil
}

// Update replaces a scholarship's terms, re-deriving status and re-checking
// overlaps with the scholarship's own row excluded.
func (s *ScholarshipService) Update(ctx context.Context, scholarshipID uuid.UUID, request *domain.CreateScholarshipRequest) (*domain.Scholarship, error) {
	current, err := s.ScholarshipRepo.GetByID(ctx, scholarshipID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapScholarshipNotFound(scholarshipID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	updated, err := buildScholarship(request, time.Now())
	if err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt

	if err := s.checkOverlap(ctx, updated, current.ID); err != nil {
		return nil, err
	}

	if err := s.ScholarshipRepo.Update(ctx, updated); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return updated, nil
}

// GetByID retrieves a scholarship.
func (s *ScholarshipService) GetByID(ctx context.Context, scholarshipID uuid.UUID) (*domain.Scholarship, error) {
	scholarship, err := s.ScholarshipRepo.GetByID(ctx, scholarshipID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapScholarshipNotFound(scholarshipID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return scholarship, nil
}

// ListByStudent retrieves every scholarship of a student.
func (s *ScholarshipService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Scholarship, error) {
	scholarships, err := s.ScholarshipRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return scholarships, nil
}

// ActiveForStudent returns the scholarship covering the date, or nil when the
// student has none.
func (s *ScholarshipService) ActiveForStudent(ctx context.Context, studentID uuid.UUID, at time.Time) (*domain.Scholarship, error) {
	scholarship, err := s.ScholarshipRepo.GetActiveForStudent(ctx, studentID, at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return scholarship, nil
}

// ComputeDiscount returns the discount the student's active scholarship grants
// on a gross tuition amount, zero when no scholarship applies.
func (s *ScholarshipService) ComputeDiscount(ctx context.Context, studentID uuid.UUID, gross decimal.Decimal, at time.Time) (decimal.Decimal, *domain.Scholarship, error) {
	scholarship, err := s.ActiveForStudent(ctx, studentID, at)
	if err != nil {
		return decimal.Zero, nil, err
	}
	if scholarship == nil {
		return decimal.Zero, nil, nil
	}
	return scholarship.Discount(gross), scholarship, nil
}

// RefreshStatuses re-derives every scholarship status from its dates.
func (s *ScholarshipService) RefreshStatuses(ctx context.Context, now time.Time) (int64, error) {
	changed, err := s.ScholarshipRepo.RefreshStatuses(ctx, now)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}
	return changed, nil
}

// Delete removes a scholarship grant.
func (s *ScholarshipService) Delete(ctx context.Context, scholarshipID uuid.UUID) error {
	if _, err := s.GetByID(ctx, scholarshipID); err != nil {
		return err
	}
	if err := s.ScholarshipRepo.Delete(ctx, scholarshipID); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}
