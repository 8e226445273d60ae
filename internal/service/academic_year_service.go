package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/repository"
	customError "github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/errors"
)

// AcademicYearService manages academic year lifecycle. At most one year is
// active system-wide; activation atomically deactivates all others.
type AcademicYearService struct {
	YearRepo repository.AcademicYearRepository
	txm      repository.TxManager
}

func NewAcademicYearService(yearRepo repository.AcademicYearRepository, txm repository.TxManager) *AcademicYearService {
	return &AcademicYearService{
		YearRepo: yearRepo,
		txm:      txm,
	}
}

// Create stores a new, initially inactive academic year.
func (s *AcademicYearService) Create(ctx context.Context, request *domain.CreateAcademicYearRequest) (*domain.AcademicYear, error) {
	if !request.StartDate.Before(request.EndDate) {
		return nil, customError.WrapValidationError(errors.New("start_date must be before end_date"))
	}

	now := time.Now()
	year := &domain.AcademicYear{
		ID:         uuid.New(),
		Name:       request.Name,
		StartDate:  request.StartDate,
		EndDate:    request.EndDate,
		StartMonth: request.StartMonth,
		EndMonth:   request.EndMonth,
		IsActive:   false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.YearRepo.Create(ctx, year); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return year, nil
}

// GetByID retrieves an academic year.
func (s *AcademicYearService) GetByID(ctx context.Context, yearID uuid.UUID) (*domain.AcademicYear, error) {
	year, err := s.YearRepo.GetByID(ctx, yearID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapAcademicYearNotFound(yearID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return year, nil
}

// GetActive retrieves the single active academic year.
func (s *AcademicYearService) GetActive(ctx context.Context) (*domain.AcademicYear, error) {
	year, err := s.YearRepo.GetActive(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapAcademicYearNotFound("active")
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return year, nil
}

// List retrieves all academic years, newest first.
func (s *AcademicYearService) List(ctx context.Context) ([]*domain.AcademicYear, error) {
	years, err := s.YearRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return years, nil
}

// Activate makes the year the single active one, deactivating every other year
// in the same transaction.
func (s *AcademicYearService) Activate(ctx context.Context, yearID uuid.UUID) (*domain.AcademicYear, error) {
	year, err := s.GetByID(ctx, yearID)
	if err != nil {
		return nil, err
	}

	err = s.txm.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.YearRepo.SetActiveExclusive(ctx, tx, year.ID); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	year.IsActive = true
	return year, nil
}

// Deactivate turns the year off, refusing when it is the only active year.
func (s *AcademicYearService) Deactivate(ctx context.Context, yearID uuid.UUID) error {
	year, err := s.GetByID(ctx, yearID)
	if err != nil {
		return err
	}

	if year.IsActive {
		others, err := s.YearRepo.CountActiveExcept(ctx, year.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if others == 0 {
			return customError.WrapLastActiveYear(year.ID.String())
		}
	}

	if err := s.YearRepo.Deactivate(ctx, year.ID); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// Delete removes an academic year, refusing when it is the sole active year or
// is referenced by tuition settings.
func (s *AcademicYearService) Delete(ctx context.Context, yearID uuid.UUID) error {
	year, err := s.GetByID(ctx, yearID)
	if err != nil {
		return err
	}

	if year.IsActive {
		others, err := s.YearRepo.CountActiveExcept(ctx, year.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if others == 0 {
			return customError.WrapLastActiveYear(year.ID.String())
		}
	}

	references, err := s.YearRepo.CountReferences(ctx, year.ID)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if references > 0 {
		return customError.WrapAcademicYearInUse(year.ID.String())
	}

	if err := s.YearRepo.Delete(ctx, year.ID); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}
