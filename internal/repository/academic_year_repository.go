package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
)

type academicYearRepository struct {
	db *sqlx.DB
}

func NewAcademicYearRepository(db *sqlx.DB) AcademicYearRepository {
	return &academicYearRepository{db: db}
}

func (r *academicYearRepository) Create(ctx context.Context, year *domain.AcademicYear) error {
	query := `
		INSERT INTO academic_years (id, name, start_date, end_date, start_month, end_month, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		year.ID,
		year.Name,
		year.StartDate,
		year.EndDate,
		year.StartMonth,
		year.EndMonth,
		year.IsActive,
		year.CreatedAt,
		year.UpdatedAt,
	)

	return err
}

func (r *academicYearRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AcademicYear, error) {
	query := `
		SELECT id, name, start_date, end_date, start_month, end_month, is_active, created_at, updated_at
		FROM academic_years
		WHERE id = $1
	`

	var year domain.AcademicYear
	err := r.db.GetContext(ctx, &year, query, id)
	if err != nil {
		return nil, err
	}

	return &year, nil
}

func (r *academicYearRepository) GetActive(ctx context.Context) (*domain.AcademicYear, error) {
	query := `
		SELECT id, name, start_date, end_date, start_month, end_month, is_active, created_at, updated_at
		FROM academic_years
		WHERE is_active = true
	`

	var year domain.AcademicYear
	err := r.db.GetContext(ctx, &year, query)
	if err != nil {
		return nil, err
	}

	return &year, nil
}

func (r *academicYearRepository) List(ctx context.Context) ([]*domain.AcademicYear, error) {
	query := `
		SELECT id, name, start_date, end_date, start_month, end_month, is_active, created_at, updated_at
		FROM academic_years
		ORDER BY start_date DESC
	`

	var years []*domain.AcademicYear
	err := r.db.SelectContext(ctx, &years, query)
	if err != nil {
		return nil, err
	}

	return years, nil
}

func (r *academicYearRepository) SetActiveExclusive(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	// Deactivating all rows first keeps the single-active invariant inside
	// one transaction.
	if _, err := tx.ExecContext(ctx,
		`UPDATE academic_years SET is_active = false, updated_at = $1 WHERE is_active = true`,
		time.Now(),
	); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx,
		`UPDATE academic_years SET is_active = true, updated_at = $2 WHERE id = $1`,
		id, time.Now(),
	)
	return err
}

func (r *academicYearRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE academic_years SET is_active = false, updated_at = $2 WHERE id = $1`,
		id, time.Now(),
	)
	return err
}

func (r *academicYearRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM academic_years WHERE id = $1`, id)
	return err
}

func (r *academicYearRepository) CountActiveExcept(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM academic_years
		WHERE is_active = true AND id <> $1
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, id)
	return count, err
}

func (r *academicYearRepository) CountReferences(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM spp_settings
		WHERE academic_year_id = $1
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, id)
	return count, err
}
