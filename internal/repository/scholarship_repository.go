package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
)

type scholarshipRepository struct {
	db *sqlx.DB
}

func NewScholarshipRepository(db *sqlx.DB) ScholarshipRepository {
	return &scholarshipRepository{db: db}
}

func (r *scholarshipRepository) Create(ctx context.Context, scholarship *domain.Scholarship) error {
	query := `
		INSERT INTO scholarships (id, student_id, name, type, discount_percentage, discount_amount, start_date, end_date, status, academic_year_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		scholarship.ID,
		scholarship.StudentID,
		scholarship.Name,
		scholarship.Type,
		scholarship.DiscountPercentage,
		scholarship.DiscountAmount,
		scholarship.StartDate,
		scholarship.EndDate,
		scholarship.Status,
		scholarship.AcademicYearID,
		scholarship.CreatedAt,
		scholarship.UpdatedAt,
	)

	return err
}

func (r *scholarshipRepository) Update(ctx context.Context, scholarship *domain.Scholarship) error {
	query := `
		UPDATE scholarships
		SET name = $2, type = $3, discount_percentage = $4, discount_amount = $5, start_date = $6, end_date = $7, status = $8, academic_year_id = $9, updated_at = $10
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		scholarship.ID,
		scholarship.Name,
		scholarship.Type,
		scholarship.DiscountPercentage,
		scholarship.DiscountAmount,
		scholarship.StartDate,
		scholarship.EndDate,
		scholarship.Status,
		scholarship.AcademicYearID,
		time.Now(),
	)

	return err
}

func (r *scholarshipRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Scholarship, error) {
	query := `
		SELECT id, student_id, name, type, discount_percentage, discount_amount, start_date, end_date, status, academic_year_id, created_at, updated_at
		FROM scholarships
		WHERE id = $1
	`

	var scholarship domain.Scholarship
	err := r.db.GetContext(ctx, &scholarship, query, id)
	if err != nil {
		return nil, err
	}

	return &scholarship, nil
}

func (r *scholarshipRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Scholarship, error) {
	query := `
		SELECT id, student_id, name, type, discount_percentage, discount_amount, start_date, end_date, status, academic_year_id, created_at, updated_at
		FROM scholarships
		WHERE student_id = $1
		ORDER BY start_date
	`

	var scholarships []*domain.Scholarship
	err := r.db.SelectContext(ctx, &scholarships, query, studentID)
	if err != nil {
		return nil, err
	}

	return scholarships, nil
}

func (r *scholarshipRepository) GetActiveForStudent(ctx context.Context, studentID uuid.UUID, at time.Time) (*domain.Scholarship, error) {
	query := `
		SELECT id, student_id, name, type, discount_percentage, discount_amount, start_date, end_date, status, academic_year_id, created_at, updated_at
		FROM scholarships
		WHERE student_id = $1 AND status = $2 AND start_date <= $3 AND end_date >= $3
		ORDER BY start_date DESC
		LIMIT 1
	`

	var scholarship domain.Scholarship
	err := r.db.GetContext(ctx, &scholarship, query, studentID, domain.ScholarshipStatusActive, at)
	if err != nil {
		return nil, err
	}

	return &scholarship, nil
}

func (r *scholarshipRepository) RefreshStatuses(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE scholarships
		SET status = CASE
			WHEN end_date < $1 THEN 'expired'
			WHEN start_date > $1 THEN 'inactive'
			ELSE 'active'
		END,
		updated_at = $1
		WHERE status <> CASE
			WHEN end_date < $1 THEN 'expired'
			WHEN start_date > $1 THEN 'inactive'
			ELSE 'active'
		END
	`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *scholarshipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM scholarships WHERE id = $1`, id)
	return err
}
