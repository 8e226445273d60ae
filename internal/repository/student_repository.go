package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	query := `
		SELECT id, nis, name, grade_level, class_name, is_active, created_at, updated_at
		FROM students
		WHERE id = $1
	`

	var student domain.Student
	err := r.db.GetContext(ctx, &student, query, id)
	if err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *studentRepository) LockStudent(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	query := `
		SELECT id
		FROM students
		WHERE id = $1
		FOR UPDATE
	`

	var locked uuid.UUID
	return tx.GetContext(ctx, &locked, query, id)
}
