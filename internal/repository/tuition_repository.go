package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
)

type tuitionRepository struct {
	db *sqlx.DB
}

func NewTuitionRepository(db *sqlx.DB) TuitionRepository {
	return &tuitionRepository{db: db}
}

func (r *tuitionRepository) CreateSetting(ctx context.Context, setting *domain.SppSetting) error {
	query := `
		INSERT INTO spp_settings (id, academic_year_id, grade_level, monthly_amount, due_day, late_fee_type, late_fee_amount, late_fee_start_day, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		setting.ID,
		setting.AcademicYearID,
		setting.GradeLevel,
		setting.MonthlyAmount,
		setting.DueDay,
		setting.LateFeeType,
		setting.LateFeeAmount,
		setting.LateFeeStartDay,
		setting.CreatedAt,
		setting.UpdatedAt,
	)

	return err
}

func (r *tuitionRepository) GetSetting(ctx context.Context, academicYearID uuid.UUID, gradeLevel int) (*domain.SppSetting, error) {
	query := `
		SELECT id, academic_year_id, grade_level, monthly_amount, due_day, late_fee_type, late_fee_amount, late_fee_start_day, created_at, updated_at
		FROM spp_settings
		WHERE academic_year_id = $1 AND grade_level = $2
	`

	var setting domain.SppSetting
	err := r.db.GetContext(ctx, &setting, query, academicYearID, gradeLevel)
	if err != nil {
		return nil, err
	}

	return &setting, nil
}

func (r *tuitionRepository) ListSettings(ctx context.Context, academicYearID uuid.UUID) ([]*domain.SppSetting, error) {
	query := `
		SELECT id, academic_year_id, grade_level, monthly_amount, due_day, late_fee_type, late_fee_amount, late_fee_start_day, created_at, updated_at
		FROM spp_settings
		WHERE academic_year_id = $1
		ORDER BY grade_level
	`

	var settings []*domain.SppSetting
	err := r.db.SelectContext(ctx, &settings, query, academicYearID)
	if err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *tuitionRepository) CreatePayment(ctx context.Context, tx *sqlx.Tx, payment *domain.SppPayment) error {
	query := `
		INSERT INTO spp_payments (id, receipt_number, student_id, academic_year_id, payment_date, subtotal, discount, late_fee, total_amount, payment_method, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := tx.ExecContext(ctx, query,
		payment.ID,
		payment.ReceiptNumber,
		payment.StudentID,
		payment.AcademicYearID,
		payment.PaymentDate,
		payment.Subtotal,
		payment.Discount,
		payment.LateFee,
		payment.TotalAmount,
		payment.PaymentMethod,
		payment.CreatedBy,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return r.insertDetails(ctx, tx, payment)
}

func (r *tuitionRepository) insertDetails(ctx context.Context, tx *sqlx.Tx, payment *domain.SppPayment) error {
	query := `
		INSERT INTO spp_payment_details (id, payment_id, month, year, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, detail := range payment.Details {
		_, err := tx.ExecContext(ctx, query,
			detail.ID,
			detail.PaymentID,
			detail.Month,
			detail.Year,
			detail.Amount,
			detail.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *tuitionRepository) UpdatePayment(ctx context.Context, tx *sqlx.Tx, payment *domain.SppPayment) error {
	query := `
		UPDATE spp_payments
		SET payment_date = $2, subtotal = $3, discount = $4, late_fee = $5, total_amount = $6, payment_method = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := tx.ExecContext(ctx, query,
		payment.ID,
		payment.PaymentDate,
		payment.Subtotal,
		payment.Discount,
		payment.LateFee,
		payment.TotalAmount,
		payment.PaymentMethod,
		time.Now(),
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM spp_payment_details WHERE payment_id = $1`, payment.ID); err != nil {
		return err
	}

	return r.insertDetails(ctx, tx, payment)
}

func (r *tuitionRepository) DeletePayment(ctx context.Context, tx *sqlx.Tx, paymentID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM spp_payments WHERE id = $1`, paymentID)
	return err
}

func (r *tuitionRepository) GetPaymentByID(ctx context.Context, paymentID uuid.UUID) (*domain.SppPayment, error) {
	query := `
		SELECT id, receipt_number, student_id, academic_year_id, payment_date, subtotal, discount, late_fee, total_amount, payment_method, created_by, created_at, updated_at
		FROM spp_payments
		WHERE id = $1
	`

	var payment domain.SppPayment
	if err := r.db.GetContext(ctx, &payment, query, paymentID); err != nil {
		return nil, err
	}

	detailQuery := `
		SELECT id, payment_id, month, year, amount, created_at
		FROM spp_payment_details
		WHERE payment_id = $1
		ORDER BY year, month
	`

	if err := r.db.SelectContext(ctx, &payment.Details, detailQuery, paymentID); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *tuitionRepository) ListPayments(ctx context.Context, studentID, academicYearID uuid.UUID) ([]*domain.SppPayment, error) {
	query := `
		SELECT id, receipt_number, student_id, academic_year_id, payment_date, subtotal, discount, late_fee, total_amount, payment_method, created_by, created_at, updated_at
		FROM spp_payments
		WHERE student_id = $1 AND academic_year_id = $2
		ORDER BY created_at
	`

	var payments []*domain.SppPayment
	err := r.db.SelectContext(ctx, &payments, query, studentID, academicYearID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *tuitionRepository) GetPaidMonths(ctx context.Context, tx *sqlx.Tx, studentID, academicYearID uuid.UUID) ([]*domain.SppPaymentDetail, error) {
	query := `
		SELECT d.id, d.payment_id, d.month, d.year, d.amount, d.created_at
		FROM spp_payment_details d
		JOIN spp_payments p ON p.id = d.payment_id
		WHERE p.student_id = $1 AND p.academic_year_id = $2
		ORDER BY d.year, d.month
	`

	var details []*domain.SppPaymentDetail
	err := sqlx.SelectContext(ctx, r.queryer(tx), &details, query, studentID, academicYearID)
	if err != nil {
		return nil, err
	}

	return details, nil
}

func (r *tuitionRepository) GetLatestPayment(ctx context.Context, tx *sqlx.Tx, studentID, academicYearID uuid.UUID) (*domain.SppPayment, error) {
	query := `
		SELECT id, receipt_number, student_id, academic_year_id, payment_date, subtotal, discount, late_fee, total_amount, payment_method, created_by, created_at, updated_at
		FROM spp_payments
		WHERE student_id = $1 AND academic_year_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var payment domain.SppPayment
	err := sqlx.GetContext(ctx, r.queryer(tx), &payment, query, studentID, academicYearID)
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *tuitionRepository) queryer(tx *sqlx.Tx) sqlx.QueryerContext {
	if tx != nil {
		return tx
	}
	return r.db
}
