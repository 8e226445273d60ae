package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LateFeeTypeNone       = ""
	LateFeeTypeFixed      = "fixed"
	LateFeeTypePercentage = "percentage"
)

const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
)

// SppSetting is the monthly tuition rate for one grade level in one academic
// year, including the optional late-fee policy.
type SppSetting struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	AcademicYearID  uuid.UUID       `json:"academic_year_id" db:"academic_year_id"`
	GradeLevel      int             `json:"grade_level" db:"grade_level"`
	MonthlyAmount   decimal.Decimal `json:"monthly_amount" db:"monthly_amount"`
	DueDay          int             `json:"due_day" db:"due_day"`
	LateFeeType     string          `json:"late_fee_type" db:"late_fee_type"`
	LateFeeAmount   decimal.Decimal `json:"late_fee_amount" db:"late_fee_amount"`
	LateFeeStartDay int             `json:"late_fee_start_day" db:"late_fee_start_day"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// LateFeeFor computes the late fee owed when paying on the given day of month.
// No fee accrues on or before the due day, and none in the window before the
// configured start day; from the start day on, the fee is the fixed amount or
// the configured percentage of the monthly rate.
func (s *SppSetting) LateFeeFor(paymentDay int) decimal.Decimal {
	if s.LateFeeType == LateFeeTypeNone || paymentDay <= s.DueDay {
		return decimal.Zero
	}
	if paymentDay < s.LateFeeStartDay {
		return decimal.Zero
	}
	if s.LateFeeType == LateFeeTypePercentage {
		return s.MonthlyAmount.Mul(s.LateFeeAmount).Div(decimal.NewFromInt(100)).Round(2)
	}
	return s.LateFeeAmount
}

// SppPayment is a tuition payment receipt covering one or more months.
type SppPayment struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	ReceiptNumber  string          `json:"receipt_number" db:"receipt_number"`
	StudentID      uuid.UUID       `json:"student_id" db:"student_id"`
	AcademicYearID uuid.UUID       `json:"academic_year_id" db:"academic_year_id"`
	PaymentDate    time.Time       `json:"payment_date" db:"payment_date"`
	Subtotal       decimal.Decimal `json:"subtotal" db:"subtotal"`
	Discount       decimal.Decimal `json:"discount" db:"discount"`
	LateFee        decimal.Decimal `json:"late_fee" db:"late_fee"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentMethod  string          `json:"payment_method" db:"payment_method"`
	CreatedBy      string          `json:"created_by" db:"created_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`

	Details []*SppPaymentDetail `json:"details,omitempty" db:"-"`
}

// SppPaymentDetail is one billed month inside a payment.
type SppPaymentDetail struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	PaymentID uuid.UUID       `json:"payment_id" db:"payment_id"`
	Month     int             `json:"month" db:"month"`
	Year      int             `json:"year" db:"year"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CreateSppSettingRequest struct {
	AcademicYearID  uuid.UUID       `json:"academic_year_id" validate:"required"`
	GradeLevel      int             `json:"grade_level" validate:"required,min=1"`
	MonthlyAmount   decimal.Decimal `json:"monthly_amount" validate:"required,decimal_gt=0"`
	DueDay          int             `json:"due_day" validate:"required,min=1,max=31"`
	LateFeeType     string          `json:"late_fee_type" validate:"omitempty,oneof=fixed percentage"`
	LateFeeAmount   decimal.Decimal `json:"late_fee_amount" validate:"decimal_gte=0"`
	LateFeeStartDay int             `json:"late_fee_start_day" validate:"min=0,max=31"`
}

type PaymentDetailRequest struct {
	Month  int             `json:"month" validate:"required,min=1,max=12"`
	Year   int             `json:"year" validate:"required,min=2000"`
	Amount decimal.Decimal `json:"amount" validate:"required,decimal_gt=0"`
}

type RecordPaymentRequest struct {
	StudentID     uuid.UUID              `json:"student_id" validate:"required"`
	PaymentDate   time.Time              `json:"payment_date" validate:"required"`
	Details       []PaymentDetailRequest `json:"details" validate:"required,min=1,dive"`
	Subtotal      decimal.Decimal        `json:"subtotal" validate:"required,decimal_gt=0"`
	Discount      decimal.Decimal        `json:"discount" validate:"decimal_gte=0"`
	LateFee       decimal.Decimal        `json:"late_fee" validate:"decimal_gte=0"`
	TotalAmount   decimal.Decimal        `json:"total_amount" validate:"decimal_gte=0"`
	PaymentMethod string                 `json:"payment_method" validate:"required,oneof=cash transfer"`
	CreatedBy     string                 `json:"created_by" validate:"required"`
}

type UpdatePaymentRequest struct {
	PaymentDate   time.Time              `json:"payment_date" validate:"required"`
	Details       []PaymentDetailRequest `json:"details" validate:"required,min=1,dive"`
	Subtotal      decimal.Decimal        `json:"subtotal" validate:"required,decimal_gt=0"`
	Discount      decimal.Decimal        `json:"discount" validate:"decimal_gte=0"`
	LateFee       decimal.Decimal        `json:"late_fee" validate:"decimal_gte=0"`
	TotalAmount   decimal.Decimal        `json:"total_amount" validate:"decimal_gte=0"`
	PaymentMethod string                 `json:"payment_method" validate:"required,oneof=cash transfer"`
}

// UnpaidMonth is one still-unpaid academic month with its billing terms.
type UnpaidMonth struct {
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	MonthName        string          `json:"month_name"`
	Amount           decimal.Decimal `json:"amount"`
	DueDay           int             `json:"due_day"`
	ProjectedLateFee decimal.Decimal `json:"projected_late_fee"`
}

type UnpaidMonthsResponse struct {
	StudentID      uuid.UUID      `json:"student_id"`
	AcademicYearID uuid.UUID      `json:"academic_year_id"`
	Months         []*UnpaidMonth `json:"months"`
}
