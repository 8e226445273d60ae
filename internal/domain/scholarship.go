package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ScholarshipTypeFull    = "full"
	ScholarshipTypePartial = "partial"
)

const (
	ScholarshipStatusActive   = "active"
	ScholarshipStatusInactive = "inactive"
	ScholarshipStatusExpired  = "expired"
)

// Scholarship is a tuition discount granted to a student for a date range.
// Partial scholarships carry either a fixed amount or a percentage, never both.
type Scholarship struct {
	ID                 uuid.UUID           `json:"id" db:"id"`
	StudentID          uuid.UUID           `json:"student_id" db:"student_id"`
	Name               string              `json:"name" db:"name"`
	Type               string              `json:"type" db:"type"`
	DiscountPercentage decimal.NullDecimal `json:"discount_percentage" db:"discount_percentage"`
	DiscountAmount     decimal.NullDecimal `json:"discount_amount" db:"discount_amount"`
	StartDate          time.Time           `json:"start_date" db:"start_date"`
	EndDate            time.Time           `json:"end_date" db:"end_date"`
	Status             string              `json:"status" db:"status"`
	AcademicYearID     uuid.NullUUID       `json:"academic_year_id" db:"academic_year_id"`
	CreatedAt          time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at" db:"updated_at"`
}

// Discount computes the discount for a gross tuition amount, capped at gross.
func (s *Scholarship) Discount(gross decimal.Decimal) decimal.Decimal {
	if s.Type == ScholarshipTypeFull {
		return gross
	}
	if s.DiscountAmount.Valid {
		if s.DiscountAmount.Decimal.GreaterThan(gross) {
			return gross
		}
		return s.DiscountAmount.Decimal
	}
	if s.DiscountPercentage.Valid {
		return gross.Mul(s.DiscountPercentage.Decimal).Div(decimal.NewFromInt(100)).Round(2)
	}
	return decimal.Zero
}

// DeriveStatus returns the status implied by the date range at the given time.
func (s *Scholarship) DeriveStatus(now time.Time) string {
	switch {
	case now.After(s.EndDate):
		return ScholarshipStatusExpired
	case now.Before(s.StartDate):
		return ScholarshipStatusInactive
	default:
		return ScholarshipStatusActive
	}
}

// CoversDate reports whether the scholarship applies on the given date.
func (s *Scholarship) CoversDate(at time.Time) bool {
	return s.Status == ScholarshipStatusActive && !at.Before(s.StartDate) && !at.After(s.EndDate)
}

// Overlaps reports whether two same-name scholarships for one student have
// intersecting date ranges.
func (s *Scholarship) Overlaps(other *Scholarship) bool {
	if s.Name != other.Name || s.StudentID != other.StudentID {
		return false
	}
	return !s.StartDate.After(other.EndDate) && !other.StartDate.After(s.EndDate)
}

// DTOs for requests and responses

type CreateScholarshipRequest struct {
	StudentID          uuid.UUID        `json:"student_id" validate:"required"`
	Name               string           `json:"name" validate:"required"`
	Type               string           `json:"type" validate:"required,oneof=full partial"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage" validate:"omitempty,decimal_gt=0"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount" validate:"omitempty,decimal_gt=0"`
	StartDate          time.Time        `json:"start_date" validate:"required"`
	EndDate            time.Time        `json:"end_date" validate:"required,gtfield=StartDate"`
	AcademicYearID     *uuid.UUID       `json:"academic_year_id"`
}
