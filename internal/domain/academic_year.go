package domain

import (
	"time"

	"github.com/google/uuid"
)

var monthNames = [13]string{
	"",
	"Januari",
	"Februari",
	"Maret",
	"April",
	"Mei",
	"Juni",
	"Juli",
	"Agustus",
	"September",
	"Oktober",
	"November",
	"Desember",
}

// MonthName returns the Indonesian name for a calendar month (1-12).
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month]
}

// AcademicYear represents a school year, possibly spanning two calendar years.
type AcademicYear struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	StartDate  time.Time `json:"start_date" db:"start_date"`
	EndDate    time.Time `json:"end_date" db:"end_date"`
	StartMonth int       `json:"start_month" db:"start_month"`
	EndMonth   int       `json:"end_month" db:"end_month"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// AcademicMonth is one billable month inside an academic year.
type AcademicMonth struct {
	Month int    `json:"month"`
	Year  int    `json:"year"`
	Name  string `json:"month_name"`
}

// Months returns the ordered (month, calendar year) sequence covered by the
// academic year. A year with start_month > end_month crosses the calendar-year
// boundary exactly once (e.g. Juli 2024 .. Juni 2025).
func (y *AcademicYear) Months() []AcademicMonth {
	startYear := y.StartDate.Year()

	if y.StartMonth <= y.EndMonth {
		months := make([]AcademicMonth, 0, y.EndMonth-y.StartMonth+1)
		for m := y.StartMonth; m <= y.EndMonth; m++ {
			months = append(months, AcademicMonth{Month: m, Year: startYear, Name: MonthName(m)})
		}
		return months
	}

	months := make([]AcademicMonth, 0, (12-y.StartMonth+1)+y.EndMonth)
	for m := y.StartMonth; m <= 12; m++ {
		months = append(months, AcademicMonth{Month: m, Year: startYear, Name: MonthName(m)})
	}
	for m := 1; m <= y.EndMonth; m++ {
		months = append(months, AcademicMonth{Month: m, Year: startYear + 1, Name: MonthName(m)})
	}
	return months
}

// Contains reports whether (month, year) is a billable month of this academic year.
func (y *AcademicYear) Contains(month, year int) bool {
	for _, m := range y.Months() {
		if m.Month == month && m.Year == year {
			return true
		}
	}
	return false
}

// MonthIndex returns the position of (month, year) in the academic sequence,
// or -1 when the month is outside the year.
func (y *AcademicYear) MonthIndex(month, year int) int {
	for i, m := range y.Months() {
		if m.Month == month && m.Year == year {
			return i
		}
	}
	return -1
}

// CurrentMonth returns the academic month containing today, if any.
func (y *AcademicYear) CurrentMonth(today time.Time) (AcademicMonth, bool) {
	for _, m := range y.Months() {
		if m.Month == int(today.Month()) && m.Year == today.Year() {
			return m, true
		}
	}
	return AcademicMonth{}, false
}

// DTOs for requests and responses

type CreateAcademicYearRequest struct {
	Name       string    `json:"name" validate:"required"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
	StartMonth int       `json:"start_month" validate:"required,min=1,max=12"`
	EndMonth   int       `json:"end_month" validate:"required,min=1,max=12"`
}
