package errors

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrAcademicYearNotFound   = errors.New("academic year not found")
	ErrSppSettingNotFound     = errors.New("tuition rate not found")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrTransactionNotFound    = errors.New("savings transaction not found")
	ErrScholarshipNotFound    = errors.New("scholarship not found")
	ErrMonthAlreadyPaid       = errors.New("month is already paid")
	ErrSequenceGap            = errors.New("earlier month is still unpaid")
	ErrSubtotalMismatch       = errors.New("subtotal does not match sum of details")
	ErrTotalMismatch          = errors.New("total does not match subtotal - discount + late fee")
	ErrInsufficientFunds      = errors.New("insufficient savings balance")
	ErrNotLastEntry           = errors.New("only the most recent entry is mutable")
	ErrOverlappingScholarship = errors.New("scholarship dates overlap an existing one")
	ErrMonthOutsideYear       = errors.New("month is outside the academic year")
	ErrBackdatedEntry         = errors.New("transaction date precedes the ledger tail")
	ErrAcademicYearInUse      = errors.New("academic year is referenced by settings")
	ErrLastActiveYear         = errors.New("cannot deactivate the only active academic year")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeStudentNotFound        = "STUDENT_NOT_FOUND"
	ErrCodeAcademicYearNotFound   = "ACADEMIC_YEAR_NOT_FOUND"
	ErrCodeSppSettingNotFound     = "SPP_SETTING_NOT_FOUND"
	ErrCodePaymentNotFound        = "PAYMENT_NOT_FOUND"
	ErrCodeTransactionNotFound    = "TRANSACTION_NOT_FOUND"
	ErrCodeScholarshipNotFound    = "SCHOLARSHIP_NOT_FOUND"
	ErrCodeMonthAlreadyPaid       = "MONTH_ALREADY_PAID"
	ErrCodeSequenceGap            = "SEQUENCE_GAP"
	ErrCodeSubtotalMismatch       = "SUBTOTAL_MISMATCH"
	ErrCodeTotalMismatch          = "TOTAL_MISMATCH"
	ErrCodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	ErrCodeNotLastEntry           = "NOT_LAST_ENTRY"
	ErrCodeOverlappingScholarship = "OVERLAPPING_SCHOLARSHIP"
	ErrCodeMonthOutsideYear       = "MONTH_OUTSIDE_YEAR"
	ErrCodeBackdatedEntry         = "BACKDATED_ENTRY"
	ErrCodeAcademicYearInUse      = "ACADEMIC_YEAR_IN_USE"
	ErrCodeLastActiveYear         = "LAST_ACTIVE_YEAR"
	ErrCodeValidationError        = "VALIDATION_ERROR"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
)

// Wrap common errors with business context

func WrapStudentNotFound(studentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeStudentNotFound,
		fmt.Sprintf("Student with ID %s not found", studentID),
		ErrStudentNotFound,
	)
}

func WrapAcademicYearNotFound(yearID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAcademicYearNotFound,
		fmt.Sprintf("Academic year with ID %s not found", yearID),
		ErrAcademicYearNotFound,
	)
}

func WrapSppSettingNotFound(gradeLevel int, yearID string) *BusinessError {
	return NewBusinessError(
		ErrCodeSppSettingNotFound,
		fmt.Sprintf("No tuition rate configured for grade %d in academic year %s", gradeLevel, yearID),
		ErrSppSettingNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment with ID %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapTransactionNotFound(transactionID string) *BusinessError {
	return NewBusinessError(
		ErrCodeTransactionNotFound,
		fmt.Sprintf("Savings transaction with ID %s not found", transactionID),
		ErrTransactionNotFound,
	)
}

func WrapScholarshipNotFound(scholarshipID string) *BusinessError {
	return NewBusinessError(
		ErrCodeScholarshipNotFound,
		fmt.Sprintf("Scholarship with ID %s not found", scholarshipID),
		ErrScholarshipNotFound,
	)
}

func WrapMonthAlreadyPaid(monthName string, year int) *BusinessError {
	return NewBusinessError(
		ErrCodeMonthAlreadyPaid,
		fmt.Sprintf("%s %d is already paid", monthName, year),
		ErrMonthAlreadyPaid,
	)
}

func WrapSequenceGap(monthName string, year int) *BusinessError {
	return NewBusinessError(
		ErrCodeSequenceGap,
		fmt.Sprintf("%s %d must be paid first", monthName, year),
		ErrSequenceGap,
	)
}

func WrapSubtotalMismatch(expected, actual decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeSubtotalMismatch,
		fmt.Sprintf("Subtotal %s does not match sum of details %s", actual, expected),
		ErrSubtotalMismatch,
	)
}

func WrapTotalMismatch(expected, actual decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeTotalMismatch,
		fmt.Sprintf("Total %s does not match subtotal - discount + late fee = %s", actual, expected),
		ErrTotalMismatch,
	)
}

func WrapInsufficientFunds(balance, amount decimal.Decimal) *BusinessError {
	return NewBusinessError(
		ErrCodeInsufficientFunds,
		fmt.Sprintf("Withdrawal of %s exceeds current balance %s", amount, balance),
		ErrInsufficientFunds,
	)
}

func WrapNotLastEntry(entity string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotLastEntry,
		fmt.Sprintf("Only the most recent %s may be updated or deleted", entity),
		ErrNotLastEntry,
	)
}

func WrapOverlappingScholarship(name string) *BusinessError {
	return NewBusinessError(
		ErrCodeOverlappingScholarship,
		fmt.Sprintf("An active scholarship named %q already covers part of this date range", name),
		ErrOverlappingScholarship,
	)
}

func WrapBackdatedEntry(entryDate, tailDate time.Time) *BusinessError {
	return NewBusinessError(
		ErrCodeBackdatedEntry,
		fmt.Sprintf("Transaction date %s is earlier than the latest ledger entry on %s",
			entryDate.Format("2006-01-02"), tailDate.Format("2006-01-02")),
		ErrBackdatedEntry,
	)
}

func WrapMonthOutsideYear(month, year int) *BusinessError {
	return NewBusinessError(
		ErrCodeMonthOutsideYear,
		fmt.Sprintf("Month %d/%d is not part of the academic year", month, year),
		ErrMonthOutsideYear,
	)
}

func WrapAcademicYearInUse(yearID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAcademicYearInUse,
		fmt.Sprintf("Academic year %s is referenced and cannot be removed", yearID),
		ErrAcademicYearInUse,
	)
}

func WrapLastActiveYear(yearID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLastActiveYear,
		fmt.Sprintf("Academic year %s is the only active year", yearID),
		ErrLastActiveYear,
	)
}

func WrapValidationError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeValidationError,
		"request validation failed",
		err,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}
