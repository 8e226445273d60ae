package response

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	customError "github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/errors"
)

type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type ErrorResponse struct {
	Success   bool      `json:"success"`
	Code      string    `json:"code,omitempty"`
	Error     string    `json:"error,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success:   statusCode >= 200 && statusCode < 300,
		Data:      data,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// Success sends a successful JSON response
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a created JSON response
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// NoContent sends a 204 response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, statusCode int, message string, err error) {
	response := ErrorResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now(),
	}

	if err != nil {
		response.Error = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		log.Printf("Error encoding error response: %v", encodeErr)
	}
}

// BadRequest sends a 400 bad request response
func BadRequest(w http.ResponseWriter, message string, err error) {
	Error(w, http.StatusBadRequest, message, err)
}

// NotFound sends a 404 not found response
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message, nil)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(w http.ResponseWriter, message string, err error) {
	Error(w, http.StatusInternalServerError, message, err)
}

// FromError maps a BusinessError to its HTTP status and writes the payload.
// Conflict-class rule violations map to 409, arithmetic mismatches to 422,
// lookups to 404, validation to 400; everything else is a 500 with a generic
// message so storage details never leak to callers.
func FromError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if !errors.As(err, &bizErr) {
		log.Printf("unexpected error: %v", err)
		InternalServerError(w, "Internal server error", nil)
		return
	}

	statusCode := http.StatusInternalServerError
	switch bizErr.Code {
	case customError.ErrCodeValidationError:
		statusCode = http.StatusBadRequest
	case customError.ErrCodeStudentNotFound,
		customError.ErrCodeAcademicYearNotFound,
		customError.ErrCodeSppSettingNotFound,
		customError.ErrCodePaymentNotFound,
		customError.ErrCodeTransactionNotFound,
		customError.ErrCodeScholarshipNotFound:
		statusCode = http.StatusNotFound
	case customError.ErrCodeMonthAlreadyPaid,
		customError.ErrCodeSequenceGap,
		customError.ErrCodeInsufficientFunds,
		customError.ErrCodeNotLastEntry,
		customError.ErrCodeBackdatedEntry,
		customError.ErrCodeOverlappingScholarship,
		customError.ErrCodeMonthOutsideYear,
		customError.ErrCodeAcademicYearInUse,
		customError.ErrCodeLastActiveYear:
		statusCode = http.StatusConflict
	case customError.ErrCodeSubtotalMismatch,
		customError.ErrCodeTotalMismatch:
		statusCode = http.StatusUnprocessableEntity
	}

	if statusCode == http.StatusInternalServerError {
		log.Printf("system error: %v", err)
		InternalServerError(w, "Internal server error", nil)
		return
	}

	response := ErrorResponse{
		Success:   false,
		Code:      bizErr.Code,
		Message:   bizErr.Message,
		Timestamp: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		log.Printf("Error encoding error response: %v", encodeErr)
	}
}

// JSONMiddleware sets JSON content type for all responses
func JSONMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		recorder := &responseRecorder{ResponseWriter: w, statusCode: 200}

		next.ServeHTTP(recorder, r)

		duration := time.Since(start)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, recorder.statusCode, duration)
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *responseRecorder) WriteHeader(statusCode int) {
	rec.statusCode = statusCode
	rec.ResponseWriter.WriteHeader(statusCode)
}
