package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/service"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/response"
)

type BillingHandler struct {
	service   *service.BillingService
	validator *validator.Validate
}

func NewBillingHandler(service *service.BillingService) *BillingHandler {
	return &BillingHandler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *BillingHandler) CreateSetting(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateSppSettingRequest
	if err := decodeJSON(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	setting, err := h.service.CreateSetting(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, setting)
}

func (h *BillingHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	yearID, ok := optionalUUIDQuery(w, r, "academic_year_id")
	if !ok {
		return
	}

	settings, err := h.service.ListSettings(r.Context(), yearID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, settings)
}

func (h *BillingHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var request domain.RecordPaymentRequest
	if err := decodeJSON(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, payment)
}

func (h *BillingHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := pathUUID(w, r, "paymentId")
	if !ok {
		return
	}

	payment, err := h.service.GetPayment(r.Context(), paymentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, payment)
}

func (h *BillingHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := pathUUID(w, r, "paymentId")
	if !ok {
		return
	}

	var request domain.UpdatePaymentRequest
	if err := decodeJSON(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	payment, err := h.service.UpdatePayment(r.Context(), paymentID, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, payment)
}

func (h *BillingHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := pathUUID(w, r, "paymentId")
	if !ok {
		return
	}

	if err := h.service.DeletePayment(r.Context(), paymentID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *BillingHandler) UnpaidMonths(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathUUID(w, r, "studentId")
	if !ok {
		return
	}
	yearID, ok := optionalUUIDQuery(w, r, "academic_year_id")
	if !ok {
		return
	}

	unpaid, err := h.service.UnpaidMonths(r.Context(), studentID, yearID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, unpaid)
}

func (h *BillingHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathUUID(w, r, "studentId")
	if !ok {
		return
	}
	yearID, ok := optionalUUIDQuery(w, r, "academic_year_id")
	if !ok {
		return
	}

	payments, err := h.service.ListPayments(r.Context(), studentID, yearID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, payments)
}

// pathUUID parses a UUID path variable, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.BadRequest(w, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery parses an optional UUID query parameter, returning
// uuid.Nil when absent.
func optionalUUIDQuery(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return uuid.Nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(w, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}
