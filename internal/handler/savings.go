package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/service"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/response"
)

type SavingsHandler struct {
	service   *service.SavingsService
	validator *validator.Validate
}

func NewSavingsHandler(service *service.SavingsService) *SavingsHandler {
	return &SavingsHandler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *SavingsHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var request domain.RecordSavingsRequest
	if err := decodeJSON(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	transaction, err := h.service.RecordTransaction(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, transaction)
}

func (h *SavingsHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := pathUUID(w, r, "transactionId")
	if !ok {
		return
	}

	var request domain.UpdateSavingsRequest
	if err := decodeJSON(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	transaction, err := h.service.UpdateLastTransaction(r.Context(), transactionID, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, transaction)
}

func (h *SavingsHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, ok := pathUUID(w, r, "transactionId")
	if !ok {
		return
	}

	if err := h.service.DeleteLastTransaction(r.Context(), transactionID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *SavingsHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathUUID(w, r, "studentId")
	if !ok {
		return
	}

	balance, err := h.service.CurrentBalance(r.Context(), studentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, balance)
}

func (h *SavingsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathUUID(w, r, "studentId")
	if !ok {
		return
	}

	transactions, err := h.service.History(r.Context(), studentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, transactions)
}
