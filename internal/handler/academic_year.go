package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/service"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/response"
)

type AcademicYearHandler struct {
	service   *service.AcademicYearService
	validator *validator.Validate
}

func NewAcademicYearHandler(service *service.AcademicYearService) *AcademicYearHandler {
	return &AcademicYearHandler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *AcademicYearHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateAcademicYearRequest
	if err := decodeJSON(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	year, err := h.service.Create(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, year)
}

func (h *AcademicYearHandler) List(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.List(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, years)
}

func (h *AcademicYearHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	year, err := h.service.GetActive(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, year)
}

func (h *AcademicYearHandler) Activate(w http.ResponseWriter, r *http.Request) {
	yearID, ok := pathUUID(w, r, "yearId")
	if !ok {
		return
	}

	year, err := h.service.Activate(r.Context(), yearID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, year)
}

func (h *AcademicYearHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	yearID, ok := pathUUID(w, r, "yearId")
	if !ok {
		return
	}

	if err := h.service.Deactivate(r.Context(), yearID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *AcademicYearHandler) Delete(w http.ResponseWriter, r *http.Request) {
	yearID, ok := pathUUID(w, r, "yearId")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), yearID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
