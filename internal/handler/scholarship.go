package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/service"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/response"
)

type ScholarshipHandler struct {
	service   *service.ScholarshipService
	validator *validator.Validate
}

func NewScholarshipHandler(service *service.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{
		service:   service,
		validator: newValidator(),
	}
}

func (h *ScholarshipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateScholarshipRequest
	if err := decodeJSON(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	scholarship, err := h.service.Create(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, scholarship)
}

func (h *ScholarshipHandler) Update(w http.ResponseWriter, r *http.Request) {
	scholarshipID, ok := pathUUID(w, r, "scholarshipId")
	if !ok {
		return
	}

	var request domain.CreateScholarshipRequest
	if err := decodeJSON(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	scholarship, err := h.service.Update(r.Context(), scholarshipID, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, scholarship)
}

func (h *ScholarshipHandler) Get(w http.ResponseWriter, r *http.Request) {
	scholarshipID, ok := pathUUID(w, r, "scholarshipId")
	if !ok {
		return
	}

	scholarship, err := h.service.GetByID(r.Context(), scholarshipID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, scholarship)
}

func (h *ScholarshipHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathUUID(w, r, "studentId")
	if !ok {
		return
	}

	scholarships, err := h.service.ListByStudent(r.Context(), studentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, scholarships)
}

func (h *ScholarshipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scholarshipID, ok := pathUUID(w, r, "scholarshipId")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), scholarshipID); err != nil {
		response.FromError(w, err)
		return
	}

	response.NoContent(w)
}
