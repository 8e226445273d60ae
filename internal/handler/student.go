package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/domain"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/repository"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/internal/service"
	customError "github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/errors"
	"github.com/filipiKetaren/SMPM16-Backend-sub000/pkg/response"
)

// StudentHandler serves the aggregated financial summary of one student.
type StudentHandler struct {
	studentRepo repository.StudentRepository
	billing     *service.BillingService
	savings     *service.SavingsService
	scholarship *service.ScholarshipService
}

func NewStudentHandler(
	studentRepo repository.StudentRepository,
	billing *service.BillingService,
	savings *service.SavingsService,
	scholarship *service.ScholarshipService,
) *StudentHandler {
	return &StudentHandler{
		studentRepo: studentRepo,
		billing:     billing,
		savings:     savings,
		scholarship: scholarship,
	}
}

// GetSummary fetches balance, unpaid months and the active scholarship
// concurrently and returns them in one payload.
func (h *StudentHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathUUID(w, r, "studentId")
	if !ok {
		return
	}

	student, err := h.studentRepo.GetByID(r.Context(), studentID)
	if errors.Is(err, sql.ErrNoRows) {
		response.FromError(w, customError.WrapStudentNotFound(studentID.String()))
		return
	}
	if err != nil {
		response.FromError(w, customError.WrapDatabaseError(err))
		return
	}

	summary := &domain.StudentSummary{Student: student}

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		balance, err := h.savings.CurrentBalance(gctx, studentID)
		if err != nil {
			return err
		}
		summary.Balance = balance
		return nil
	})
	g.Go(func() error {
		unpaid, err := h.billing.UnpaidMonths(gctx, studentID, uuid.Nil)
		if err != nil {
			return err
		}
		summary.UnpaidMonths = unpaid
		return nil
	})
	g.Go(func() error {
		active, err := h.scholarship.ActiveForStudent(gctx, studentID, time.Now())
		if err != nil {
			return err
		}
		summary.ActiveScholarship = active
		return nil
	})

	if err := g.Wait(); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, summary)
}
