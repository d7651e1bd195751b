package http

import (
	"fmt"
	"net/http"

	domainLoan "loanorigin/internal/domain/loan"
	audituc "loanorigin/internal/usecase/audit"
	"loanorigin/pkg/id"

	"github.com/labstack/echo/v4"
)

type ApplicantHandler struct {
	repo  domainLoan.ApplicantRepository
	audit *audituc.Recorder
}

func NewApplicantHandler(repo domainLoan.ApplicantRepository, audit *audituc.Recorder) *ApplicantHandler {
	return &ApplicantHandler{repo: repo, audit: audit}
}

func (h *ApplicantHandler) ListApplicants(c echo.Context) error {
	applicants, err := h.repo.List(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"applicants": applicants, "count": len(applicants)})
}

func (h *ApplicantHandler) GetApplicant(c echo.Context) error {
	a, err := h.repo.GetByApplicantID(c.Request().Context(), c.Param("applicant_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *ApplicantHandler) CreateApplicant(c echo.Context) error {
	var req applicantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	a := domainLoan.Applicant{
		ApplicantID:      id.NewID32(),
		FullName:         req.FullName,
		DateOfBirth:      req.DateOfBirth,
		SSN:              req.SSN,
		Income:           req.Income,
		EmploymentStatus: domainLoan.EmploymentStatus(req.EmploymentStatus),
		CreditScore:      req.CreditScore,
	}
	if err := h.repo.Create(c.Request().Context(), &a); err != nil {
		return domainError(c, err)
	}

	_ = h.audit.Record(c.Request().Context(), actorID(c), fmt.Sprintf("CREATE: Applicant %s", a.ApplicantID))
	return c.JSON(http.StatusCreated, a)
}

func (h *ApplicantHandler) UpdateApplicant(c echo.Context) error {
	var patch domainLoan.ApplicantPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&patch); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	a, err := h.repo.GetByApplicantID(c.Request().Context(), c.Param("applicant_id"))
	if err != nil {
		return domainError(c, err)
	}
	patch.ApplyTo(a)
	if err := h.repo.Save(c.Request().Context(), a); err != nil {
		return domainError(c, err)
	}

	_ = h.audit.Record(c.Request().Context(), actorID(c), fmt.Sprintf("UPDATE: Applicant %s", a.ApplicantID))
	return c.JSON(http.StatusOK, a)
}
