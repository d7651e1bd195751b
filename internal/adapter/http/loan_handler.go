package http

import (
	"net/http"
	"time"

	"loanorigin/internal/adapter/middleware"
	domainLoan "loanorigin/internal/domain/loan"
	"loanorigin/internal/rules/eligibility"
	"loanorigin/internal/rules/risk"
	loanuc "loanorigin/internal/usecase/loan"
	"loanorigin/pkg/id"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loanuc.Usecase }

func NewLoanHandler(uc *loanuc.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	Type            string                      `json:"type" validate:"required,oneof=personal auto mortgage"`
	RequestedAmount float64                     `json:"requested_amount" validate:"required,gt=0,dec2"`
	Currency        string                      `json:"currency" validate:"omitempty,len=3"`
	TermMonths      int                         `json:"term_months" validate:"required,gt=0"`
	DownPayment     *float64                    `json:"down_payment" validate:"omitempty,gte=0,dec2"`
	Purpose         string                      `json:"purpose"`
	Applicant       applicantReq                `json:"applicant" validate:"required"`
	CoSigner        *applicantReq               `json:"co_signer"`
	VehicleInfo     *domainLoan.VehicleInfo     `json:"vehicle_info"`
	PropertyAddress *domainLoan.PropertyAddress `json:"property_address"`
}

type applicantReq struct {
	FullName         string  `json:"full_name" validate:"required"`
	DateOfBirth      string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	SSN              string  `json:"ssn"`
	Income           float64 `json:"income" validate:"gte=0,dec2"`
	EmploymentStatus string  `json:"employment_status" validate:"omitempty,oneof=full-time part-time self-employed unemployed retired"`
	CreditScore      *int    `json:"credit_score" validate:"omitempty,gte=300,lte=850"`
}

func (r applicantReq) toInput() loanuc.ApplicantInput {
	return loanuc.ApplicantInput{
		FullName:         r.FullName,
		DateOfBirth:      r.DateOfBirth,
		SSN:              r.SSN,
		Income:           r.Income,
		EmploymentStatus: domainLoan.EmploymentStatus(r.EmploymentStatus),
		CreditScore:      r.CreditScore,
	}
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := loanuc.CreateLoanInput{
		Type:            domainLoan.Type(req.Type),
		RequestedAmount: req.RequestedAmount,
		Currency:        req.Currency,
		TermMonths:      req.TermMonths,
		DownPayment:     req.DownPayment,
		Purpose:         req.Purpose,
		Applicant:       req.Applicant.toInput(),
		VehicleInfo:     req.VehicleInfo,
		PropertyAddress: req.PropertyAddress,
	}
	if req.CoSigner != nil {
		co := req.CoSigner.toInput()
		in.CoSigner = &co
	}

	l, err := h.uc.Create(c.Request().Context(), actorID(c), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

// SubmitLoan accepts a complete draft and persists it as a pending loan, the
// one-shot REST equivalent of the wizard's submit.
func (h *LoanHandler) SubmitLoan(c echo.Context) error {
	var d domainLoan.Draft
	if err := c.Bind(&d); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	l, err := h.uc.Submit(c.Request().Context(), actorID(c), d.ToLoan(id.NewLoanID(), time.Now().UTC()))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	f := domainLoan.ListFilter{
		Status: domainLoan.Status(c.QueryParam("status")),
		Type:   domainLoan.Type(c.QueryParam("type")),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
	loans, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": loans, "count": len(loans)})
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	l, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

type updateLoanReq struct {
	Status         *string  `json:"status" validate:"omitempty,oneof=draft pending approved rejected"`
	ApprovedAmount *float64 `json:"approved_amount" validate:"omitempty,gt=0,dec2"`
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	var req updateLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := loanuc.UpdateLoanInput{ApprovedAmount: req.ApprovedAmount}
	if req.Status != nil {
		s := domainLoan.Status(*req.Status)
		in.Status = &s
	}
	l, err := h.uc.Update(c.Request().Context(), actorID(c), c.Param("loan_id"), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), actorID(c), c.Param("loan_id")); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckEligibility runs the eligibility rules against a stored loan.
func (h *LoanHandler) CheckEligibility(c echo.Context) error {
	l, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, eligibility.Check(*l))
}

// AssessRisk runs the risk scoring rules against a stored loan.
func (h *LoanHandler) AssessRisk(c echo.Context) error {
	l, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, risk.Evaluate(*l))
}

// actorID is the authenticated user for audit attribution.
func actorID(c echo.Context) string {
	if claims := middleware.ClaimsFrom(c); claims != nil {
		return claims.UserID
	}
	return ""
}
