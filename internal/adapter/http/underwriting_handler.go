package http

import (
	"net/http"

	domainLoan "loanorigin/internal/domain/loan"
	domainUW "loanorigin/internal/domain/underwriting"
	"loanorigin/internal/store/underwriting"
	"loanorigin/internal/usecase/decision"

	"github.com/labstack/echo/v4"
)

// UnderwritingHandler exposes the shared review queue store. Unlike the
// wizard, underwriters all work the same queue, so a single store instance
// backs every request.
type UnderwritingHandler struct {
	store     *underwriting.Store
	decisions *decision.Usecase
}

func NewUnderwritingHandler(store *underwriting.Store, decisions *decision.Usecase) *UnderwritingHandler {
	return &UnderwritingHandler{store: store, decisions: decisions}
}

type queueResp struct {
	Queue          []domainLoan.Loan `json:"queue"`
	SelectedLoanID string            `json:"selected_loan_id,omitempty"`
	SortOrder      string            `json:"sort_order"`
	FilterStatus   domainLoan.Status `json:"filter_status,omitempty"`
	Prioritized    []string          `json:"prioritized,omitempty"`
}

func (h *UnderwritingHandler) queueResp() queueResp {
	snap := h.store.Snapshot()
	return queueResp{
		Queue:          h.store.QueueView(),
		SelectedLoanID: snap.SelectedLoanID,
		SortOrder:      string(snap.SortOrder),
		FilterStatus:   snap.FilterStatus,
		Prioritized:    snap.Prioritized,
	}
}

func (h *UnderwritingHandler) GetQueue(c echo.Context) error {
	return c.JSON(http.StatusOK, h.queueResp())
}

func (h *UnderwritingHandler) RefreshQueue(c echo.Context) error {
	h.store.LoadSubmittedLoans(c.Request().Context())
	return c.JSON(http.StatusOK, h.queueResp())
}

func (h *UnderwritingHandler) SelectLoan(c echo.Context) error {
	h.store.SelectLoanForReview(c.Param("loan_id"))
	return c.JSON(http.StatusOK, h.queueResp())
}

func (h *UnderwritingHandler) PrioritizeLoan(c echo.Context) error {
	h.store.PrioritizeLoan(c.Param("loan_id"))
	return c.JSON(http.StatusOK, h.queueResp())
}

type queueFiltersReq struct {
	Status    string `json:"status" validate:"omitempty,oneof=draft pending approved rejected"`
	SortOrder string `json:"sort_order" validate:"omitempty,oneof=asc desc"`
}

func (h *UnderwritingHandler) ApplyFilters(c echo.Context) error {
	var req queueFiltersReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	h.store.ApplyUnderwritingFilters(domainLoan.Status(req.Status))
	if req.SortOrder != "" {
		h.store.SetSortOrder(underwriting.SortOrder(req.SortOrder))
	}
	return c.JSON(http.StatusOK, h.queueResp())
}

type decideReq struct {
	LoanID         string   `json:"loan_id" validate:"required"`
	Decision       string   `json:"decision" validate:"required,oneof=approve reject"`
	Notes          string   `json:"notes"`
	ApprovedAmount *float64 `json:"approved_amount" validate:"omitempty,gt=0,dec2"`
}

// RecordDecision routes the decision through the queue store so the queue,
// selection, and session decision log stay consistent with the database.
func (h *UnderwritingHandler) RecordDecision(c echo.Context) error {
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	d, err := h.store.MarkLoanAsReviewed(c.Request().Context(), decision.DecideInput{
		LoanID:         req.LoanID,
		ReviewerID:     actorID(c),
		Decision:       domainUW.DecisionType(req.Decision),
		Notes:          req.Notes,
		ApprovedAmount: req.ApprovedAmount,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *UnderwritingHandler) ListDecisions(c echo.Context) error {
	decisions, err := h.decisions.History(c.Request().Context(), c.QueryParam("loan_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"decisions": decisions, "count": len(decisions)})
}

func (h *UnderwritingHandler) GetRiskProfile(c echo.Context) error {
	profile, ok := h.store.RiskProfileFor(c.Param("loan_id"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	return c.JSON(http.StatusOK, profile)
}
