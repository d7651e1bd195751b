package http

import (
	"net/http"
	"time"

	domainLoan "loanorigin/internal/domain/loan"
	"loanorigin/internal/store/loanapp"

	"github.com/labstack/echo/v4"
)

// WizardHandler exposes the per-user application store over REST. Every
// route resolves the caller's own store from the session registry; one
// user's wizard state is invisible to another's.
type WizardHandler struct{ sessions *loanapp.Sessions }

func NewWizardHandler(sessions *loanapp.Sessions) *WizardHandler {
	return &WizardHandler{sessions: sessions}
}

func (h *WizardHandler) store(c echo.Context) *loanapp.Store {
	return h.sessions.For(actorID(c))
}

type wizardDraftResp struct {
	CurrentLoan   *domainLoan.Draft `json:"current_loan"`
	FormStep      int               `json:"form_step"`
	SelectedType  domainLoan.Type   `json:"selected_type,omitempty"`
	IsDraftSaved  bool              `json:"is_draft_saved"`
	LastSavedAt   *time.Time        `json:"last_saved_at,omitempty"`
	SubmittedLoan *domainLoan.Loan  `json:"submitted_loan,omitempty"`
	Error         string            `json:"error,omitempty"`
}

func draftResp(st loanapp.State) wizardDraftResp {
	resp := wizardDraftResp{
		CurrentLoan:   st.CurrentLoan,
		FormStep:      st.FormStep,
		SelectedType:  st.SelectedLoanType,
		IsDraftSaved:  st.IsDraftSaved,
		SubmittedLoan: st.SubmittedLoan,
		LastSavedAt:   st.LastSavedAt,
		Error:         st.Error,
	}
	return resp
}

func (h *WizardHandler) GetDraft(c echo.Context) error {
	return c.JSON(http.StatusOK, draftResp(h.store(c).Snapshot()))
}

// PatchDraft merges partial fields into the in-progress draft. A type change
// goes through the type selector so the wizard's selection stays in sync.
func (h *WizardHandler) PatchDraft(c echo.Context) error {
	var patch domainLoan.DraftPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&patch); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	st := h.store(c)
	if patch.Type != nil {
		st.SetSelectedLoanType(*patch.Type)
	}
	st.UpdateCurrentLoan(patch)
	return c.JSON(http.StatusOK, draftResp(st.Snapshot()))
}

type setStepReq struct {
	Step int `json:"step" validate:"gte=0,lte=4"`
}

func (h *WizardHandler) SetStep(c echo.Context) error {
	var req setStepReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	st := h.store(c)
	st.SetFormStep(req.Step)
	return c.JSON(http.StatusOK, draftResp(st.Snapshot()))
}

func (h *WizardHandler) SaveDraft(c echo.Context) error {
	st := h.store(c)
	st.SaveCurrentLoanDraft(c.Request().Context())
	return c.JSON(http.StatusOK, draftResp(st.Snapshot()))
}

// SubmitDraft runs the store's submit flow. The store reports failure
// through its state rather than an error return, so the outcome is read
// back from the snapshot.
func (h *WizardHandler) SubmitDraft(c echo.Context) error {
	st := h.store(c)
	st.SubmitLoanApplication(c.Request().Context())

	// SubmittedLoan survives from earlier submissions, so a non-nil value
	// alone does not mean this call succeeded; the store records any failure
	// of the current call in Error.
	snap := st.Snapshot()
	if snap.Error != "" || snap.SubmittedLoan == nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: snap.Error})
	}
	return c.JSON(http.StatusCreated, snap.SubmittedLoan)
}

func (h *WizardHandler) ResetDraft(c echo.Context) error {
	st := h.store(c)
	st.ResetCurrentLoan()
	return c.JSON(http.StatusOK, draftResp(st.Snapshot()))
}

func (h *WizardHandler) CanProceed(c echo.Context) error {
	st := h.store(c)
	snap := st.Snapshot()
	return c.JSON(http.StatusOK, map[string]any{
		"can_proceed": st.CanProceedToNextStep(),
		"form_step":   snap.FormStep,
	})
}

// ListMyLoans refreshes the caller's loans and applies the dashboard's
// derived filtering on top. Status and search params update the store's
// filter state, so the dashboard's view persists across calls that omit
// them.
func (h *WizardHandler) ListMyLoans(c echo.Context) error {
	st := h.store(c)
	st.LoadUserLoans(c.Request().Context())

	if status := c.QueryParam("status"); status != "" {
		st.SetStatusFilter(status)
	}
	if search := c.QueryParam("search"); search != "" {
		st.SetSearchQuery(search)
	}

	snap := st.Snapshot()
	if snap.Error != "" && len(snap.UserLoans) == 0 {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: snap.Error})
	}

	opts := loanapp.FilterOptions{
		Status:      snap.StatusFilter,
		SearchQuery: snap.SearchQuery,
		Limit:       queryInt(c, "limit"),
		SortBy:      c.QueryParam("sort_by"),
		SortOrder:   c.QueryParam("sort_order"),
	}
	if opts.Status == "" {
		opts.Status = loanapp.StatusFilterAll
	}
	loans := st.GetFilteredLoans(opts)
	return c.JSON(http.StatusOK, map[string]any{"loans": loans, "count": len(loans)})
}
