package http

import (
	"net/http"

	domainAudit "loanorigin/internal/domain/audit"
	domainUser "loanorigin/internal/domain/user"
	"loanorigin/internal/store/admin"

	"github.com/labstack/echo/v4"
)

// AdminHandler exposes the admin console store: the cached roster and audit
// trail plus the console's filter state. The store is a process-wide
// singleton shared by every admin session.
type AdminHandler struct{ store *admin.Store }

func NewAdminHandler(store *admin.Store) *AdminHandler { return &AdminHandler{store: store} }

type dashboardResp struct {
	Users          []domainUser.User   `json:"users"`
	SelectedUserID string              `json:"selected_user_id,omitempty"`
	AuditLogs      []domainAudit.Entry `json:"audit_logs"`
	Error          string              `json:"error,omitempty"`
}

func (h *AdminHandler) dashboard() dashboardResp {
	snap := h.store.Snapshot()
	return dashboardResp{
		Users:          h.store.FilteredUsers(),
		SelectedUserID: snap.SelectedUserID,
		AuditLogs:      snap.AuditLogs,
		Error:          snap.Error,
	}
}

func (h *AdminHandler) GetDashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dashboard())
}

func (h *AdminHandler) Refresh(c echo.Context) error {
	h.store.LoadUsers(c.Request().Context())
	h.store.LoadAuditLogs(c.Request().Context())
	return c.JSON(http.StatusOK, h.dashboard())
}

type adminFiltersReq struct {
	Role     *string `json:"role" validate:"omitempty,oneof=customer loan-officer underwriter admin"`
	IsActive *bool   `json:"is_active"`
	Search   *string `json:"search"`
	Clear    bool    `json:"clear"`
}

func (h *AdminHandler) ApplyFilters(c echo.Context) error {
	var req adminFiltersReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	if req.Clear {
		h.store.ClearAllFilters()
		return c.JSON(http.StatusOK, h.dashboard())
	}
	if req.Role != nil {
		r := domainUser.Role(*req.Role)
		h.store.FilterUsersByType(&r)
	}
	if req.IsActive != nil {
		h.store.ToggleUserActiveStatus(*req.IsActive)
	}
	if req.Search != nil {
		h.store.UpdateSearchFilter(*req.Search)
	}
	return c.JSON(http.StatusOK, h.dashboard())
}

func (h *AdminHandler) SelectUser(c echo.Context) error {
	h.store.SelectUser(c.Param("user_id"))
	return c.JSON(http.StatusOK, h.dashboard())
}

type adminActionReq struct {
	Verb         string `json:"verb" validate:"required,oneof=ACTIVATE DEACTIVATE PROMOTE DEMOTE RESET_PASSWORD"`
	TargetUserID string `json:"target_user_id" validate:"required"`
}

// LogAction records a user-management action in the audit trail and reloads
// it so the console reflects the new entry.
func (h *AdminHandler) LogAction(c echo.Context) error {
	var req adminActionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	h.store.LogUserManagementAction(c.Request().Context(), actorID(c), req.Verb, req.TargetUserID)
	return c.JSON(http.StatusCreated, h.dashboard())
}
