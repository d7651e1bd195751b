package http

import (
	"net/http"

	domainAudit "loanorigin/internal/domain/audit"
	audituc "loanorigin/internal/usecase/audit"

	"github.com/labstack/echo/v4"
)

type AuditHandler struct{ recorder *audituc.Recorder }

func NewAuditHandler(recorder *audituc.Recorder) *AuditHandler {
	return &AuditHandler{recorder: recorder}
}

func (h *AuditHandler) ListAuditLogs(c echo.Context) error {
	f := domainAudit.ListFilter{
		UserID: c.QueryParam("user_id"),
		Action: c.QueryParam("action"),
		Limit:  queryInt(c, "limit"),
	}
	entries, err := h.recorder.List(c.Request().Context(), f)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"logs": entries, "count": len(entries)})
}

type appendAuditReq struct {
	Action string `json:"action" validate:"required"`
}

// AppendAuditLog records a client-originated action against the caller's
// own identity; the user id is never taken from the body.
func (h *AuditHandler) AppendAuditLog(c echo.Context) error {
	var req appendAuditReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	if err := h.recorder.Record(c.Request().Context(), actorID(c), req.Action); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusCreated)
}
