package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainUser "loanorigin/internal/domain/user"
	"loanorigin/internal/store/admin"
	"loanorigin/internal/testutil/auditmock"
	"loanorigin/internal/testutil/usermock"
	audituc "loanorigin/internal/usecase/audit"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func newAdminHandler(users []domainUser.User, trail *auditmock.Repo) *AdminHandler {
	fetcher := &usermock.Repo{
		ListFn: func(_ context.Context) ([]domainUser.User, error) { return users, nil },
	}
	recorder := audituc.NewRecorder(trail, zap.NewNop())
	store := admin.New(context.Background(), fetcher, recorder, zap.NewNop())
	return NewAdminHandler(store)
}

func TestAdminDashboard_RoleFilter(t *testing.T) {
	e := newEchoWithValidator()
	h := newAdminHandler([]domainUser.User{
		{UserID: "u-1", Role: domainUser.RoleCustomer},
		{UserID: "u-2", Role: domainUser.RoleUnderwriter},
		{UserID: "u-3", Role: domainUser.RoleCustomer},
	}, &auditmock.Repo{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(stdhttp.MethodGet, "/api/admin/dashboard", nil), rec)
	if err := h.GetDashboard(c); err != nil {
		t.Fatalf("GetDashboard error: %v", err)
	}
	var resp dashboardResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(resp.Users) != 3 {
		t.Fatalf("users = %d, want full roster", len(resp.Users))
	}

	// Narrow to underwriters.
	body := map[string]any{"role": "underwriter"}
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/admin/filters", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if err := h.ApplyFilters(c); err != nil {
		t.Fatalf("ApplyFilters error: %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(resp.Users) != 1 || resp.Users[0].UserID != "u-2" {
		t.Fatalf("filtered users = %+v, want only u-2", resp.Users)
	}

	// Clearing restores the roster.
	req = httptest.NewRequest(stdhttp.MethodPost, "/api/admin/filters", mustJSON(map[string]any{"clear": true}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if err := h.ApplyFilters(c); err != nil {
		t.Fatalf("ApplyFilters error: %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(resp.Users) != 3 {
		t.Fatalf("users after clear = %d, want 3", len(resp.Users))
	}
}

func TestAdminLogAction_RecordsAndReloads(t *testing.T) {
	e := newEchoWithValidator()
	trail := &auditmock.Repo{}
	h := newAdminHandler(nil, trail)

	body := map[string]any{"verb": "DEACTIVATE", "target_user_id": "u-2"}
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/admin/actions", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authed(c, "admin-1", domainUser.RoleAdmin)

	if err := h.LogAction(c); err != nil {
		t.Fatalf("LogAction error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if len(trail.Entries) != 1 || trail.Entries[0].Action != "DEACTIVATE: User u-2" {
		t.Fatalf("trail = %+v, want the management entry", trail.Entries)
	}

	// The new entry shows up in the dashboard snapshot without a refresh call.
	var resp dashboardResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	found := false
	for _, entry := range resp.AuditLogs {
		if strings.Contains(entry.Action, "DEACTIVATE: User u-2") {
			found = true
		}
	}
	if !found {
		t.Fatalf("audit logs = %+v, want the new entry", resp.AuditLogs)
	}
}

func TestAdminLogAction_RejectsUnknownVerb(t *testing.T) {
	e := newEchoWithValidator()
	h := newAdminHandler(nil, &auditmock.Repo{})

	body := map[string]any{"verb": "OBLITERATE", "target_user_id": "u-2"}
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/admin/actions", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authed(c, "admin-1", domainUser.RoleAdmin)

	if err := h.LogAction(c); err != nil {
		t.Fatalf("LogAction error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}
