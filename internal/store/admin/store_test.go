package admin

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"loanorigin/internal/domain/audit"
	"loanorigin/internal/domain/user"
	"loanorigin/internal/testutil/usermock"

	"go.uber.org/zap"
)

// auditTrail is an in-memory AuditLog double.
type auditTrail struct {
	entries  []audit.Entry
	recorded []string
	listErr  error
	recErr   error
	listFn   func(context.Context, audit.ListFilter) ([]audit.Entry, error)
}

func (a *auditTrail) List(ctx context.Context, f audit.ListFilter) ([]audit.Entry, error) {
	if a.listFn != nil {
		return a.listFn(ctx, f)
	}
	if a.listErr != nil {
		return nil, a.listErr
	}
	out := make([]audit.Entry, len(a.entries))
	copy(out, a.entries)
	return out, nil
}

func (a *auditTrail) Record(_ context.Context, userID, action string) error {
	if a.recErr != nil {
		return a.recErr
	}
	a.recorded = append(a.recorded, action)
	a.entries = append(a.entries, audit.Entry{UserID: userID, Action: action})
	return nil
}

func roster() []user.User {
	return []user.User{
		{UserID: "u-1", Email: "alice@example.com", Role: user.RoleAdmin},
		{UserID: "u-2", Email: "bob@example.com", Role: user.RoleCustomer},
		{UserID: "u-3", Email: "carol@example.com", Role: user.RoleCustomer},
	}
}

func rolePtr(r user.Role) *user.Role { return &r }

func TestNew_LoadsRosterAndTrail(t *testing.T) {
	users := &usermock.Repo{ListFn: func(context.Context) ([]user.User, error) {
		return roster(), nil
	}}
	trail := &auditTrail{entries: []audit.Entry{{EntryID: "e-1", Action: "LOGIN: User u-1"}}}

	s := New(context.Background(), users, trail, zap.NewNop())

	st := s.Snapshot()
	if len(st.Users) != 3 || len(st.AuditLogs) != 1 {
		t.Fatalf("users=%d logs=%d, want 3 and 1", len(st.Users), len(st.AuditLogs))
	}
	if st.IsLoading || st.Error != "" {
		t.Fatalf("unexpected flags: %+v", st)
	}
}

func TestLoadUsers_FailureKeepsPreviousRoster(t *testing.T) {
	fail := false
	users := &usermock.Repo{ListFn: func(context.Context) ([]user.User, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return roster(), nil
	}}
	s := New(context.Background(), users, &auditTrail{}, zap.NewNop())

	fail = true
	s.LoadUsers(context.Background())

	st := s.Snapshot()
	if st.Error != "Failed to load users" || st.IsLoading {
		t.Fatalf("error=%q loading=%v", st.Error, st.IsLoading)
	}
	if len(st.Users) != 3 {
		t.Fatalf("roster must keep last-known-good data, got %d", len(st.Users))
	}
}

func TestLoadAuditLogs_FailureSetsError(t *testing.T) {
	trail := &auditTrail{}
	s := New(context.Background(), &usermock.Repo{}, trail, zap.NewNop())

	trail.listErr = errors.New("boom")
	s.LoadAuditLogs(context.Background())

	if got := s.Snapshot().Error; got != "Failed to load audit logs" {
		t.Fatalf("error=%q", got)
	}
}

func TestFilteredUsers_RoleOnly(t *testing.T) {
	users := &usermock.Repo{ListFn: func(context.Context) ([]user.User, error) {
		return roster(), nil
	}}
	s := New(context.Background(), users, &auditTrail{}, zap.NewNop())

	if got := s.FilteredUsers(); len(got) != 3 {
		t.Fatalf("no filter must return everyone, got %d", len(got))
	}

	s.FilterUsersByType(rolePtr(user.RoleCustomer))
	got := s.FilteredUsers()
	if len(got) != 2 {
		t.Fatalf("customer filter returned %d users", len(got))
	}
	for _, u := range got {
		if u.Role != user.RoleCustomer {
			t.Fatalf("wrong role in result: %s", u.Role)
		}
	}

	// Search term and active toggle are tracked but never narrow the view.
	s.UpdateSearchFilter("alice")
	s.ToggleUserActiveStatus(false)
	if got := s.FilteredUsers(); len(got) != 2 {
		t.Fatalf("search/active must not narrow the role view, got %d", len(got))
	}

	s.ClearAllFilters()
	st := s.Snapshot()
	if st.Filters.Role != nil || st.Filters.SearchTerm != "" || st.Filters.IsActive != nil {
		t.Fatalf("filters not cleared: %+v", st.Filters)
	}
	if got := s.FilteredUsers(); len(got) != 3 {
		t.Fatalf("cleared filter must return everyone, got %d", len(got))
	}
}

func TestSelectUser(t *testing.T) {
	s := New(context.Background(), &usermock.Repo{}, &auditTrail{}, zap.NewNop())
	s.SelectUser("u-2")
	if got := s.Snapshot().SelectedUserID; got != "u-2" {
		t.Fatalf("selected=%q", got)
	}
}

func TestLogAdminAction_RecordsThenReloads(t *testing.T) {
	trail := &auditTrail{}
	s := New(context.Background(), &usermock.Repo{}, trail, zap.NewNop())

	s.LogAdminAction(context.Background(), "u-1", "VIEW: Dashboard")

	st := s.Snapshot()
	if len(trail.recorded) != 1 || trail.recorded[0] != "VIEW: Dashboard" {
		t.Fatalf("recorded=%v", trail.recorded)
	}
	// The trail view refreshes after a successful write.
	if len(st.AuditLogs) != 1 || st.AuditLogs[0].Action != "VIEW: Dashboard" {
		t.Fatalf("auditLogs=%+v", st.AuditLogs)
	}
}

func TestLogAdminAction_WriteFailureSkipsReload(t *testing.T) {
	trail := &auditTrail{}
	s := New(context.Background(), &usermock.Repo{}, trail, zap.NewNop())

	trail.recErr = errors.New("boom")
	trail.listErr = errors.New("list must not be called")
	s.LogAdminAction(context.Background(), "u-1", "VIEW: Dashboard")

	st := s.Snapshot()
	// Audit failures never surface to admin-facing state.
	if st.Error != "" {
		t.Fatalf("error=%q, want none", st.Error)
	}
	if len(st.AuditLogs) != 0 {
		t.Fatalf("trail must not reload after a failed write")
	}
}

func TestLogUserManagementAction_Convention(t *testing.T) {
	trail := &auditTrail{}
	s := New(context.Background(), &usermock.Repo{}, trail, zap.NewNop())

	s.LogUserManagementAction(context.Background(), "u-1", "DEACTIVATE", "u-2")

	want := fmt.Sprintf("%s: User %s", "DEACTIVATE", "u-2")
	if len(trail.recorded) != 1 || trail.recorded[0] != want {
		t.Fatalf("recorded=%v, want %q", trail.recorded, want)
	}
}

func TestLoadUsers_StaleResponseDiscarded(t *testing.T) {
	fresh := roster()
	users := &usermock.Repo{}
	s := New(context.Background(), users, &auditTrail{}, zap.NewNop())

	first := true
	users.ListFn = func(context.Context) ([]user.User, error) {
		if first {
			first = false
			inner := func(context.Context) ([]user.User, error) { return fresh, nil }
			users.ListFn = inner
			s.LoadUsers(context.Background())
			return []user.User{{UserID: "stale"}}, nil
		}
		return fresh, nil
	}

	s.LoadUsers(context.Background())

	st := s.Snapshot()
	if len(st.Users) != 3 {
		t.Fatalf("stale response overwrote newer roster: %+v", st.Users)
	}
	if st.IsLoading {
		t.Fatalf("loading flag must be cleared by the newest load")
	}
}

func TestLoadAuditLogs_StaleResponseDiscarded(t *testing.T) {
	fresh := []audit.Entry{
		{EntryID: "e-1", Action: "LOGIN: User u-1"},
		{EntryID: "e-2", Action: "LOGIN: User u-2"},
	}
	trail := &auditTrail{}
	s := New(context.Background(), &usermock.Repo{}, trail, zap.NewNop())

	first := true
	trail.listFn = func(context.Context, audit.ListFilter) ([]audit.Entry, error) {
		if first {
			first = false
			trail.listFn = func(context.Context, audit.ListFilter) ([]audit.Entry, error) {
				return fresh, nil
			}
			s.LoadAuditLogs(context.Background())
			return []audit.Entry{{EntryID: "stale"}}, nil
		}
		return fresh, nil
	}

	s.LoadAuditLogs(context.Background())

	st := s.Snapshot()
	if len(st.AuditLogs) != 2 || st.AuditLogs[0].EntryID != "e-1" {
		t.Fatalf("stale response overwrote newer trail: %+v", st.AuditLogs)
	}
	if st.IsLoading {
		t.Fatalf("loading flag must be cleared by the newest load")
	}
}
