// Package admin owns the user roster, the audit trail view, and role-based
// filtering for the admin console.
package admin

import (
	"context"
	"fmt"
	"sync/atomic"

	"loanorigin/internal/domain/audit"
	"loanorigin/internal/domain/user"
	"loanorigin/internal/state"

	"go.uber.org/zap"
)

const (
	errLoadUsersFailed = "Failed to load users"
	errLoadLogsFailed  = "Failed to load audit logs"
)

// Filters narrows the roster view. Only the role filter participates in
// FilteredUsers today; search and active state are tracked for the console
// UI but deliberately not applied (kept from the reference behavior).
type Filters struct {
	Role       *user.Role
	IsActive   *bool
	SearchTerm string
}

type State struct {
	Users          []user.User
	SelectedUserID string
	AuditLogs      []audit.Entry
	Filters        Filters
	IsLoading      bool
	Error          string
}

// UserFetcher lists the roster. Satisfied by user.Repository.
type UserFetcher interface {
	List(ctx context.Context) ([]user.User, error)
}

// AuditLog reads and appends the audit trail.
type AuditLog interface {
	List(ctx context.Context, f audit.ListFilter) ([]audit.Entry, error)
	Record(ctx context.Context, userID, action string) error
}

type Store struct {
	state *state.Container[State]
	users UserFetcher
	trail AuditLog
	log   *zap.Logger

	userSeq atomic.Uint64
	logSeq  atomic.Uint64
}

// New constructs the store and loads both the roster and the audit trail,
// matching the console's behavior of populating at startup.
func New(ctx context.Context, users UserFetcher, trail AuditLog, log *zap.Logger) *Store {
	s := &Store{
		state: state.New(State{}),
		users: users,
		trail: trail,
		log:   log.With(zap.String("store", "admin")),
	}
	s.LoadUsers(ctx)
	s.LoadAuditLogs(ctx)
	return s
}

func (s *Store) Snapshot() State { return s.state.Snapshot() }

func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.state.Subscribe(fn)
}

func (s *Store) LoadUsers(ctx context.Context) {
	seq := s.userSeq.Add(1)
	s.state.Update(func(st State) State {
		st.IsLoading = true
		st.Error = ""
		return st
	})

	users, err := s.users.List(ctx)
	stale := false
	s.state.Update(func(st State) State {
		// Re-checked under the container lock so a load that finished after
		// ours started cannot be overwritten by our stale result.
		if seq != s.userSeq.Load() {
			stale = true
			return st
		}
		if err != nil {
			st.Error = errLoadUsersFailed
			st.IsLoading = false
			return st
		}
		st.Users = users
		st.IsLoading = false
		return st
	})
	if stale {
		s.log.Debug("discarding stale user load", zap.Uint64("seq", seq))
		return
	}
	if err != nil {
		s.log.Error("load users failed", zap.Error(err))
	}
}

func (s *Store) LoadAuditLogs(ctx context.Context) {
	seq := s.logSeq.Add(1)
	s.state.Update(func(st State) State {
		st.IsLoading = true
		st.Error = ""
		return st
	})

	entries, err := s.trail.List(ctx, audit.ListFilter{})
	stale := false
	s.state.Update(func(st State) State {
		if seq != s.logSeq.Load() {
			stale = true
			return st
		}
		if err != nil {
			st.Error = errLoadLogsFailed
			st.IsLoading = false
			return st
		}
		st.AuditLogs = entries
		st.IsLoading = false
		return st
	})
	if stale {
		s.log.Debug("discarding stale audit load", zap.Uint64("seq", seq))
		return
	}
	if err != nil {
		s.log.Error("load audit logs failed", zap.Error(err))
	}
}

// FilterUsersByType sets the role filter; nil clears it.
func (s *Store) FilterUsersByType(role *user.Role) {
	s.state.Update(func(st State) State {
		st.Filters.Role = role
		return st
	})
}

func (s *Store) UpdateSearchFilter(term string) {
	s.state.Update(func(st State) State {
		st.Filters.SearchTerm = term
		return st
	})
}

func (s *Store) ToggleUserActiveStatus(isActive bool) {
	s.state.Update(func(st State) State {
		st.Filters.IsActive = &isActive
		return st
	})
}

func (s *Store) ClearAllFilters() {
	s.state.Update(func(st State) State {
		st.Filters = Filters{}
		return st
	})
}

func (s *Store) SelectUser(userID string) {
	s.state.Update(func(st State) State {
		st.SelectedUserID = userID
		return st
	})
}

// FilteredUsers applies the role equality filter only; see Filters.
func (s *Store) FilteredUsers() []user.User {
	st := s.state.Snapshot()
	if st.Filters.Role == nil {
		return st.Users
	}
	out := make([]user.User, 0, len(st.Users))
	for _, u := range st.Users {
		if u.Role == *st.Filters.Role {
			out = append(out, u)
		}
	}
	return out
}

// LogAdminAction writes an audit entry and refreshes the trail view on
// success. Write failures are logged, never surfaced to state: audit logging
// must not fail the admin's primary action.
func (s *Store) LogAdminAction(ctx context.Context, actorID, action string) {
	if err := s.trail.Record(ctx, actorID, action); err != nil {
		// Recorder already logged the failure; nothing to surface.
		return
	}
	s.LoadAuditLogs(ctx)
}

// LogUserManagementAction records a user-management verb against a target
// user, following the "<VERB>: <Entity> <id>" convention.
func (s *Store) LogUserManagementAction(ctx context.Context, actorID, verb, targetUserID string) {
	s.LogAdminAction(ctx, actorID, fmt.Sprintf("%s: User %s", verb, targetUserID))
}
