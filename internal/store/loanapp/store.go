// Package loanapp owns the in-progress loan draft, the user's submitted
// loans, and the derived views the wizard and dashboard read. One store
// instance exists per user session; the store is the only writer of its
// state, consumers read snapshots and derived views.
package loanapp

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"loanorigin/internal/domain/loan"
	"loanorigin/internal/state"
	"loanorigin/pkg/id"

	"go.uber.org/zap"
)

const (
	errNoCurrentLoan = "No loan application to submit"
	errLoadFailed    = "Failed to load loans"
	errSubmitFailed  = "Failed to submit loan application"
)

// LoanFetcher lists the user's loans. Satisfied by loan.Repository.
type LoanFetcher interface {
	List(ctx context.Context, f loan.ListFilter) ([]loan.Loan, error)
}

// LoanSubmitter persists a submission-ready loan assembled by this store.
type LoanSubmitter interface {
	Submit(ctx context.Context, actorID string, l loan.Loan) (*loan.Loan, error)
}

// DraftSaver persists the in-progress draft so it survives the session.
type DraftSaver interface {
	SaveDraft(ctx context.Context, ownerID string, d loan.Draft) error
}

type Store struct {
	ownerID   string
	state     *state.Container[State]
	fetcher   LoanFetcher
	submitter LoanSubmitter
	drafts    DraftSaver
	log       *zap.Logger

	// Monotonic sequence so an overlapping load cannot overwrite a newer
	// response with a stale one: only the latest issued load may apply.
	loadSeq atomic.Uint64

	now   func() time.Time
	newID func() string
}

func New(ownerID string, fetcher LoanFetcher, submitter LoanSubmitter, drafts DraftSaver, log *zap.Logger) *Store {
	return &Store{
		ownerID:   ownerID,
		state:     state.New(initialState()),
		fetcher:   fetcher,
		submitter: submitter,
		drafts:    drafts,
		log:       log.With(zap.String("store", "loanapp"), zap.String("owner", ownerID)),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     id.NewLoanID,
	}
}

// Snapshot returns the current state value.
func (s *Store) Snapshot() State { return s.state.Snapshot() }

// Subscribe registers fn to run on every state change.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.state.Subscribe(fn)
}

// UpdateCurrentLoan merges the patch into the current draft, creating it if
// absent, and marks the draft unsaved. No validation happens here; that is
// the form layer's job.
func (s *Store) UpdateCurrentLoan(p loan.DraftPatch) {
	s.state.Update(func(st State) State {
		var d loan.Draft
		if st.CurrentLoan != nil {
			d = *st.CurrentLoan
		}
		d = d.Apply(p)
		st.CurrentLoan = &d
		st.IsDraftSaved = false
		return st
	})
}

// SetSelectedLoanType records the wizard's type choice and stamps it onto the
// draft.
func (s *Store) SetSelectedLoanType(t loan.Type) {
	s.state.Update(func(st State) State {
		var d loan.Draft
		if st.CurrentLoan != nil {
			d = *st.CurrentLoan
		}
		d.Type = t
		st.CurrentLoan = &d
		st.SelectedLoanType = t
		st.IsDraftSaved = false
		return st
	})
}

func (s *Store) SetFormStep(step int) {
	s.state.Update(func(st State) State {
		st.FormStep = step
		return st
	})
}

func (s *Store) SetStatusFilter(status string) {
	s.state.Update(func(st State) State {
		st.StatusFilter = status
		return st
	})
}

func (s *Store) SetSearchQuery(query string) {
	s.state.Update(func(st State) State {
		st.SearchQuery = query
		return st
	})
}

func (s *Store) SetError(msg string) {
	s.state.Update(func(st State) State {
		st.Error = msg
		return st
	})
}

// SaveCurrentLoanDraft stamps the local draft flags and, when a draft exists,
// persists it through the collaborator so it survives the session. A remote
// failure is logged but does not clear the local saved flag: the draft is
// still held in state.
func (s *Store) SaveCurrentLoanDraft(ctx context.Context) {
	snap := s.state.Snapshot()
	if snap.CurrentLoan == nil {
		return
	}
	if err := s.drafts.SaveDraft(ctx, s.ownerID, *snap.CurrentLoan); err != nil {
		s.log.Warn("remote draft save failed", zap.Error(err))
	}
	now := s.now()
	s.state.Update(func(st State) State {
		st.IsDraftSaved = true
		st.LastSavedAt = &now
		return st
	})
}

// LoadUserLoans fetches the user's loans. On failure the previous list stays
// in place so consumers can keep showing last-known-good data.
func (s *Store) LoadUserLoans(ctx context.Context) {
	seq := s.loadSeq.Add(1)
	s.state.Update(func(st State) State {
		st.IsLoading = true
		st.Error = ""
		return st
	})

	loans, err := s.fetcher.List(ctx, loan.ListFilter{})
	stale := false
	s.state.Update(func(st State) State {
		// Checked under the container lock: a newer load issued while this
		// one was in flight owns the loading flag and the result, even if it
		// finished between our fetch returning and this update running.
		if seq != s.loadSeq.Load() {
			stale = true
			return st
		}
		if err != nil {
			st.Error = errLoadFailed
			st.IsLoading = false
			return st
		}
		st.UserLoans = loans
		st.IsLoading = false
		return st
	})
	if stale {
		s.log.Debug("discarding stale load response", zap.Uint64("seq", seq))
		return
	}
	if err != nil {
		s.log.Error("load loans failed", zap.Error(err))
	}
}

// SubmitLoanApplication promotes the draft to a pending loan with a freshly
// generated id and persists it. With no draft present it records a
// recoverable error and never calls the collaborator. On failure the draft
// stays intact so the caller can retry.
func (s *Store) SubmitLoanApplication(ctx context.Context) {
	snap := s.state.Snapshot()
	if snap.CurrentLoan == nil {
		s.state.Update(func(st State) State {
			st.Error = errNoCurrentLoan
			return st
		})
		return
	}

	payload := snap.CurrentLoan.ToLoan(s.newID(), s.now())
	s.state.Update(func(st State) State {
		st.IsSubmitting = true
		st.Error = ""
		return st
	})

	submitted, err := s.submitter.Submit(ctx, s.ownerID, payload)
	if err != nil {
		s.log.Error("submit failed", zap.Error(err))
		s.state.Update(func(st State) State {
			st.Error = errSubmitFailed
			st.IsSubmitting = false
			return st
		})
		return
	}

	s.state.Update(func(st State) State {
		loans := make([]loan.Loan, len(st.UserLoans), len(st.UserLoans)+1)
		copy(loans, st.UserLoans)
		st.UserLoans = append(loans, *submitted)
		st.CurrentLoan = nil
		st.SubmittedLoan = submitted
		st.IsSubmitting = false
		st.FormStep = 0
		st.IsDraftSaved = false
		st.LastSavedAt = nil
		return st
	})
}

// ResetCurrentLoan clears the draft, the last submission, and the wizard
// progress flags.
func (s *Store) ResetCurrentLoan() {
	s.state.Update(func(st State) State {
		st.CurrentLoan = nil
		st.SubmittedLoan = nil
		st.FormStep = 0
		st.IsDraftSaved = false
		st.LastSavedAt = nil
		return st
	})
}

// CanProceedToNextStep is the wizard's step gate, recomputed from the draft
// and current step on every read.
func (s *Store) CanProceedToNextStep() bool {
	st := s.state.Snapshot()
	if st.CurrentLoan == nil {
		return false
	}
	d := st.CurrentLoan
	switch st.FormStep {
	case 0: // loan type selection
		return d.Type != ""
	case 1: // basic info
		return d.RequestedAmount > 0 && d.TermMonths > 0
	case 2: // applicant info
		return d.Applicant.FullName != "" && d.Applicant.DateOfBirth != ""
	default:
		return true
	}
}

// LoanByID finds a loan in the loaded list.
func (s *Store) LoanByID(loanID string) (loan.Loan, bool) {
	for _, l := range s.state.Snapshot().UserLoans {
		if l.LoanID == loanID {
			return l, true
		}
	}
	return loan.Loan{}, false
}

// FilterOptions parameterizes GetFilteredLoans. Zero values mean "skip".
type FilterOptions struct {
	Status      string // loan status or "all"
	SearchQuery string
	Limit       int
	SortBy      string // date | amount | status
	SortOrder   string // asc | desc
}

// GetFilteredLoans is a pure derived computation over the loaded loans:
// callers may invoke it repeatedly with different options without mutating
// store state.
func (s *Store) GetFilteredLoans(opts FilterOptions) []loan.Loan {
	src := s.state.Snapshot().UserLoans
	out := make([]loan.Loan, 0, len(src))

	query := strings.ToLower(strings.TrimSpace(opts.SearchQuery))
	for _, l := range src {
		if opts.Status != "" && opts.Status != StatusFilterAll && string(l.Status) != opts.Status {
			continue
		}
		if query != "" && !matchesQuery(l, query) {
			continue
		}
		out = append(out, l)
	}

	if opts.SortBy != "" {
		desc := opts.SortOrder == "desc"
		sort.SliceStable(out, func(i, j int) bool {
			var less bool
			switch opts.SortBy {
			case "amount":
				less = out[i].RequestedAmount < out[j].RequestedAmount
			case "status":
				less = out[i].Status < out[j].Status
			default: // date
				less = submittedOrEpoch(out[i]).Before(submittedOrEpoch(out[j]))
			}
			if desc {
				return !less && !equalKey(out[i], out[j], opts.SortBy)
			}
			return less
		})
	}

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func matchesQuery(l loan.Loan, query string) bool {
	return strings.Contains(strings.ToLower(l.LoanID), query) ||
		strings.Contains(strings.ToLower(l.Applicant.FullName), query) ||
		strings.Contains(strings.ToLower(string(l.Type)), query)
}

func submittedOrEpoch(l loan.Loan) time.Time {
	if l.SubmittedAt == nil {
		return time.Time{}
	}
	return *l.SubmittedAt
}

func equalKey(a, b loan.Loan, sortBy string) bool {
	switch sortBy {
	case "amount":
		return a.RequestedAmount == b.RequestedAmount
	case "status":
		return a.Status == b.Status
	default:
		return submittedOrEpoch(a).Equal(submittedOrEpoch(b))
	}
}
