// Package underwriting owns the review queue of submitted loans and the
// reviewer's workflow: select, decide, prioritize.
package underwriting

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"loanorigin/internal/domain/loan"
	domainUW "loanorigin/internal/domain/underwriting"
	"loanorigin/internal/rules/risk"
	"loanorigin/internal/state"
	"loanorigin/internal/usecase/decision"

	"go.uber.org/zap"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type State struct {
	Queue          []loan.Loan
	SelectedLoanID string
	SortOrder      SortOrder
	Loading        bool

	// Status the queue view narrows to; empty shows everything.
	FilterStatus loan.Status

	// Loan ids pinned to the head of the queue view, most recent first.
	Prioritized []string

	// Decisions recorded this session, newest last.
	Decisions []domainUW.Decision
}

// LoanFetcher lists loans for the queue. Satisfied by loan.Repository.
type LoanFetcher interface {
	List(ctx context.Context, f loan.ListFilter) ([]loan.Loan, error)
}

// Decider records an underwriting decision. Satisfied by decision.Usecase.
type Decider interface {
	Decide(ctx context.Context, in decision.DecideInput) (*domainUW.Decision, error)
}

type Store struct {
	state   *state.Container[State]
	fetcher LoanFetcher
	decider Decider
	log     *zap.Logger

	loadSeq atomic.Uint64
}

func New(fetcher LoanFetcher, decider Decider, log *zap.Logger) *Store {
	return &Store{
		state:   state.New(State{SortOrder: SortAsc}),
		fetcher: fetcher,
		decider: decider,
		log:     log.With(zap.String("store", "underwriting")),
	}
}

func (s *Store) Snapshot() State { return s.state.Snapshot() }

func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.state.Subscribe(fn)
}

// LoadSubmittedLoans fetches pending loans and replaces the queue wholesale.
// Failures are logged and swallowed: the queue keeps its last-known-good
// contents.
func (s *Store) LoadSubmittedLoans(ctx context.Context) {
	seq := s.loadSeq.Add(1)
	s.state.Update(func(st State) State {
		st.Loading = true
		return st
	})

	loans, err := s.fetcher.List(ctx, loan.ListFilter{Status: loan.StatusPending})
	stale := false
	s.state.Update(func(st State) State {
		// Re-checked under the container lock so a refresh that completed
		// after ours started keeps ownership of the queue.
		if seq != s.loadSeq.Load() {
			stale = true
			return st
		}
		st.Loading = false
		if err == nil {
			st.Queue = loans
		}
		return st
	})
	if stale {
		s.log.Debug("discarding stale queue load", zap.Uint64("seq", seq))
		return
	}
	if err != nil {
		s.log.Error("load review queue failed", zap.Error(err))
	}
}

// SelectLoanForReview marks the loan the reviewer is looking at.
func (s *Store) SelectLoanForReview(loanID string) {
	s.state.Update(func(st State) State {
		st.SelectedLoanID = loanID
		return st
	})
}

// ApplyUnderwritingFilters narrows the queue view to one status; empty
// clears the filter. The underlying queue is untouched.
func (s *Store) ApplyUnderwritingFilters(status loan.Status) {
	s.state.Update(func(st State) State {
		st.FilterStatus = status
		return st
	})
}

func (s *Store) SetSortOrder(order SortOrder) {
	s.state.Update(func(st State) State {
		st.SortOrder = order
		return st
	})
}

// PrioritizeLoan pins the loan to the head of the queue view. Ordering only;
// scores and decisions are unaffected.
func (s *Store) PrioritizeLoan(loanID string) {
	s.state.Update(func(st State) State {
		pinned := make([]string, 0, len(st.Prioritized)+1)
		pinned = append(pinned, loanID)
		for _, id := range st.Prioritized {
			if id != loanID {
				pinned = append(pinned, id)
			}
		}
		st.Prioritized = pinned
		return st
	})
}

// MarkLoanAsReviewed records the reviewer's decision through the
// transactional decider, then removes the loan from the queue and keeps the
// decision record in state. On failure the queue is untouched and the error
// is returned for the caller to surface.
func (s *Store) MarkLoanAsReviewed(ctx context.Context, in decision.DecideInput) (*domainUW.Decision, error) {
	d, err := s.decider.Decide(ctx, in)
	if err != nil {
		s.log.Error("decision failed", zap.String("loan_id", in.LoanID), zap.Error(err))
		return nil, err
	}

	s.state.Update(func(st State) State {
		queue := make([]loan.Loan, 0, len(st.Queue))
		for _, l := range st.Queue {
			if l.LoanID != d.LoanID {
				queue = append(queue, l)
			}
		}
		st.Queue = queue
		if st.SelectedLoanID == d.LoanID {
			st.SelectedLoanID = ""
		}
		decisions := make([]domainUW.Decision, len(st.Decisions), len(st.Decisions)+1)
		copy(decisions, st.Decisions)
		st.Decisions = append(decisions, *d)
		return st
	})
	return d, nil
}

// QueueView is the derived review queue: status-filtered, sorted by
// submission time per SortOrder, with prioritized loans pinned to the head.
func (s *Store) QueueView() []loan.Loan {
	st := s.state.Snapshot()

	out := make([]loan.Loan, 0, len(st.Queue))
	for _, l := range st.Queue {
		if st.FilterStatus != "" && l.Status != st.FilterStatus {
			continue
		}
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := submittedOrEpoch(out[i]), submittedOrEpoch(out[j])
		if st.SortOrder == SortDesc {
			return b.Before(a)
		}
		return a.Before(b)
	})

	if len(st.Prioritized) == 0 {
		return out
	}
	pinned := make([]loan.Loan, 0, len(out))
	rest := make([]loan.Loan, 0, len(out))
	for _, id := range st.Prioritized {
		for _, l := range out {
			if l.LoanID == id {
				pinned = append(pinned, l)
			}
		}
	}
	for _, l := range out {
		if !containsID(st.Prioritized, l.LoanID) {
			rest = append(rest, l)
		}
	}
	return append(pinned, rest...)
}

// RiskProfileFor derives the risk profile for a queued loan.
func (s *Store) RiskProfileFor(loanID string) (risk.Profile, bool) {
	for _, l := range s.state.Snapshot().Queue {
		if l.LoanID == loanID {
			return risk.Evaluate(l), true
		}
	}
	return risk.Profile{}, false
}

func submittedOrEpoch(l loan.Loan) time.Time {
	if l.SubmittedAt == nil {
		return time.Time{}
	}
	return *l.SubmittedAt
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
