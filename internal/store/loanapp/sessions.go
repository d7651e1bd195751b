package loanapp

import (
	"sync"

	"go.uber.org/zap"
)

// Sessions hands out one application store per user. Stores are created on
// first use and live for the process lifetime; they are constructed here,
// at the composition root's request, never as package-level singletons.
type Sessions struct {
	mu     sync.Mutex
	stores map[string]*Store

	fetcher   LoanFetcher
	submitter LoanSubmitter
	drafts    DraftSaver
	log       *zap.Logger
}

func NewSessions(fetcher LoanFetcher, submitter LoanSubmitter, drafts DraftSaver, log *zap.Logger) *Sessions {
	return &Sessions{
		stores:    make(map[string]*Store),
		fetcher:   fetcher,
		submitter: submitter,
		drafts:    drafts,
		log:       log,
	}
}

// For returns the store owned by ownerID, creating it on first use.
func (s *Sessions) For(ownerID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.stores[ownerID]; ok {
		return st
	}
	st := New(ownerID, s.fetcher, s.submitter, s.drafts, s.log)
	s.stores[ownerID] = st
	return st
}
