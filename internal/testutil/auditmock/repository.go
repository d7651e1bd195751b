package auditmock

import (
	"context"
	"sync"

	domain "loanorigin/internal/domain/audit"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is an appending in-memory mock for audit.Repository. Tests can also
// override behavior through the function fields.
type Repo struct {
	mu      sync.Mutex
	Entries []domain.Entry

	AppendFn func(ctx context.Context, e *domain.Entry) error
	ListFn   func(ctx context.Context, f domain.ListFilter) ([]domain.Entry, error)
}

func (m *Repo) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, *e)
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Entry, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Entry, len(m.Entries))
	copy(out, m.Entries)
	return out, nil
}
