package decisionmock

import (
	"context"

	domain "loanorigin/internal/domain/underwriting"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies underwriting.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, d *domain.Decision) error
	GetByLoanRefFn func(ctx context.Context, loanRef uint64) (*domain.Decision, error)
	ListByLoanIDFn func(ctx context.Context, loanID string) ([]domain.Decision, error)
	ListFn         func(ctx context.Context) ([]domain.Decision, error)
}

func (m *Repo) Create(ctx context.Context, d *domain.Decision) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByLoanRef(ctx context.Context, loanRef uint64) (*domain.Decision, error) {
	if m.GetByLoanRefFn != nil {
		return m.GetByLoanRefFn(ctx, loanRef)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID string) ([]domain.Decision, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) List(ctx context.Context) ([]domain.Decision, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}
