package underwriting

import "context"

type Repository interface {
	Create(ctx context.Context, d *Decision) error
	GetByLoanRef(ctx context.Context, loanRef uint64) (*Decision, error)
	ListByLoanID(ctx context.Context, loanID string) ([]Decision, error)
	List(ctx context.Context) ([]Decision, error)
}
