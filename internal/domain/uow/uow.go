package uow

import (
	"context"

	"loanorigin/internal/domain/loan"
	"loanorigin/internal/domain/underwriting"
)

type Repos struct {
	Loans     loan.Repository
	Decisions underwriting.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
