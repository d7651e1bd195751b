package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "loanorigin/internal/domain/loan"
	domainUW "loanorigin/internal/domain/underwriting"
	"loanorigin/internal/domain/uow"
	"loanorigin/pkg/id"
)

func makeDecision(loanRef uint64, loanID string) *domainUW.Decision {
	return &domainUW.Decision{
		DecisionID: id.NewID32(),
		LoanRef:    loanRef,
		LoanID:     loanID,
		ReviewerID: id.NewID32(),
		Decision:   domainUW.DecisionApprove,
		DecidedAt:  time.Now().UTC(),
	}
}

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	decRepo := NewDecisionRepository(db)

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoan("loan-commit")
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if l.ID == 0 {
			t.Fatalf("loan auto ID not set")
		}
		return r.Decisions.Create(ctx, makeDecision(l.ID, l.LoanID))
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	l, err := loanRepo.GetByLoanID(ctx, "loan-commit")
	if err != nil {
		t.Fatalf("loan not visible after commit: %v", err)
	}
	if _, err := decRepo.GetByLoanRef(ctx, l.ID); err != nil {
		t.Fatalf("decision not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)

	sentinel := errors.New("boom")
	_ = guow.WithinTx(ctx, func(r uow.Repos) error {
		l := makeLoan("loan-roll")
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if err := r.Decisions.Create(ctx, makeDecision(l.ID, l.LoanID)); err != nil {
			return err
		}
		return sentinel
	})

	if _, err := loanRepo.GetByLoanID(ctx, "loan-roll"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected loan gone after rollback, got %v", err)
	}
}

func TestGormUoW_WithinLoanTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	decRepo := NewDecisionRepository(db)

	seed := makeLoan("loan-target")
	if err := loanRepo.Create(ctx, seed); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	err := guow.WithinLoanTx(ctx, "loan-target", func(r uow.Repos, l *domain.Loan) error {
		if l == nil || l.LoanID != "loan-target" || l.Status != domain.StatusPending {
			t.Fatalf("unexpected loan passed to fn: %+v", l)
		}
		// The locked row carries its applicant for the decision rules.
		if l.Applicant.FullName != "Jane Doe" {
			t.Fatalf("applicant not loaded: %+v", l.Applicant)
		}

		if err := r.Decisions.Create(ctx, makeDecision(l.ID, l.LoanID)); err != nil {
			return err
		}
		if err := l.Approve(l.RequestedAmount, time.Now().UTC()); err != nil {
			return err
		}
		return r.Loans.Save(ctx, l)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx commit err: %v", err)
	}

	got, err := loanRepo.GetByLoanID(ctx, "loan-target")
	if err != nil {
		t.Fatalf("GetByLoanID post-commit: %v", err)
	}
	if got.Status != domain.StatusApproved {
		t.Fatalf("loan status not updated, got=%s", got.Status)
	}
	if _, err := decRepo.GetByLoanRef(ctx, got.ID); err != nil {
		t.Fatalf("decision not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinLoanTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	loanRepo := NewLoanRepository(db)
	decRepo := NewDecisionRepository(db)

	seed := makeLoan("loan-rb")
	if err := loanRepo.Create(ctx, seed); err != nil {
		t.Fatalf("seed loan: %v", err)
	}

	sentinel := errors.New("stop")
	_ = guow.WithinLoanTx(ctx, "loan-rb", func(r uow.Repos, l *domain.Loan) error {
		if err := r.Decisions.Create(ctx, makeDecision(l.ID, l.LoanID)); err != nil {
			return err
		}
		if err := l.Approve(l.RequestedAmount, time.Now().UTC()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		return sentinel
	})

	got, err := loanRepo.GetByLoanID(ctx, "loan-rb")
	if err != nil {
		t.Fatalf("GetByLoanID after rollback: %v", err)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("rollback did not restore status, got=%s", got.Status)
	}
	if _, err := decRepo.GetByLoanRef(ctx, got.ID); !errors.Is(err, domainUW.ErrNotFound) {
		t.Fatalf("decision survived rollback, err=%v", err)
	}
}

func TestGormUoW_WithinLoanTx_UnknownLoan(t *testing.T) {
	db := openTestDB(t)
	guow := NewGormUoW(db)

	err := guow.WithinLoanTx(context.Background(), "loan-missing", func(uow.Repos, *domain.Loan) error {
		t.Fatalf("fn must not run for a missing loan")
		return nil
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestDecisionRepository_ListByLoanID(t *testing.T) {
	db := openTestDB(t)
	loanRepo := NewLoanRepository(db)
	decRepo := NewDecisionRepository(db)
	ctx := context.Background()

	l := makeLoan("loan-hist")
	if err := loanRepo.Create(ctx, l); err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	d := makeDecision(l.ID, l.LoanID)
	d.SetRiskFlags([]domainUW.RiskFlag{{Type: domainUW.RiskLowIncome, Description: "Income below $30k"}})
	if err := decRepo.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}

	hist, err := decRepo.ListByLoanID(ctx, "loan-hist")
	if err != nil {
		t.Fatalf("ListByLoanID: %v", err)
	}
	if len(hist) != 1 {
		t.Fatalf("hist=%d, want 1", len(hist))
	}
	// Risk flags survive the round trip through the JSON column.
	flags := hist[0].RiskFlags()
	if len(flags) != 1 || flags[0].Type != domainUW.RiskLowIncome {
		t.Fatalf("flags=%+v", flags)
	}

	all, err := decRepo.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("List: %v len=%d", err, len(all))
	}
}
