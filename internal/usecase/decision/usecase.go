package decision

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainLoan "loanorigin/internal/domain/loan"
	domainUW "loanorigin/internal/domain/underwriting"
	"loanorigin/internal/domain/uow"
	"loanorigin/internal/rules/risk"
	audituc "loanorigin/internal/usecase/audit"
	"loanorigin/pkg/id"
)

var ErrInvalidDecision = errors.New("decision must be approve or reject")

type DecideInput struct {
	LoanID         string
	ReviewerID     string
	Decision       domainUW.DecisionType
	Notes          string
	ApprovedAmount *float64
}

// Usecase records underwriting decisions. The decide flow runs in a single
// transaction with the loan row locked: state guard, decision insert, and
// loan update either all land or none do.
type Usecase struct {
	uow       uow.UnitOfWork
	decisions domainUW.Repository
	audit     *audituc.Recorder
	now       func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, decisions domainUW.Repository, audit *audituc.Recorder) *Usecase {
	return &Usecase{
		uow:       tx,
		decisions: decisions,
		audit:     audit,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) Decide(ctx context.Context, in DecideInput) (*domainUW.Decision, error) {
	if in.Decision != domainUW.DecisionApprove && in.Decision != domainUW.DecisionReject {
		return nil, ErrInvalidDecision
	}

	var out *domainUW.Decision
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		// Only pending loans can be decided.
		if l.Status != domainLoan.StatusPending {
			if l.Status == domainLoan.StatusApproved || l.Status == domainLoan.StatusRejected {
				return domainUW.ErrAlreadyDecided
			}
			return domainLoan.ErrInvalidTransition
		}

		if _, err := r.Decisions.GetByLoanRef(ctx, l.ID); err == nil {
			return domainUW.ErrAlreadyDecided
		} else if !errors.Is(err, domainUW.ErrNotFound) {
			return err
		}

		now := u.now()
		if in.Decision == domainUW.DecisionApprove {
			amount := l.RequestedAmount
			if in.ApprovedAmount != nil {
				amount = *in.ApprovedAmount
			}
			if err := l.Approve(amount, now); err != nil {
				return err
			}
		} else {
			if err := l.Reject(now); err != nil {
				return err
			}
		}

		d := &domainUW.Decision{
			DecisionID: id.NewID32(),
			LoanRef:    l.ID,
			LoanID:     l.LoanID,
			ReviewerID: in.ReviewerID,
			Decision:   in.Decision,
			Notes:      in.Notes,
			DecidedAt:  now,
		}
		// Capture the risk flags the reviewer saw at decision time.
		d.SetRiskFlags(risk.Evaluate(*l).Flags)

		if err := r.Decisions.Create(ctx, d); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = u.audit.Record(ctx, in.ReviewerID,
		fmt.Sprintf("DECIDE: Loan %s - %s", out.LoanID, out.Decision))
	return out, nil
}

func (u *Usecase) History(ctx context.Context, loanID string) ([]domainUW.Decision, error) {
	if loanID == "" {
		return u.decisions.List(ctx)
	}
	return u.decisions.ListByLoanID(ctx, loanID)
}
