package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "loanorigin/internal/domain/loan"
	audituc "loanorigin/internal/usecase/audit"
	"loanorigin/pkg/id"
)

var ErrInvalidInput = errors.New("invalid input")

// Usecase backs the REST loan endpoints and the wizard's submit/draft
// collaborators. Every mutation leaves an audit entry; audit failures are
// logged by the recorder and never abort the primary action.
type Usecase struct {
	repo       domain.Repository
	applicants domain.ApplicantRepository
	audit      *audituc.Recorder
	now        func() time.Time
}

func NewUsecase(repo domain.Repository, applicants domain.ApplicantRepository, audit *audituc.Recorder) *Usecase {
	return &Usecase{
		repo:       repo,
		applicants: applicants,
		audit:      audit,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (u *Usecase) Create(ctx context.Context, actorID string, in CreateLoanInput) (*domain.Loan, error) {
	if in.RequestedAmount <= 0 || in.TermMonths <= 0 || in.Applicant.FullName == "" {
		return nil, ErrInvalidInput
	}

	applicant := in.Applicant.toDomain()
	applicant.ApplicantID = id.NewID32()
	if err := u.applicants.Create(ctx, &applicant); err != nil {
		return nil, err
	}

	var coSigner *domain.Applicant
	if in.CoSigner != nil {
		co := in.CoSigner.toDomain()
		co.ApplicantID = id.NewID32()
		if err := u.applicants.Create(ctx, &co); err != nil {
			return nil, err
		}
		coSigner = &co
	}

	now := u.now()
	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	l := &domain.Loan{
		LoanID:          id.NewLoanID(),
		Type:            in.Type,
		RequestedAmount: in.RequestedAmount,
		Currency:        currency,
		TermMonths:      in.TermMonths,
		Status:          domain.StatusPending,
		DownPayment:     in.DownPayment,
		Purpose:         in.Purpose,
		SubmittedAt:     &now,
		ApplicantRef:    applicant.ID,
		Applicant:       applicant,
		VehicleInfo:     in.VehicleInfo,
		PropertyAddress: in.PropertyAddress,
	}
	if coSigner != nil {
		l.CoSignerRef = &coSigner.ID
		l.CoSigner = coSigner
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	_ = u.audit.Record(ctx, actorID, fmt.Sprintf("CREATE: Loan %s", l.LoanID))
	return l, nil
}

// Submit persists a loan assembled by the application store: the store has
// already generated the public id and promoted the draft to pending.
func (u *Usecase) Submit(ctx context.Context, actorID string, l domain.Loan) (*domain.Loan, error) {
	if l.LoanID == "" || l.Status != domain.StatusPending {
		return nil, ErrInvalidInput
	}
	if l.Applicant.ApplicantID == "" {
		l.Applicant.ApplicantID = id.NewID32()
	}
	if err := u.applicants.Create(ctx, &l.Applicant); err != nil {
		return nil, err
	}
	l.ApplicantRef = l.Applicant.ID
	if l.CoSigner != nil {
		if l.CoSigner.ApplicantID == "" {
			l.CoSigner.ApplicantID = id.NewID32()
		}
		if err := u.applicants.Create(ctx, l.CoSigner); err != nil {
			return nil, err
		}
		l.CoSignerRef = &l.CoSigner.ID
	}
	if err := u.repo.Create(ctx, &l); err != nil {
		return nil, err
	}

	_ = u.audit.Record(ctx, actorID, fmt.Sprintf("SUBMIT: Loan %s", l.LoanID))
	return &l, nil
}

// SaveDraft upserts the owner's single draft-status loan so an in-progress
// application survives across sessions.
func (u *Usecase) SaveDraft(ctx context.Context, ownerID string, d domain.Draft) error {
	draftID := "draft-" + ownerID

	existing, err := u.repo.GetByLoanID(ctx, draftID)
	switch {
	case err == nil:
		existing.Type = d.Type
		existing.RequestedAmount = d.RequestedAmount
		existing.TermMonths = d.TermMonths
		existing.DownPayment = d.DownPayment
		existing.Purpose = d.Purpose
		return u.repo.Save(ctx, existing)
	case errors.Is(err, domain.ErrNotFound):
		l := d.ToLoan(draftID, u.now())
		l.Status = domain.StatusDraft
		l.SubmittedAt = nil
		l.Applicant.ApplicantID = id.NewID32()
		if err := u.applicants.Create(ctx, &l.Applicant); err != nil {
			return err
		}
		l.ApplicantRef = l.Applicant.ID
		l.CoSigner = nil
		return u.repo.Create(ctx, &l)
	default:
		return err
	}
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*domain.Loan, error) {
	return u.repo.GetByLoanID(ctx, loanID)
}

func (u *Usecase) List(ctx context.Context, f domain.ListFilter) ([]domain.Loan, error) {
	return u.repo.List(ctx, f)
}

// Update applies a status transition and, on approval, the approved amount.
// Any other field is immutable once submitted.
func (u *Usecase) Update(ctx context.Context, actorID, loanID string, in UpdateLoanInput) (*domain.Loan, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		switch *in.Status {
		case domain.StatusApproved:
			amount := l.RequestedAmount
			if in.ApprovedAmount != nil {
				amount = *in.ApprovedAmount
			}
			if err := l.Approve(amount, u.now()); err != nil {
				return nil, err
			}
		case domain.StatusRejected:
			if err := l.Reject(u.now()); err != nil {
				return nil, err
			}
		default:
			if err := l.Transition(*in.Status); err != nil {
				return nil, err
			}
			if *in.Status == domain.StatusPending {
				now := u.now()
				l.SubmittedAt = &now
			}
		}
	}

	if err := u.repo.Save(ctx, l); err != nil {
		return nil, err
	}

	action := fmt.Sprintf("UPDATE: Loan %s", l.LoanID)
	if in.Status != nil {
		action = fmt.Sprintf("UPDATE: Loan %s - Status: %s", l.LoanID, *in.Status)
	}
	_ = u.audit.Record(ctx, actorID, action)
	return l, nil
}

func (u *Usecase) Delete(ctx context.Context, actorID, loanID string) error {
	if err := u.repo.Delete(ctx, loanID); err != nil {
		return err
	}
	_ = u.audit.Record(ctx, actorID, fmt.Sprintf("DELETE: Loan %s", loanID))
	return nil
}
