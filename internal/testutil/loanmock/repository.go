package loanmock

import (
	"context"

	domain "loanorigin/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies loan.Repository. Fill in the
// function fields a test needs; unfilled getters report not-found.
type Repo struct {
	ListFn                 func(ctx context.Context, f domain.ListFilter) ([]domain.Loan, error)
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	SaveFn                 func(ctx context.Context, l *domain.Loan) error
	DeleteFn               func(ctx context.Context, loanID string) error
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, loanID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, loanID)
	}
	return nil
}

var _ domain.ApplicantRepository = (*ApplicantRepo)(nil)

// ApplicantRepo mocks loan.ApplicantRepository the same way.
type ApplicantRepo struct {
	ListFn             func(ctx context.Context) ([]domain.Applicant, error)
	GetByApplicantIDFn func(ctx context.Context, applicantID string) (*domain.Applicant, error)
	CreateFn           func(ctx context.Context, a *domain.Applicant) error
	SaveFn             func(ctx context.Context, a *domain.Applicant) error
}

func (m *ApplicantRepo) List(ctx context.Context) ([]domain.Applicant, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *ApplicantRepo) GetByApplicantID(ctx context.Context, applicantID string) (*domain.Applicant, error) {
	if m.GetByApplicantIDFn != nil {
		return m.GetByApplicantIDFn(ctx, applicantID)
	}
	return nil, domain.ErrNotFound
}

func (m *ApplicantRepo) Create(ctx context.Context, a *domain.Applicant) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *ApplicantRepo) Save(ctx context.Context, a *domain.Applicant) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}
