package loan

import "context"

// ListFilter narrows List results. Zero values mean "no filter"; pagination
// is 1-based with a zero Limit defaulting at the repository.
type ListFilter struct {
	Status Status
	Type   Type
	Page   int
	Limit  int
}

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Loan, error)
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, loanID string) error
}

type ApplicantRepository interface {
	List(ctx context.Context) ([]Applicant, error)
	GetByApplicantID(ctx context.Context, applicantID string) (*Applicant, error)
	Create(ctx context.Context, a *Applicant) error
	Save(ctx context.Context, a *Applicant) error
}
