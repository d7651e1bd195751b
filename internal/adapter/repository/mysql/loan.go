package mysql

import (
	"context"
	"errors"

	domain "loanorigin/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) scope(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Applicant").
		Preload("CoSigner").
		Preload("VehicleInfo").
		Preload("PropertyAddress")
}

func (r *LoanRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.Loan, error) {
	q := r.scope(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
		if f.Page > 1 {
			q = q.Offset((f.Page - 1) * f.Limit)
		}
	}

	var out []domain.Loan
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	var out domain.Loan
	err := r.scope(ctx).Where("loan_id = ?", loanID).First(&out).Error
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotFound)
	}
	return &out, nil
}

// GetByLoanIDForUpdate locks the loan row for the rest of the transaction.
// Only meaningful inside a tx; the lock covers the loans row, associations
// are fetched by follow-up preload queries. SQLite has no FOR UPDATE and
// serializes writers at the database level, so the clause is skipped there.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	q := r.scope(ctx)
	if r.db.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out domain.Loan
	err := q.Where("loan_id = ?", loanID).First(&out).Error
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) Create(ctx context.Context, l *domain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *domain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) Delete(ctx context.Context, loanID string) error {
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Delete(&domain.Loan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type ApplicantRepository struct{ db *gorm.DB }

func NewApplicantRepository(db *gorm.DB) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

func (r *ApplicantRepository) List(ctx context.Context) ([]domain.Applicant, error) {
	var out []domain.Applicant
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ApplicantRepository) GetByApplicantID(ctx context.Context, applicantID string) (*domain.Applicant, error) {
	var out domain.Applicant
	err := r.db.WithContext(ctx).Where("applicant_id = ?", applicantID).First(&out).Error
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotFound)
	}
	return &out, nil
}

func (r *ApplicantRepository) Create(ctx context.Context, a *domain.Applicant) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicantRepository) Save(ctx context.Context, a *domain.Applicant) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// notFoundAs translates gorm's sentinel into the domain's so callers never
// import gorm.
func notFoundAs(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
