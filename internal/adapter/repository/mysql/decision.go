package mysql

import (
	"context"

	domain "loanorigin/internal/domain/underwriting"

	"gorm.io/gorm"
)

type DecisionRepository struct{ db *gorm.DB }

func NewDecisionRepository(db *gorm.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

func (r *DecisionRepository) Create(ctx context.Context, d *domain.Decision) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DecisionRepository) GetByLoanRef(ctx context.Context, loanRef uint64) (*domain.Decision, error) {
	var out domain.Decision
	err := r.db.WithContext(ctx).Where("loan_ref = ?", loanRef).First(&out).Error
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotFound)
	}
	return &out, nil
}

func (r *DecisionRepository) ListByLoanID(ctx context.Context, loanID string) ([]domain.Decision, error) {
	var out []domain.Decision
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("decided_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DecisionRepository) List(ctx context.Context) ([]domain.Decision, error) {
	var out []domain.Decision
	err := r.db.WithContext(ctx).Order("decided_at DESC, id DESC").Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
