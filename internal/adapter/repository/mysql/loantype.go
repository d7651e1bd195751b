package mysql

import (
	"context"

	domain "loanorigin/internal/domain/loantype"

	"gorm.io/gorm"
)

type LoanTypeRepository struct{ db *gorm.DB }

func NewLoanTypeRepository(db *gorm.DB) *LoanTypeRepository {
	return &LoanTypeRepository{db: db}
}

func (r *LoanTypeRepository) List(ctx context.Context) ([]domain.Config, error) {
	var out []domain.Config
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LoanTypeRepository) GetByName(ctx context.Context, name string) (*domain.Config, error) {
	var out domain.Config
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&out).Error
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanTypeRepository) Create(ctx context.Context, c *domain.Config) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *LoanTypeRepository) Save(ctx context.Context, c *domain.Config) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *LoanTypeRepository) Delete(ctx context.Context, configID string) error {
	res := r.db.WithContext(ctx).Where("config_id = ?", configID).Delete(&domain.Config{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
