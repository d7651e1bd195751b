package mysql

import (
	"context"

	domain "loanorigin/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	var out domain.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&out).Error
	if err != nil {
		return nil, notFoundAs(err, domain.ErrNotFound)
	}
	return &out, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}
