package mysql

import (
	"context"

	domain "loanorigin/internal/domain/audit"

	"gorm.io/gorm"
)

type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Append(ctx context.Context, e *domain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// List returns entries newest first.
func (r *AuditRepository) List(ctx context.Context, f domain.ListFilter) ([]domain.Entry, error) {
	q := r.db.WithContext(ctx)
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Action != "" {
		q = q.Where("action LIKE ?", "%"+f.Action+"%")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []domain.Entry
	if err := q.Order("timestamp DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
