package user

import (
	"context"
	"fmt"

	domain "loanorigin/internal/domain/user"
	audituc "loanorigin/internal/usecase/audit"
)

type UpdateUserInput struct {
	Role      *domain.Role `json:"role,omitempty"`
	FirstName *string      `json:"first_name,omitempty"`
	LastName  *string      `json:"last_name,omitempty"`
	Phone     *string      `json:"phone,omitempty"`
}

type Usecase struct {
	repo  domain.Repository
	audit *audituc.Recorder
}

func NewUsecase(repo domain.Repository, audit *audituc.Recorder) *Usecase {
	return &Usecase{repo: repo, audit: audit}
}

func (u *Usecase) List(ctx context.Context) ([]domain.User, error) {
	return u.repo.List(ctx)
}

func (u *Usecase) Get(ctx context.Context, userID string) (*domain.User, error) {
	return u.repo.GetByUserID(ctx, userID)
}

func (u *Usecase) Update(ctx context.Context, actorID, userID string, in UpdateUserInput) (*domain.User, error) {
	usr, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Role != nil {
		usr.Role = *in.Role
	}
	if in.FirstName != nil {
		usr.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		usr.LastName = *in.LastName
	}
	if in.Phone != nil {
		usr.Phone = *in.Phone
	}
	if err := u.repo.Save(ctx, usr); err != nil {
		return nil, err
	}

	_ = u.audit.Record(ctx, actorID, fmt.Sprintf("UPDATE: User %s", usr.UserID))
	return usr, nil
}
