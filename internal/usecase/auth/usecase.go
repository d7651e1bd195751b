package auth

import (
	"context"
	"errors"
	"fmt"

	domain "loanorigin/internal/domain/user"
	audituc "loanorigin/internal/usecase/audit"
	"loanorigin/pkg/id"

	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      domain.Role
}

type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type Usecase struct {
	users  domain.Repository
	tokens *TokenIssuer
	audit  *audituc.Recorder
}

func NewUsecase(users domain.Repository, tokens *TokenIssuer, audit *audituc.Recorder) *Usecase {
	return &Usecase{users: users, tokens: tokens, audit: audit}
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if _, err := u.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	usr := &domain.User{
		UserID:       id.NewID32(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}

	_ = u.audit.Record(ctx, usr.UserID, fmt.Sprintf("REGISTER: User %s", usr.UserID))

	token, err := u.tokens.Issue(*usr)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: *usr}, nil
}

func (u *Usecase) Login(ctx context.Context, email, password string) (*Session, error) {
	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBadPassword
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrBadPassword
	}

	_ = u.audit.Record(ctx, usr.UserID, fmt.Sprintf("LOGIN: User %s", usr.UserID))

	token, err := u.tokens.Issue(*usr)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: *usr}, nil
}

// Verify parses a bearer token into its claims for the auth middleware.
func (u *Usecase) Verify(tokenStr string) (*Claims, error) {
	return u.tokens.Parse(tokenStr)
}
