package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailTaken  = errors.New("email already registered")
	ErrBadPassword = errors.New("invalid credentials")
)

type Role string

const (
	RoleCustomer    Role = "customer"
	RoleLoanOfficer Role = "loan-officer"
	RoleUnderwriter Role = "underwriter"
	RoleAdmin       Role = "admin"
)

// CanReview reports whether the role may act on the underwriting queue.
func (r Role) CanReview() bool {
	return r == RoleUnderwriter || r == RoleAdmin
}

type User struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID       string         `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Email        string         `gorm:"size:128;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;size:72" json:"-"`
	Role         Role           `gorm:"size:16;default:'customer'" json:"role"`
	FirstName    string         `gorm:"size:64" json:"first_name"`
	LastName     string         `gorm:"size:64" json:"last_name"`
	Phone        string         `gorm:"size:24" json:"phone"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
