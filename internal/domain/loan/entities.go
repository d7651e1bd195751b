package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrInvalidTransition = errors.New("invalid loan status transition")
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// CanTransitionTo enforces draft -> pending -> {approved|rejected}.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusPending
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	default:
		return false
	}
}

type Type string

const (
	TypePersonal Type = "personal"
	TypeAuto     Type = "auto"
	TypeMortgage Type = "mortgage"
)

type EmploymentStatus string

const (
	EmploymentFullTime     EmploymentStatus = "full-time"
	EmploymentPartTime     EmploymentStatus = "part-time"
	EmploymentSelfEmployed EmploymentStatus = "self-employed"
	EmploymentUnemployed   EmploymentStatus = "unemployed"
	EmploymentRetired      EmploymentStatus = "retired"
)

type Applicant struct {
	ID          uint64 `gorm:"primaryKey;column:id" json:"-"`
	ApplicantID string `gorm:"size:32;uniqueIndex:ux_applicants_applicant_id" json:"applicant_id"`
	FullName    string `gorm:"size:128" json:"full_name"`
	// Canonical date `YYYY-MM-DD`, validated at the HTTP boundary.
	DateOfBirth      string           `gorm:"size:10" json:"date_of_birth"`
	SSN              string           `gorm:"column:ssn;size:16" json:"-"`
	Income           float64          `gorm:"type:decimal(18,2)" json:"income"`
	EmploymentStatus EmploymentStatus `gorm:"size:16" json:"employment_status"`
	CreditScore      *int             `json:"credit_score,omitempty"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"-"`
}

func (Applicant) TableName() string { return "applicants" }

type VehicleInfo struct {
	ID      uint64  `gorm:"primaryKey;column:id" json:"-"`
	LoanRef uint64  `gorm:"column:loan_ref;index" json:"-"`
	Make    string  `gorm:"size:64" json:"make"`
	Model   string  `gorm:"size:64" json:"model"`
	Year    int     `json:"year"`
	VIN     string  `gorm:"column:vin;size:17" json:"vin"`
	Mileage int     `json:"mileage"`
	Value   float64 `gorm:"type:decimal(18,2)" json:"value"`
}

func (VehicleInfo) TableName() string { return "vehicle_infos" }

type PropertyAddress struct {
	ID            uint64  `gorm:"primaryKey;column:id" json:"-"`
	LoanRef       uint64  `gorm:"column:loan_ref;index" json:"-"`
	Street        string  `gorm:"size:128" json:"street"`
	City          string  `gorm:"size:64" json:"city"`
	State         string  `gorm:"size:32" json:"state"`
	ZipCode       string  `gorm:"size:10" json:"zip_code"`
	PropertyValue float64 `gorm:"type:decimal(18,2)" json:"property_value"`
}

func (PropertyAddress) TableName() string { return "property_addresses" }

type Loan struct {
	ID              uint64           `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string           `gorm:"size:48;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	Type            Type             `gorm:"size:16" json:"type"`
	RequestedAmount float64          `gorm:"type:decimal(18,2)" json:"requested_amount"`
	ApprovedAmount  *float64         `gorm:"type:decimal(18,2)" json:"approved_amount,omitempty"`
	Currency        string           `gorm:"size:3;default:'USD'" json:"currency"`
	TermMonths      int              `json:"term_months"`
	Status          Status           `gorm:"size:16;default:'draft';index" json:"status"`
	DownPayment     *float64         `gorm:"type:decimal(18,2)" json:"down_payment,omitempty"`
	Purpose         string           `gorm:"type:text" json:"purpose,omitempty"`
	SubmittedAt     *time.Time       `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time       `json:"reviewed_at,omitempty"`
	ApplicantRef    uint64           `gorm:"column:applicant_ref" json:"-"`
	Applicant       Applicant        `gorm:"foreignKey:ApplicantRef" json:"applicant"`
	CoSignerRef     *uint64          `gorm:"column:co_signer_ref" json:"-"`
	CoSigner        *Applicant       `gorm:"foreignKey:CoSignerRef" json:"co_signer,omitempty"`
	VehicleInfo     *VehicleInfo     `gorm:"foreignKey:LoanRef" json:"vehicle_info,omitempty"`
	PropertyAddress *PropertyAddress `gorm:"foreignKey:LoanRef" json:"property_address,omitempty"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// Transition moves the loan to the next status, enforcing the lifecycle
// guard. Callers stamp SubmittedAt/ReviewedAt as appropriate.
func (l *Loan) Transition(next Status) error {
	if !l.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	l.Status = next
	return nil
}

// Approve transitions to approved and records the approved amount. The
// approved amount is only ever set through this path.
func (l *Loan) Approve(amount float64, at time.Time) error {
	if err := l.Transition(StatusApproved); err != nil {
		return err
	}
	l.ApprovedAmount = &amount
	l.ReviewedAt = &at
	return nil
}

// Reject transitions to rejected, leaving ApprovedAmount unset.
func (l *Loan) Reject(at time.Time) error {
	if err := l.Transition(StatusRejected); err != nil {
		return err
	}
	l.ReviewedAt = &at
	return nil
}
