package loan

import "time"

// Draft is the in-progress application held in store state before submission.
// It has no server id until it is promoted to a pending Loan.
type Draft struct {
	Type            Type             `json:"type,omitempty"`
	RequestedAmount float64          `json:"requested_amount,omitempty"`
	TermMonths      int              `json:"term_months,omitempty"`
	Currency        string           `json:"currency,omitempty"`
	DownPayment     *float64         `json:"down_payment,omitempty"`
	Purpose         string           `json:"purpose,omitempty"`
	Applicant       Applicant        `json:"applicant"`
	CoSigner        *Applicant       `json:"co_signer,omitempty"`
	VehicleInfo     *VehicleInfo     `json:"vehicle_info,omitempty"`
	PropertyAddress *PropertyAddress `json:"property_address,omitempty"`
}

// ApplicantPatch carries partial applicant fields; nil means "leave as is".
type ApplicantPatch struct {
	FullName         *string           `json:"full_name,omitempty"`
	DateOfBirth      *string           `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SSN              *string           `json:"ssn,omitempty"`
	Income           *float64          `json:"income,omitempty"`
	EmploymentStatus *EmploymentStatus `json:"employment_status,omitempty"`
	CreditScore      *int              `json:"credit_score,omitempty"`
}

// DraftPatch carries partial loan fields merged into a Draft. Fields set in a
// later patch never erase fields set by an earlier one.
type DraftPatch struct {
	Type            *Type            `json:"type,omitempty" validate:"omitempty,oneof=personal auto mortgage"`
	RequestedAmount *float64         `json:"requested_amount,omitempty" validate:"omitempty,gt=0"`
	TermMonths      *int             `json:"term_months,omitempty" validate:"omitempty,gt=0"`
	Currency        *string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	DownPayment     *float64         `json:"down_payment,omitempty"`
	Purpose         *string          `json:"purpose,omitempty"`
	Applicant       *ApplicantPatch  `json:"applicant,omitempty"`
	CoSigner        *ApplicantPatch  `json:"co_signer,omitempty"`
	VehicleInfo     *VehicleInfo     `json:"vehicle_info,omitempty"`
	PropertyAddress *PropertyAddress `json:"property_address,omitempty"`
}

func (p ApplicantPatch) apply(a Applicant) Applicant {
	if p.FullName != nil {
		a.FullName = *p.FullName
	}
	if p.DateOfBirth != nil {
		a.DateOfBirth = *p.DateOfBirth
	}
	if p.SSN != nil {
		a.SSN = *p.SSN
	}
	if p.Income != nil {
		a.Income = *p.Income
	}
	if p.EmploymentStatus != nil {
		a.EmploymentStatus = *p.EmploymentStatus
	}
	if p.CreditScore != nil {
		score := *p.CreditScore
		a.CreditScore = &score
	}
	return a
}

// ApplyTo merges the patch into a stored applicant in place.
func (p ApplicantPatch) ApplyTo(a *Applicant) {
	*a = p.apply(*a)
}

// Apply merges the patch into a copy of the draft and returns it. The
// receiver is never mutated so snapshots stay immutable.
func (d Draft) Apply(p DraftPatch) Draft {
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.RequestedAmount != nil {
		d.RequestedAmount = *p.RequestedAmount
	}
	if p.TermMonths != nil {
		d.TermMonths = *p.TermMonths
	}
	if p.Currency != nil {
		d.Currency = *p.Currency
	}
	if p.DownPayment != nil {
		v := *p.DownPayment
		d.DownPayment = &v
	}
	if p.Purpose != nil {
		d.Purpose = *p.Purpose
	}
	if p.Applicant != nil {
		d.Applicant = p.Applicant.apply(d.Applicant)
	}
	if p.CoSigner != nil {
		var co Applicant
		if d.CoSigner != nil {
			co = *d.CoSigner
		}
		co = p.CoSigner.apply(co)
		d.CoSigner = &co
	}
	if p.VehicleInfo != nil {
		v := *p.VehicleInfo
		d.VehicleInfo = &v
	}
	if p.PropertyAddress != nil {
		a := *p.PropertyAddress
		d.PropertyAddress = &a
	}
	return d
}

// ToLoan promotes the draft to a submission-ready Loan with the given public
// id, pending status, and submission timestamp.
func (d Draft) ToLoan(loanID string, at time.Time) Loan {
	currency := d.Currency
	if currency == "" {
		currency = "USD"
	}
	l := Loan{
		LoanID:          loanID,
		Type:            d.Type,
		RequestedAmount: d.RequestedAmount,
		Currency:        currency,
		TermMonths:      d.TermMonths,
		Status:          StatusPending,
		DownPayment:     d.DownPayment,
		Purpose:         d.Purpose,
		SubmittedAt:     &at,
		Applicant:       d.Applicant,
		CoSigner:        d.CoSigner,
		VehicleInfo:     d.VehicleInfo,
		PropertyAddress: d.PropertyAddress,
	}
	return l
}
