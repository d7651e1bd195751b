package loan

import (
	domain "loanorigin/internal/domain/loan"
)

type ApplicantInput struct {
	FullName         string                  `json:"full_name"`
	DateOfBirth      string                  `json:"date_of_birth"`
	SSN              string                  `json:"ssn"`
	Income           float64                 `json:"income"`
	EmploymentStatus domain.EmploymentStatus `json:"employment_status"`
	CreditScore      *int                    `json:"credit_score,omitempty"`
}

func (in ApplicantInput) toDomain() domain.Applicant {
	return domain.Applicant{
		FullName:         in.FullName,
		DateOfBirth:      in.DateOfBirth,
		SSN:              in.SSN,
		Income:           in.Income,
		EmploymentStatus: in.EmploymentStatus,
		CreditScore:      in.CreditScore,
	}
}

type CreateLoanInput struct {
	Type            domain.Type             `json:"type"`
	RequestedAmount float64                 `json:"requested_amount"`
	Currency        string                  `json:"currency"`
	TermMonths      int                     `json:"term_months"`
	DownPayment     *float64                `json:"down_payment,omitempty"`
	Purpose         string                  `json:"purpose,omitempty"`
	Applicant       ApplicantInput          `json:"applicant"`
	CoSigner        *ApplicantInput         `json:"co_signer,omitempty"`
	VehicleInfo     *domain.VehicleInfo     `json:"vehicle_info,omitempty"`
	PropertyAddress *domain.PropertyAddress `json:"property_address,omitempty"`
}

type UpdateLoanInput struct {
	Status         *domain.Status `json:"status,omitempty"`
	ApprovedAmount *float64       `json:"approved_amount,omitempty"`
}
