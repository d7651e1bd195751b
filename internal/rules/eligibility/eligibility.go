// Package eligibility is the pass/fail gate evaluated before a loan reaches
// underwriting review. Pure domain logic: no I/O, no side effects.
package eligibility

import "loanorigin/internal/domain/loan"

const (
	// Inclusive-pass boundaries: an income of exactly MinIncome and an
	// amount of exactly MaxAmount both pass.
	MinIncome = 25000.0
	MaxAmount = 100000.0
)

type Result struct {
	IsEligible bool     `json:"is_eligible"`
	Reasons    []string `json:"reasons"`
}

// Check applies every rule independently and accumulates all failing
// reasons; it never short-circuits.
func Check(l loan.Loan) Result {
	reasons := []string{}

	if l.Applicant.Income < MinIncome {
		reasons = append(reasons, "Income below minimum threshold")
	}
	if l.Applicant.EmploymentStatus == loan.EmploymentUnemployed {
		reasons = append(reasons, "Applicant must be employed")
	}
	if l.RequestedAmount > MaxAmount {
		reasons = append(reasons, "Loan amount exceeds limit")
	}

	return Result{
		IsEligible: len(reasons) == 0,
		Reasons:    reasons,
	}
}
