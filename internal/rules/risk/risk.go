// Package risk scores a loan for underwriting scrutiny. Pure domain logic:
// no I/O, no side effects.
package risk

import (
	"loanorigin/internal/domain/loan"
	"loanorigin/internal/domain/underwriting"
)

type Level string

const (
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
)

type Profile struct {
	Score       int                       `json:"score"`
	Flags       []underwriting.RiskFlag   `json:"flags"`
	RiskLevel   Level                     `json:"risk_level"`
	Explanation []string                  `json:"explanation"`
}

// Evaluate starts from 100 and applies deductions in a fixed order, so flags
// and explanations are order-preserving. The score is deliberately not
// floored at zero; future deductions could in principle push it negative.
func Evaluate(l loan.Loan) Profile {
	score := 100
	flags := []underwriting.RiskFlag{}
	explanation := []string{}

	if l.Applicant.Income < 30000 {
		score -= 20
		flags = append(flags, underwriting.RiskFlag{
			Type:        underwriting.RiskLowIncome,
			Description: "Income below $30k",
		})
		explanation = append(explanation, "Low income reduces repayment confidence")
	}

	if l.Applicant.CreditScore != nil && *l.Applicant.CreditScore < 600 {
		score -= 25
		flags = append(flags, underwriting.RiskFlag{
			Type:        underwriting.RiskPoorCredit,
			Description: "Credit score below 600",
		})
		explanation = append(explanation, "Poor credit history increases default risk")
	}

	return Profile{
		Score:       score,
		Flags:       flags,
		RiskLevel:   classify(score),
		Explanation: explanation,
	}
}

func classify(score int) Level {
	switch {
	case score >= 80:
		return LevelLow
	case score >= 60:
		return LevelModerate
	default:
		return LevelHigh
	}
}
