package underwriting

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("decision not found")
	ErrAlreadyDecided = errors.New("loan already has a decision")
)

type DecisionType string

const (
	DecisionApprove DecisionType = "approve"
	DecisionReject  DecisionType = "reject"
)

type RiskType string

const (
	RiskLowIncome          RiskType = "low_income"
	RiskPoorCredit         RiskType = "poor_credit"
	RiskHighDebt           RiskType = "high_debt"
	RiskUnstableEmployment RiskType = "unstable_employment"
)

type RiskFlag struct {
	Type        RiskType `json:"type"`
	Description string   `json:"description"`
}

// Decision is the record of a reviewer's approve/reject action on a queued
// loan. At most one active decision exists per loan.
type Decision struct {
	ID         uint64       `gorm:"primaryKey;column:id" json:"-"`
	DecisionID string       `gorm:"size:32;uniqueIndex:ux_decisions_decision_id" json:"decision_id"`
	LoanRef    uint64       `gorm:"column:loan_ref;uniqueIndex:ux_decisions_loan_active" json:"-"`
	LoanID     string       `gorm:"size:48;index" json:"loan_id"`
	ReviewerID string       `gorm:"size:32" json:"reviewer_id"`
	Decision   DecisionType `gorm:"size:8" json:"decision"`
	Notes      string       `gorm:"type:text" json:"notes"`
	// Risk flags captured at decision time, serialized as JSON.
	RiskFlagsJSON string         `gorm:"column:risk_flags;type:text" json:"-"`
	DecidedAt     time.Time      `json:"decided_at"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"-"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Decision) TableName() string { return "underwriting_decisions" }

func (d *Decision) SetRiskFlags(flags []RiskFlag) {
	if len(flags) == 0 {
		d.RiskFlagsJSON = ""
		return
	}
	b, err := json.Marshal(flags)
	if err != nil {
		return
	}
	d.RiskFlagsJSON = string(b)
}

func (d Decision) RiskFlags() []RiskFlag {
	if d.RiskFlagsJSON == "" {
		return nil
	}
	var flags []RiskFlag
	if err := json.Unmarshal([]byte(d.RiskFlagsJSON), &flags); err != nil {
		return nil
	}
	return flags
}
