package loantype

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("loan type not found")

// Config is the product catalog entry for one loan type: the amount and term
// envelope the wizard enforces, and which extra form sections it needs.
type Config struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	ConfigID      string         `gorm:"size:32;uniqueIndex:ux_loan_types_config_id" json:"config_id"`
	Name          string         `gorm:"size:32;uniqueIndex:ux_loan_types_name" json:"name"`
	MinAmount     float64        `gorm:"type:decimal(18,2)" json:"min_amount"`
	MaxAmount     float64        `gorm:"type:decimal(18,2)" json:"max_amount"`
	MaxTermMonths int            `json:"max_term_months"`
	// Comma-separated list of extra wizard sections (vehicle_info, property_address).
	RequiredFields string         `gorm:"type:text" json:"required_fields"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Config) TableName() string { return "loan_types" }

// Fields splits RequiredFields into its sections.
func (c Config) Fields() []string {
	if c.RequiredFields == "" {
		return nil
	}
	parts := strings.Split(c.RequiredFields, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// InRange reports whether the amount and term fit this product's envelope.
func (c Config) InRange(amount float64, termMonths int) bool {
	return amount >= c.MinAmount && amount <= c.MaxAmount && termMonths <= c.MaxTermMonths
}
