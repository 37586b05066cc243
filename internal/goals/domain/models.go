// Package domain contains the account growth goals model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Default growth targets applied when an account never saved goals.
const (
	DefaultMRRGrowthTarget          = 20.0
	DefaultNewCustomersGrowthTarget = 15.0
	DefaultMaxChurnRate             = 5.0
)

// Goals holds one account's growth targets, in percent.
type Goals struct {
	AccountID snowflake.ID `gorm:"primaryKey" json:"accountId"`

	MRRGrowthTarget          float64 `gorm:"column:mrr_growth_target;not null" json:"mrrGrowthTarget"`
	NewCustomersGrowthTarget float64 `gorm:"not null" json:"newCustomersGrowthTarget"`
	MaxChurnRate             float64 `gorm:"not null" json:"maxChurnRate"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Goals) TableName() string { return "account_goals" }

// DefaultGoals returns the targets assumed for accounts without a saved row.
func DefaultGoals(accountID snowflake.ID) Goals {
	return Goals{
		AccountID:                accountID,
		MRRGrowthTarget:          DefaultMRRGrowthTarget,
		NewCustomersGrowthTarget: DefaultNewCustomersGrowthTarget,
		MaxChurnRate:             DefaultMaxChurnRate,
	}
}
