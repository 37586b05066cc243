// Package domain contains persistence models for monthly startup metrics.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// MonthFormat is the canonical month key layout.
const MonthFormat = "2006-01"

// MonthlyMetric is one account's metrics for one calendar month. At most one
// row exists per (account_id, month). Burn-rate columns are owned by the
// manual entry path; the sync pipeline never updates them.
type MonthlyMetric struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	AccountID snowflake.ID `gorm:"not null;uniqueIndex:idx_monthly_metrics_account_month" json:"accountId"`
	Month     string       `gorm:"type:text;not null;uniqueIndex:idx_monthly_metrics_account_month" json:"month"`

	MRR            float64 `gorm:"column:mrr;not null;default:0" json:"mrr"`
	Churn          float64 `gorm:"not null;default:0" json:"churn"`
	NewRevenue     float64 `gorm:"not null;default:0" json:"newRevenue"`
	TotalRevenue   float64 `gorm:"not null;default:0" json:"totalRevenue"`
	NewCustomers   int     `gorm:"not null;default:0" json:"newCustomers"`
	TotalCustomers int     `gorm:"not null;default:0" json:"totalCustomers"`
	LTV            float64 `gorm:"column:ltv;not null;default:0" json:"ltv"`

	BurnRateTechnology     float64 `gorm:"not null;default:0" json:"burnRateTechnology"`
	BurnRateSalaries       float64 `gorm:"not null;default:0" json:"burnRateSalaries"`
	BurnRateProlabore      float64 `gorm:"not null;default:0" json:"burnRateProlabore"`
	BurnRateMarketing      float64 `gorm:"not null;default:0" json:"burnRateMarketing"`
	BurnRateAdministrative float64 `gorm:"not null;default:0" json:"burnRateAdministrative"`
	BurnRateOthers         float64 `gorm:"not null;default:0" json:"burnRateOthers"`
	BurnRateTotal          float64 `gorm:"not null;default:0" json:"burnRateTotal"`

	Metadata datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (MonthlyMetric) TableName() string { return "monthly_metrics" }

// BurnRate groups the manually entered spend categories.
type BurnRate struct {
	Technology     float64 `json:"technology"`
	Salaries       float64 `json:"salaries"`
	Prolabore      float64 `json:"prolabore"`
	Marketing      float64 `json:"marketing"`
	Administrative float64 `json:"administrative"`
	Others         float64 `json:"others"`
	Total          float64 `json:"total"`
}

// Sum totals the individual categories, ignoring any caller-provided total.
func (b BurnRate) Sum() float64 {
	return b.Technology + b.Salaries + b.Prolabore + b.Marketing + b.Administrative + b.Others
}

// BurnRate returns the metric's burn-rate columns as one value.
func (m MonthlyMetric) BurnRate() BurnRate {
	return BurnRate{
		Technology:     m.BurnRateTechnology,
		Salaries:       m.BurnRateSalaries,
		Prolabore:      m.BurnRateProlabore,
		Marketing:      m.BurnRateMarketing,
		Administrative: m.BurnRateAdministrative,
		Others:         m.BurnRateOthers,
		Total:          m.BurnRateTotal,
	}
}

// SetBurnRate writes the categories and recomputes the stored total.
func (m *MonthlyMetric) SetBurnRate(b BurnRate) {
	m.BurnRateTechnology = b.Technology
	m.BurnRateSalaries = b.Salaries
	m.BurnRateProlabore = b.Prolabore
	m.BurnRateMarketing = b.Marketing
	m.BurnRateAdministrative = b.Administrative
	m.BurnRateOthers = b.Others
	m.BurnRateTotal = b.Sum()
}

// ValidMonth reports whether value is a YYYY-MM month key.
func ValidMonth(value string) bool {
	_, err := time.Parse(MonthFormat, value)
	return err == nil
}
