// Package prediction projects next-month figures from stored metrics and
// raises dashboard alerts. Everything here is a pure function of its inputs.
package prediction

import (
	"fmt"
	"math"

	goalsdomain "github.com/runwayhq/runway/internal/goals/domain"
	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
	overduedomain "github.com/runwayhq/runway/internal/overdue/domain"
)

type AlertType string

const (
	AlertTypeWarning AlertType = "warning"
	AlertTypeDanger  AlertType = "danger"
	AlertTypeSuccess AlertType = "success"
)

type AlertPriority string

const (
	AlertPriorityHigh   AlertPriority = "high"
	AlertPriorityMedium AlertPriority = "medium"
	AlertPriorityLow    AlertPriority = "low"
)

// Alert IDs are fixed so the UI can dedupe across refreshes.
const (
	AlertMRRBelowTarget       = "mrr-below-target"
	AlertHighChurn            = "high-churn"
	AlertNegativeCash         = "negative-cash"
	AlertCustomersBelowTarget = "customers-below-target"
	AlertOverduePayments      = "overdue-payments"
	AlertCriticalOverdue      = "critical-overdue"
)

type Alert struct {
	ID       string        `json:"id"`
	Type     AlertType     `json:"type"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Priority AlertPriority `json:"priority"`
}

// Prediction holds next-month projections against the account's goals.
type Prediction struct {
	ExpectedMRR            float64 `json:"expectedMrr"`
	ExpectedNewCustomers   int     `json:"expectedNewCustomers"`
	ExpectedTotalCustomers int     `json:"expectedTotalCustomers"`
	CurrentCash            float64 `json:"currentCash"`
	Alerts                 []Alert `json:"alerts"`
}

// Compute projects the next month from the two most recent stored months.
// Without both months there is no growth baseline, so the result is all-zero
// with no alerts.
func Compute(
	latest, previous *metricsdomain.MonthlyMetric,
	goals goalsdomain.Goals,
	overdue overduedomain.Report,
) Prediction {
	if latest == nil || previous == nil {
		return Prediction{Alerts: []Alert{}}
	}

	expectedNew := int(math.Round(float64(latest.NewCustomers) * (1 + goals.NewCustomersGrowthTarget/100)))
	p := Prediction{
		ExpectedMRR:            latest.MRR * (1 + goals.MRRGrowthTarget/100),
		ExpectedNewCustomers:   expectedNew,
		ExpectedTotalCustomers: latest.TotalCustomers + expectedNew,
		CurrentCash:            latest.MRR - latest.BurnRateTotal,
		Alerts:                 []Alert{},
	}

	if growth := growthRate(latest.MRR, previous.MRR); growth < goals.MRRGrowthTarget {
		p.Alerts = append(p.Alerts, Alert{
			ID:       AlertMRRBelowTarget,
			Type:     AlertTypeWarning,
			Title:    "MRR growth below target",
			Message:  fmt.Sprintf("MRR grew %.1f%% against a %.1f%% target", growth, goals.MRRGrowthTarget),
			Priority: AlertPriorityHigh,
		})
	}

	if latest.Churn > goals.MaxChurnRate {
		p.Alerts = append(p.Alerts, Alert{
			ID:       AlertHighChurn,
			Type:     AlertTypeDanger,
			Title:    "Churn above limit",
			Message:  fmt.Sprintf("churn is %.1f%%, limit is %.1f%%", latest.Churn, goals.MaxChurnRate),
			Priority: AlertPriorityHigh,
		})
	}

	if p.CurrentCash < 0 {
		p.Alerts = append(p.Alerts, Alert{
			ID:       AlertNegativeCash,
			Type:     AlertTypeDanger,
			Title:    "Negative cash position",
			Message:  fmt.Sprintf("burn exceeds MRR by %.2f", -p.CurrentCash),
			Priority: AlertPriorityHigh,
		})
	}

	// Acquisition pace is measured on new customers per month, not on the
	// cumulative base, which keeps growing even when acquisition stalls.
	if growth := growthRate(float64(latest.NewCustomers), float64(previous.NewCustomers)); growth < goals.NewCustomersGrowthTarget {
		p.Alerts = append(p.Alerts, Alert{
			ID:       AlertCustomersBelowTarget,
			Type:     AlertTypeWarning,
			Title:    "Customer growth below target",
			Message:  fmt.Sprintf("new customers grew %.1f%% against a %.1f%% target", growth, goals.NewCustomersGrowthTarget),
			Priority: AlertPriorityMedium,
		})
	}

	if overdue.TotalValue > 0 {
		alertType, priority := AlertTypeWarning, AlertPriorityMedium
		if overdue.CriticalCount > 5 {
			alertType, priority = AlertTypeDanger, AlertPriorityHigh
		}
		p.Alerts = append(p.Alerts, Alert{
			ID:       AlertOverduePayments,
			Type:     alertType,
			Title:    "Overdue payments outstanding",
			Message:  fmt.Sprintf("%d customers owe %.2f in overdue payments", overdue.TotalCustomers, overdue.TotalValue),
			Priority: priority,
		})
	}

	if overdue.CriticalCount > 10 {
		p.Alerts = append(p.Alerts, Alert{
			ID:       AlertCriticalOverdue,
			Type:     AlertTypeDanger,
			Title:    "Critical overdue exposure",
			Message:  fmt.Sprintf("%d customers have debts older than the critical threshold", overdue.CriticalCount),
			Priority: AlertPriorityHigh,
		})
	}

	return p
}

// growthRate reads a zero baseline as flat growth, so targets still apply to
// an account's first measured month.
func growthRate(latest, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (latest - previous) / previous * 100
}
