package metricsync

import (
	"time"

	ledgerdomain "github.com/runwayhq/runway/internal/ledger/domain"
	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
)

// Aggregate derives one MonthlyMetric per window from the in-memory ledger
// collections. Output is ordered like windows, AccountID and IDs unset.
// Burn-rate columns stay zero; spend is never estimated from the ledger.
func Aggregate(
	windows []Window,
	customers []ledgerdomain.Customer,
	subscriptions []ledgerdomain.Subscription,
	payments []ledgerdomain.Payment,
) []metricsdomain.MonthlyMetric {
	customerCreated := make(map[string]time.Time, len(customers))
	for _, customer := range customers {
		customerCreated[customer.ID] = customer.CreatedAt.Time
	}

	metrics := make([]metricsdomain.MonthlyMetric, 0, len(windows))
	for _, window := range windows {
		metric := metricsdomain.MonthlyMetric{Month: window.Month()}

		for _, payment := range payments {
			if payment.Status != ledgerdomain.PaymentStatusReceived {
				continue
			}
			if !window.Contains(payment.EffectiveDate()) {
				continue
			}
			metric.TotalRevenue += payment.Value
			if payment.Recurring() {
				metric.MRR += payment.Value
			}
			if created, ok := customerCreated[payment.CustomerID]; ok && window.Contains(created) {
				metric.NewRevenue += payment.Value
			}
		}

		for _, customer := range customers {
			if window.Contains(customer.CreatedAt.Time) {
				metric.NewCustomers++
			}
		}

		// Cumulative subscriber base as of month end, any status. Inactive
		// subscriptions still count; the provider has no reliable
		// cancellation timestamp to shrink the base with.
		var subscriptionValue float64
		prevMonthEnd := window.Start.Add(-time.Nanosecond)
		var priorBase, priorInactive int
		for _, subscription := range subscriptions {
			created := subscription.CreatedAt.Time
			if !created.After(window.End) {
				metric.TotalCustomers++
				subscriptionValue += subscription.Value
			}
			if !created.After(prevMonthEnd) {
				priorBase++
				if subscription.Inactive() {
					priorInactive++
				}
			}
		}
		if metric.TotalCustomers > 0 {
			metric.LTV = subscriptionValue / float64(metric.TotalCustomers) * 12
		}
		if priorBase > 0 {
			metric.Churn = float64(priorInactive) / float64(priorBase) * 100
		}

		metrics = append(metrics, metric)
	}
	return metrics
}
