// Package domain contains the overdue risk report shapes. The report is
// transient; every request recomputes it from the live ledger.
package domain

import "time"

// PlaceholderName identifies customers whose identity lookup failed. Their
// payments stay in the report.
const PlaceholderName = "Unknown customer"

// Payment is one past-due charge in the report.
type Payment struct {
	ID          string    `json:"id"`
	Value       float64   `json:"value"`
	BillingType string    `json:"billingType"`
	DueDate     time.Time `json:"dueDate"`
	DaysOverdue int       `json:"daysOverdue"`
}

// Customer groups a customer's past-due charges.
type Customer struct {
	CustomerID        string    `json:"customerId"`
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	TotalOverdue      float64   `json:"totalOverdue"`
	OverdueCount      int       `json:"overdueCount"`
	OldestOverdueDate time.Time `json:"oldestOverdueDate"`
	Payments          []Payment `json:"payments"`
}

// Report is the full overdue risk snapshot, customers ordered by total
// outstanding value descending.
type Report struct {
	Customers      []Customer `json:"customers"`
	TotalValue     float64    `json:"totalValue"`
	TotalCustomers int        `json:"totalCustomers"`
	CriticalCount  int        `json:"criticalCount"`
}
