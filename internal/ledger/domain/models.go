// Package domain contains typed records for the external billing provider.
// Responses are parsed once at the boundary; aggregation logic never touches
// raw JSON.
package domain

import (
	"strings"
	"time"
)

// SubscriptionStatus represents the provider-side subscription lifecycle.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusInactive SubscriptionStatus = "INACTIVE"
)

// PaymentStatus represents the provider-side payment state.
type PaymentStatus string

const (
	PaymentStatusReceived PaymentStatus = "RECEIVED"
	PaymentStatusOverdue  PaymentStatus = "OVERDUE"
)

// Date unmarshals the provider's calendar-date fields ("2006-01-02"). Some
// responses carry full timestamps; both forms are accepted.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	value := strings.Trim(string(b), `"`)
	if value == "" || value == "null" {
		d.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		d.Time = parsed.UTC()
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}
	d.Time = parsed.UTC()
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// Customer is the provider's customer identity record.
type Customer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	CreatedAt Date   `json:"dateCreated"`
}

// Subscription is the provider's recurring billing agreement. The provider
// exposes no reliable cancellation timestamp; DeletedAt is carried but often
// empty, so churn derivation relies on Status alone.
type Subscription struct {
	ID          string             `json:"id"`
	CustomerID  string             `json:"customer"`
	BillingType string             `json:"billingType"`
	Status      SubscriptionStatus `json:"status"`
	Value       float64            `json:"value"`
	CreatedAt   Date               `json:"dateCreated"`
	NextDueDate *Date              `json:"nextDueDate,omitempty"`
	DeletedAt   *Date              `json:"deletedDate,omitempty"`
}

// Inactive reports whether the subscription has been cancelled.
func (s Subscription) Inactive() bool {
	return s.Status == SubscriptionStatusInactive
}

// Payment is a single invoice/charge on the provider ledger.
type Payment struct {
	ID             string        `json:"id"`
	CustomerID     string        `json:"customer"`
	SubscriptionID string        `json:"subscription,omitempty"`
	BillingType    string        `json:"billingType"`
	Status         PaymentStatus `json:"status"`
	Value          float64       `json:"value"`
	NetValue       float64       `json:"netValue"`
	DueDate        Date          `json:"dueDate"`
	PaymentDate    *Date         `json:"paymentDate,omitempty"`
	CreatedAt      Date          `json:"dateCreated"`
}

// Recurring reports whether the payment belongs to a subscription.
func (p Payment) Recurring() bool {
	return strings.TrimSpace(p.SubscriptionID) != ""
}

// EffectiveDate is the date a payment counts toward: the settlement date when
// known, the creation date otherwise.
func (p Payment) EffectiveDate() time.Time {
	if p.PaymentDate != nil && !p.PaymentDate.IsZero() {
		return p.PaymentDate.Time
	}
	return p.CreatedAt.Time
}
