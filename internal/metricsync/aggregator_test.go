package metricsync

import (
	"testing"
	"time"

	ledgerdomain "github.com/runwayhq/runway/internal/ledger/domain"
)

func date(year int, month time.Month, day int) ledgerdomain.Date {
	return ledgerdomain.Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func datePtr(year int, month time.Month, day int) *ledgerdomain.Date {
	d := date(year, month, day)
	return &d
}

func TestAggregateFebruaryScenario(t *testing.T) {
	customers := []ledgerdomain.Customer{
		{ID: "cus_a", Name: "A", CreatedAt: date(2024, 2, 5)},
		{ID: "cus_b", Name: "B", CreatedAt: date(2024, 1, 10)},
		{ID: "cus_c", Name: "C", CreatedAt: date(2023, 12, 1)},
	}
	subscriptions := []ledgerdomain.Subscription{
		{ID: "sub_1", CustomerID: "cus_a", Status: ledgerdomain.SubscriptionStatusActive, Value: 100, CreatedAt: date(2024, 2, 1)},
		{ID: "sub_2", CustomerID: "cus_c", Status: ledgerdomain.SubscriptionStatusInactive, Value: 200, CreatedAt: date(2024, 1, 1)},
	}
	payments := []ledgerdomain.Payment{
		{ID: "pay_1", CustomerID: "cus_a", SubscriptionID: "sub_1", Status: ledgerdomain.PaymentStatusReceived, Value: 100, PaymentDate: datePtr(2024, 2, 15), CreatedAt: date(2024, 2, 1)},
		{ID: "pay_2", CustomerID: "cus_b", Status: ledgerdomain.PaymentStatusReceived, Value: 50, PaymentDate: datePtr(2024, 2, 10), CreatedAt: date(2024, 2, 1)},
	}

	windows := Windows(time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), 12)
	metrics := Aggregate(windows, customers, subscriptions, payments)

	feb := metrics[len(metrics)-1]
	if feb.Month != "2024-02" {
		t.Fatalf("month = %s, want 2024-02", feb.Month)
	}
	if feb.MRR != 100 {
		t.Fatalf("mrr = %v, want 100", feb.MRR)
	}
	if feb.TotalRevenue != 150 {
		t.Fatalf("total revenue = %v, want 150", feb.TotalRevenue)
	}
	if feb.NewRevenue != 100 {
		t.Fatalf("new revenue = %v, want 100", feb.NewRevenue)
	}
	if feb.NewCustomers != 1 {
		t.Fatalf("new customers = %d, want 1", feb.NewCustomers)
	}
	if feb.TotalCustomers != 2 {
		t.Fatalf("total customers = %d, want 2", feb.TotalCustomers)
	}
	// only sub_2 existed before February, and it is inactive
	if feb.Churn != 100 {
		t.Fatalf("churn = %v, want 100", feb.Churn)
	}
	if feb.LTV != 1800 {
		t.Fatalf("ltv = %v, want 1800", feb.LTV)
	}
	if feb.BurnRateTotal != 0 {
		t.Fatalf("burn rate = %v, want 0", feb.BurnRateTotal)
	}
}

func TestAggregateRevenueDecomposition(t *testing.T) {
	customers := []ledgerdomain.Customer{
		{ID: "cus_a", CreatedAt: date(2024, 3, 1)},
	}
	payments := []ledgerdomain.Payment{
		{ID: "p1", CustomerID: "cus_a", SubscriptionID: "sub_1", Status: ledgerdomain.PaymentStatusReceived, Value: 120, PaymentDate: datePtr(2024, 3, 5), CreatedAt: date(2024, 3, 1)},
		{ID: "p2", CustomerID: "cus_a", Status: ledgerdomain.PaymentStatusReceived, Value: 80, PaymentDate: datePtr(2024, 3, 8), CreatedAt: date(2024, 3, 1)},
		{ID: "p3", CustomerID: "cus_a", Status: ledgerdomain.PaymentStatusOverdue, Value: 999, CreatedAt: date(2024, 3, 9)},
	}

	windows := Windows(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 3)
	metrics := Aggregate(windows, customers, nil, payments)

	march := metrics[len(metrics)-1]
	if march.MRR != 120 {
		t.Fatalf("mrr = %v, want 120", march.MRR)
	}
	if march.TotalRevenue != 200 {
		t.Fatalf("total revenue = %v, want 200 (overdue payment must not count)", march.TotalRevenue)
	}
	if march.MRR > march.TotalRevenue {
		t.Fatalf("mrr %v exceeds total revenue %v", march.MRR, march.TotalRevenue)
	}
}

func TestAggregatePaymentWithoutPaymentDateUsesCreation(t *testing.T) {
	payments := []ledgerdomain.Payment{
		{ID: "p1", CustomerID: "cus_a", SubscriptionID: "sub_1", Status: ledgerdomain.PaymentStatusReceived, Value: 40, CreatedAt: date(2024, 3, 10)},
	}

	windows := Windows(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 1)
	metrics := Aggregate(windows, nil, nil, payments)

	if metrics[0].TotalRevenue != 40 {
		t.Fatalf("total revenue = %v, want 40", metrics[0].TotalRevenue)
	}
}

func TestAggregateChurnBounds(t *testing.T) {
	subscriptions := []ledgerdomain.Subscription{
		{ID: "s1", Status: ledgerdomain.SubscriptionStatusInactive, Value: 10, CreatedAt: date(2023, 1, 1)},
		{ID: "s2", Status: ledgerdomain.SubscriptionStatusActive, Value: 10, CreatedAt: date(2023, 2, 1)},
		{ID: "s3", Status: ledgerdomain.SubscriptionStatusActive, Value: 10, CreatedAt: date(2023, 3, 1)},
	}

	windows := Windows(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 12)
	for _, m := range Aggregate(windows, nil, subscriptions, nil) {
		if m.Churn < 0 || m.Churn > 100 {
			t.Fatalf("month %s: churn %v out of [0,100]", m.Month, m.Churn)
		}
	}
}

func TestAggregateChurnZeroWithoutPriorBase(t *testing.T) {
	windows := Windows(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), 1)
	subscriptions := []ledgerdomain.Subscription{
		{ID: "s1", Status: ledgerdomain.SubscriptionStatusInactive, Value: 10, CreatedAt: date(2024, 2, 10)},
	}

	metrics := Aggregate(windows, nil, subscriptions, nil)
	if metrics[0].Churn != 0 {
		t.Fatalf("churn = %v, want 0 when no subscriptions predate the window", metrics[0].Churn)
	}
}
