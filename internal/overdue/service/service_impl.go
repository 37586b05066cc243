package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/runwayhq/runway/internal/clock"
	"github.com/runwayhq/runway/internal/config"
	"github.com/runwayhq/runway/internal/ledger"
	ledgerdomain "github.com/runwayhq/runway/internal/ledger/domain"
	overduedomain "github.com/runwayhq/runway/internal/overdue/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Params struct {
	fx.In

	Client     *ledger.Client
	Thresholds *config.RiskThresholdsHolder
	Clock      clock.Clock
	Log        *zap.Logger
}

type service struct {
	client     *ledger.Client
	thresholds *config.RiskThresholdsHolder
	clock      clock.Clock
	log        *zap.Logger
}

func New(p Params) overduedomain.Service {
	return &service{
		client:     p.Client,
		thresholds: p.Thresholds,
		clock:      p.Clock,
		log:        p.Log.Named("overdue.service"),
	}
}

// Report recomputes the overdue risk snapshot from the live ledger. A payment
// due exactly OverdueAgeDays ago is old enough to be included.
func (s *service) Report(ctx context.Context) (overduedomain.Report, error) {
	th := s.thresholds.Get()
	today := midnight(s.clock.Now())
	cutoff := today.AddDate(0, 0, -th.OverdueAgeDays)

	payments, err := s.client.FetchOverduePayments(ctx, cutoff)
	if err != nil {
		return overduedomain.Report{}, err
	}
	if len(payments) == 0 {
		return overduedomain.Report{Customers: []overduedomain.Customer{}}, nil
	}

	grouped := make(map[string][]ledgerdomain.Payment)
	order := make([]string, 0)
	for _, payment := range payments {
		if _, seen := grouped[payment.CustomerID]; !seen {
			order = append(order, payment.CustomerID)
		}
		grouped[payment.CustomerID] = append(grouped[payment.CustomerID], payment)
	}

	identities := s.lookupIdentities(ctx, order, th.LookupConcurrency)
	if err := ctx.Err(); err != nil {
		return overduedomain.Report{}, err
	}

	report := overduedomain.Report{Customers: make([]overduedomain.Customer, 0, len(order))}
	for _, customerID := range order {
		entry := overduedomain.Customer{
			CustomerID: customerID,
			Name:       overduedomain.PlaceholderName,
		}
		if identity, ok := identities[customerID]; ok {
			entry.Name = identity.Name
			entry.Email = identity.Email
		}

		critical := false
		for _, payment := range grouped[customerID] {
			days := daysBetween(payment.DueDate.Time, today)
			entry.Payments = append(entry.Payments, overduedomain.Payment{
				ID:          payment.ID,
				Value:       payment.Value,
				BillingType: payment.BillingType,
				DueDate:     payment.DueDate.Time,
				DaysOverdue: days,
			})
			entry.TotalOverdue += payment.Value
			if entry.OldestOverdueDate.IsZero() || payment.DueDate.Time.Before(entry.OldestOverdueDate) {
				entry.OldestOverdueDate = payment.DueDate.Time
			}
			if days > th.CriticalAgeDays {
				critical = true
			}
		}
		entry.OverdueCount = len(entry.Payments)
		sort.SliceStable(entry.Payments, func(i, j int) bool {
			return entry.Payments[i].DaysOverdue > entry.Payments[j].DaysOverdue
		})

		report.Customers = append(report.Customers, entry)
		report.TotalValue += entry.TotalOverdue
		if critical {
			report.CriticalCount++
		}
	}

	sort.SliceStable(report.Customers, func(i, j int) bool {
		return report.Customers[i].TotalOverdue > report.Customers[j].TotalOverdue
	})
	report.TotalCustomers = len(report.Customers)

	s.log.Info("overdue report computed",
		zap.Int("customers", report.TotalCustomers),
		zap.Int("critical", report.CriticalCount),
		zap.Float64("total_value", report.TotalValue),
	)
	return report, nil
}

// lookupIdentities fans out identity fetches with bounded concurrency. A
// failed lookup is logged and skipped; the caller keeps the customer's
// payments under a placeholder identity.
func (s *service) lookupIdentities(ctx context.Context, customerIDs []string, concurrency int) map[string]ledgerdomain.Customer {
	var mu sync.Mutex
	identities := make(map[string]ledgerdomain.Customer, len(customerIDs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for _, customerID := range customerIDs {
		customerID := customerID
		group.Go(func() error {
			customer, err := s.client.GetCustomer(groupCtx, customerID)
			if err != nil {
				s.log.Warn("customer lookup failed",
					zap.String("customer_id", customerID),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			identities[customerID] = *customer
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()
	return identities
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(midnight(from)).Hours() / 24)
}
