package metricsync

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/runwayhq/runway/internal/accountctx"
	"github.com/runwayhq/runway/internal/clock"
	"github.com/runwayhq/runway/internal/config"
	"github.com/runwayhq/runway/internal/ledger"
	ledgerdomain "github.com/runwayhq/runway/internal/ledger/domain"
	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
	overduedomain "github.com/runwayhq/runway/internal/overdue/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Result summarizes one sync run.
type Result struct {
	MonthsWritten    int     `json:"monthsWritten"`
	OverdueValue     float64 `json:"overdueValue"`
	OverdueCustomers int     `json:"overdueCustomers"`
	Message          string  `json:"message"`
}

type Service interface {
	Run(ctx context.Context) (Result, error)
}

type Params struct {
	fx.In

	DB      *gorm.DB
	Repo    metricsdomain.Repository
	Client  *ledger.Client
	Overdue overduedomain.Service
	Cfg     config.Config
	Node    *snowflake.Node
	Clock   clock.Clock
	Log     *zap.Logger
}

type service struct {
	db      *gorm.DB
	repo    metricsdomain.Repository
	client  *ledger.Client
	overdue overduedomain.Service
	cfg     config.Config
	node    *snowflake.Node
	clock   clock.Clock
	log     *zap.Logger
}

func New(p Params) Service {
	return &service{
		db:      p.DB,
		repo:    p.Repo,
		client:  p.Client,
		overdue: p.Overdue,
		cfg:     p.Cfg,
		node:    p.Node,
		clock:   p.Clock,
		log:     p.Log.Named("metricsync.service"),
	}
}

// Run fetches the trailing months of ledger activity, derives one metric row
// per month and reconciles all of them into the store in one transaction. Any
// ledger error aborts the whole run before a single row is written.
func (s *service) Run(ctx context.Context) (Result, error) {
	accountID, ok := accountctx.AccountIDFromContext(ctx)
	if !ok {
		return Result{}, metricsdomain.ErrInvalidAccount
	}
	if err := s.cfg.Ledger.Validate(); err != nil {
		return Result{}, err
	}

	horizon := s.cfg.Ledger.HorizonMonths
	if horizon <= 0 {
		horizon = 12
	}
	windows := Windows(s.clock.Now(), horizon)
	since := windows[0].Start

	var (
		customers    []ledgerdomain.Customer
		activeSubs   []ledgerdomain.Subscription
		inactiveSubs []ledgerdomain.Subscription
		payments     []ledgerdomain.Payment
	)

	// Independent collections fetch concurrently; pagination within each is
	// serial inside the client.
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		customers, err = s.client.FetchCustomers(groupCtx, since)
		return err
	})
	group.Go(func() (err error) {
		activeSubs, err = s.client.FetchSubscriptions(groupCtx, ledgerdomain.SubscriptionStatusActive)
		return err
	})
	group.Go(func() (err error) {
		inactiveSubs, err = s.client.FetchSubscriptions(groupCtx, ledgerdomain.SubscriptionStatusInactive)
		return err
	})
	group.Go(func() (err error) {
		payments, err = s.client.FetchReceivedPayments(groupCtx, since)
		return err
	})
	if err := group.Wait(); err != nil {
		return Result{}, err
	}

	subscriptions := append(activeSubs, inactiveSubs...)
	metrics := Aggregate(windows, customers, subscriptions, payments)

	now := s.clock.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range metrics {
			metrics[i].ID = s.node.Generate()
			metrics[i].AccountID = accountID
			metrics[i].CreatedAt = now
			metrics[i].UpdatedAt = now
			if err := s.repo.UpsertComputed(ctx, tx, &metrics[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	report, err := s.overdue.Report(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		MonthsWritten:    len(metrics),
		OverdueValue:     report.TotalValue,
		OverdueCustomers: report.TotalCustomers,
		Message:          fmt.Sprintf("synced %d months of ledger data", len(metrics)),
	}
	s.log.Info("sync completed",
		zap.String("account_id", accountID.String()),
		zap.Int("months_written", result.MonthsWritten),
		zap.Int("customers", len(customers)),
		zap.Int("subscriptions", len(subscriptions)),
		zap.Int("payments", len(payments)),
		zap.Int("overdue_customers", result.OverdueCustomers),
	)
	return result, nil
}

var Module = fx.Module("metricsync",
	fx.Provide(New),
)
