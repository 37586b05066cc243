package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/runwayhq/runway/internal/accountctx"
	"github.com/runwayhq/runway/internal/clock"
	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
	"github.com/runwayhq/runway/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Repo  metricsdomain.Repository
	Node  *snowflake.Node
	Clock clock.Clock
	Log   *zap.Logger
}

type service struct {
	db    *gorm.DB
	repo  metricsdomain.Repository
	node  *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
}

func New(p Params) metricsdomain.Service {
	return &service{
		db:    p.DB,
		repo:  p.Repo,
		node:  p.Node,
		clock: p.Clock,
		log:   p.Log.Named("metrics.service"),
	}
}

func (s *service) List(ctx context.Context) ([]metricsdomain.MonthlyMetric, error) {
	accountID, ok := accountctx.AccountIDFromContext(ctx)
	if !ok {
		return nil, metricsdomain.ErrInvalidAccount
	}
	return s.repo.List(ctx, s.db, accountID)
}

func (s *service) Get(ctx context.Context, month string) (metricsdomain.MonthlyMetric, error) {
	accountID, ok := accountctx.AccountIDFromContext(ctx)
	if !ok {
		return metricsdomain.MonthlyMetric{}, metricsdomain.ErrInvalidAccount
	}
	if !metricsdomain.ValidMonth(month) {
		return metricsdomain.MonthlyMetric{}, metricsdomain.ErrInvalidMonth
	}

	metric, err := s.repo.FindByMonth(ctx, s.db, accountID, month)
	if err != nil {
		return metricsdomain.MonthlyMetric{}, err
	}
	if metric == nil {
		return metricsdomain.MonthlyMetric{}, metricsdomain.ErrMetricNotFound
	}
	return *metric, nil
}

func (s *service) Create(ctx context.Context, req metricsdomain.UpsertMetricRequest) (metricsdomain.MonthlyMetric, error) {
	accountID, ok := accountctx.AccountIDFromContext(ctx)
	if !ok {
		return metricsdomain.MonthlyMetric{}, metricsdomain.ErrInvalidAccount
	}
	if !metricsdomain.ValidMonth(req.Month) {
		return metricsdomain.MonthlyMetric{}, metricsdomain.ErrInvalidMonth
	}

	now := s.clock.Now()
	metric := metricsdomain.MonthlyMetric{
		ID:             s.node.Generate(),
		AccountID:      accountID,
		Month:          req.Month,
		MRR:            req.MRR,
		Churn:          req.Churn,
		NewRevenue:     req.NewRevenue,
		TotalRevenue:   req.TotalRevenue,
		NewCustomers:   req.NewCustomers,
		TotalCustomers: req.TotalCustomers,
		LTV:            req.LTV,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	metric.SetBurnRate(req.BurnRate)

	if err := s.repo.Insert(ctx, s.db, &metric); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return metricsdomain.MonthlyMetric{}, metricsdomain.ErrMetricExists
		}
		return metricsdomain.MonthlyMetric{}, err
	}

	s.log.Info("metric created",
		zap.String("account_id", accountID.String()),
		zap.String("month", metric.Month),
	)
	return metric, nil
}

func (s *service) Update(ctx context.Context, month string, req metricsdomain.UpsertMetricRequest) (metricsdomain.MonthlyMetric, error) {
	accountID, ok := accountctx.AccountIDFromContext(ctx)
	if !ok {
		return metricsdomain.MonthlyMetric{}, metricsdomain.ErrInvalidAccount
	}
	if !metricsdomain.ValidMonth(month) {
		return metricsdomain.MonthlyMetric{}, metricsdomain.ErrInvalidMonth
	}

	existing, err := s.repo.FindByMonth(ctx, s.db, accountID, month)
	if err != nil {
		return metricsdomain.MonthlyMetric{}, err
	}
	if existing == nil {
		return metricsdomain.MonthlyMetric{}, metricsdomain.ErrMetricNotFound
	}

	existing.MRR = req.MRR
	existing.Churn = req.Churn
	existing.NewRevenue = req.NewRevenue
	existing.TotalRevenue = req.TotalRevenue
	existing.NewCustomers = req.NewCustomers
	existing.TotalCustomers = req.TotalCustomers
	existing.LTV = req.LTV
	existing.SetBurnRate(req.BurnRate)
	existing.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return metricsdomain.MonthlyMetric{}, err
	}
	return *existing, nil
}

func (s *service) Delete(ctx context.Context, month string) error {
	accountID, ok := accountctx.AccountIDFromContext(ctx)
	if !ok {
		return metricsdomain.ErrInvalidAccount
	}
	if !metricsdomain.ValidMonth(month) {
		return metricsdomain.ErrInvalidMonth
	}

	existing, err := s.repo.FindByMonth(ctx, s.db, accountID, month)
	if err != nil {
		return err
	}
	if existing == nil {
		return metricsdomain.ErrMetricNotFound
	}
	return s.repo.Delete(ctx, s.db, accountID, month)
}
