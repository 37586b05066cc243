package service

import (
	"context"

	"github.com/runwayhq/runway/internal/accountctx"
	"github.com/runwayhq/runway/internal/clock"
	goalsdomain "github.com/runwayhq/runway/internal/goals/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Repo  goalsdomain.Repository
	Clock clock.Clock
	Log   *zap.Logger
}

type service struct {
	db    *gorm.DB
	repo  goalsdomain.Repository
	clock clock.Clock
	log   *zap.Logger
}

func New(p Params) goalsdomain.Service {
	return &service{
		db:    p.DB,
		repo:  p.Repo,
		clock: p.Clock,
		log:   p.Log.Named("goals.service"),
	}
}

func (s *service) Get(ctx context.Context) (goalsdomain.Goals, error) {
	accountID, ok := accountctx.AccountIDFromContext(ctx)
	if !ok {
		return goalsdomain.Goals{}, goalsdomain.ErrInvalidAccount
	}

	goals, err := s.repo.Find(ctx, s.db, accountID)
	if err != nil {
		return goalsdomain.Goals{}, err
	}
	if goals == nil {
		return goalsdomain.DefaultGoals(accountID), nil
	}
	return *goals, nil
}

func (s *service) Update(ctx context.Context, req goalsdomain.UpdateGoalsRequest) (goalsdomain.Goals, error) {
	accountID, ok := accountctx.AccountIDFromContext(ctx)
	if !ok {
		return goalsdomain.Goals{}, goalsdomain.ErrInvalidAccount
	}
	if req.MRRGrowthTarget < 0 || req.NewCustomersGrowthTarget < 0 || req.MaxChurnRate < 0 {
		return goalsdomain.Goals{}, goalsdomain.ErrInvalidTarget
	}

	now := s.clock.Now()
	goals := goalsdomain.Goals{
		AccountID:                accountID,
		MRRGrowthTarget:          req.MRRGrowthTarget,
		NewCustomersGrowthTarget: req.NewCustomersGrowthTarget,
		MaxChurnRate:             req.MaxChurnRate,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if err := s.repo.Upsert(ctx, s.db, &goals); err != nil {
		return goalsdomain.Goals{}, err
	}

	s.log.Info("goals updated", zap.String("account_id", accountID.String()))
	return goals, nil
}
