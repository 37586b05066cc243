package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/runwayhq/runway/internal/accountctx"
	"github.com/runwayhq/runway/internal/clock"
	goalsdomain "github.com/runwayhq/runway/internal/goals/domain"
	"github.com/runwayhq/runway/internal/goals/repository"
	"github.com/runwayhq/runway/pkg/db"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (goalsdomain.Service, snowflake.ID) {
	t.Helper()

	gdb, err := db.NewTest()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&goalsdomain.Goals{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := New(Params{
		DB:    gdb,
		Repo:  repository.Provide(),
		Clock: clock.NewFakeClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)),
		Log:   zap.NewNop(),
	})
	return svc, node.Generate()
}

func TestGetReturnsDefaultsWhenUnset(t *testing.T) {
	svc, accountID := newTestService(t)

	goals, err := svc.Get(accountctx.WithAccountID(context.Background(), accountID))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if goals.MRRGrowthTarget != 20 || goals.NewCustomersGrowthTarget != 15 || goals.MaxChurnRate != 5 {
		t.Fatalf("unexpected defaults: %+v", goals)
	}
}

func TestUpdateThenGet(t *testing.T) {
	svc, accountID := newTestService(t)
	ctx := accountctx.WithAccountID(context.Background(), accountID)

	updated, err := svc.Update(ctx, goalsdomain.UpdateGoalsRequest{
		MRRGrowthTarget:          30,
		NewCustomersGrowthTarget: 10,
		MaxChurnRate:             3,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MRRGrowthTarget != 30 {
		t.Fatalf("mrr target = %v, want 30", updated.MRRGrowthTarget)
	}

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MRRGrowthTarget != 30 || got.NewCustomersGrowthTarget != 10 || got.MaxChurnRate != 3 {
		t.Fatalf("unexpected goals: %+v", got)
	}
}

func TestUpdateTwiceOverwrites(t *testing.T) {
	svc, accountID := newTestService(t)
	ctx := accountctx.WithAccountID(context.Background(), accountID)

	if _, err := svc.Update(ctx, goalsdomain.UpdateGoalsRequest{MRRGrowthTarget: 30, NewCustomersGrowthTarget: 10, MaxChurnRate: 3}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if _, err := svc.Update(ctx, goalsdomain.UpdateGoalsRequest{MRRGrowthTarget: 25, NewCustomersGrowthTarget: 12, MaxChurnRate: 4}); err != nil {
		t.Fatalf("second update: %v", err)
	}

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MRRGrowthTarget != 25 || got.MaxChurnRate != 4 {
		t.Fatalf("unexpected goals: %+v", got)
	}
}

func TestUpdateRejectsNegativeTargets(t *testing.T) {
	svc, accountID := newTestService(t)

	_, err := svc.Update(accountctx.WithAccountID(context.Background(), accountID), goalsdomain.UpdateGoalsRequest{
		MRRGrowthTarget: -1,
	})
	if !errors.Is(err, goalsdomain.ErrInvalidTarget) {
		t.Fatalf("err = %v, want ErrInvalidTarget", err)
	}
}

func TestGetWithoutAccount(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Get(context.Background()); !errors.Is(err, goalsdomain.ErrInvalidAccount) {
		t.Fatalf("err = %v, want ErrInvalidAccount", err)
	}
}
