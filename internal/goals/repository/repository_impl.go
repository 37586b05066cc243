package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	goalsdomain "github.com/runwayhq/runway/internal/goals/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() goalsdomain.Repository {
	return &repo{}
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, accountID snowflake.ID) (*goalsdomain.Goals, error) {
	var goals goalsdomain.Goals
	err := db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&goals).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &goals, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, goals *goalsdomain.Goals) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO account_goals (
			account_id, mrr_growth_target, new_customers_growth_target,
			max_churn_rate, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (account_id)
		DO UPDATE SET mrr_growth_target = EXCLUDED.mrr_growth_target,
		              new_customers_growth_target = EXCLUDED.new_customers_growth_target,
		              max_churn_rate = EXCLUDED.max_churn_rate,
		              updated_at = EXCLUDED.updated_at`,
		goals.AccountID,
		goals.MRRGrowthTarget,
		goals.NewCustomersGrowthTarget,
		goals.MaxChurnRate,
		goals.CreatedAt,
		goals.UpdatedAt,
	).Error
}
