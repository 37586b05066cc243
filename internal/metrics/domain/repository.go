package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, metric *MonthlyMetric) error
	// UpsertComputed writes the sync pipeline's computed columns, keyed by
	// (account_id, month). Burn-rate columns are deliberately left out of the
	// conflict update so manually entered spend survives every sync.
	UpsertComputed(ctx context.Context, db *gorm.DB, metric *MonthlyMetric) error
	// Update rewrites every metric column including burn rate; the manual
	// edit path owns the full row.
	Update(ctx context.Context, db *gorm.DB, metric *MonthlyMetric) error
	FindByMonth(ctx context.Context, db *gorm.DB, accountID snowflake.ID, month string) (*MonthlyMetric, error)
	List(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]MonthlyMetric, error)
	Delete(ctx context.Context, db *gorm.DB, accountID snowflake.ID, month string) error
}
