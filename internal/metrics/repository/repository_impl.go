package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() metricsdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, metric *metricsdomain.MonthlyMetric) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO monthly_metrics (
			id, account_id, month, mrr, churn, new_revenue, total_revenue,
			new_customers, total_customers, ltv,
			burn_rate_technology, burn_rate_salaries, burn_rate_prolabore,
			burn_rate_marketing, burn_rate_administrative, burn_rate_others,
			burn_rate_total, metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		metric.ID,
		metric.AccountID,
		metric.Month,
		metric.MRR,
		metric.Churn,
		metric.NewRevenue,
		metric.TotalRevenue,
		metric.NewCustomers,
		metric.TotalCustomers,
		metric.LTV,
		metric.BurnRateTechnology,
		metric.BurnRateSalaries,
		metric.BurnRateProlabore,
		metric.BurnRateMarketing,
		metric.BurnRateAdministrative,
		metric.BurnRateOthers,
		metric.BurnRateTotal,
		metric.Metadata,
		metric.CreatedAt,
		metric.UpdatedAt,
	).Error
}

// UpsertComputed inserts the computed columns for one month, or updates them
// when the (account_id, month) row exists. Burn-rate columns appear only in
// the insert arm, zeroed, so a manual edit is never clobbered by a sync run.
func (r *repo) UpsertComputed(ctx context.Context, db *gorm.DB, metric *metricsdomain.MonthlyMetric) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO monthly_metrics (
			id, account_id, month, mrr, churn, new_revenue, total_revenue,
			new_customers, total_customers, ltv,
			burn_rate_technology, burn_rate_salaries, burn_rate_prolabore,
			burn_rate_marketing, burn_rate_administrative, burn_rate_others,
			burn_rate_total, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0, 0, 0, 0, 0, ?, ?)
		ON CONFLICT (account_id, month)
		DO UPDATE SET mrr = EXCLUDED.mrr,
		              churn = EXCLUDED.churn,
		              new_revenue = EXCLUDED.new_revenue,
		              total_revenue = EXCLUDED.total_revenue,
		              new_customers = EXCLUDED.new_customers,
		              total_customers = EXCLUDED.total_customers,
		              ltv = EXCLUDED.ltv,
		              updated_at = EXCLUDED.updated_at`,
		metric.ID,
		metric.AccountID,
		metric.Month,
		metric.MRR,
		metric.Churn,
		metric.NewRevenue,
		metric.TotalRevenue,
		metric.NewCustomers,
		metric.TotalCustomers,
		metric.LTV,
		metric.CreatedAt,
		metric.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, metric *metricsdomain.MonthlyMetric) error {
	return db.WithContext(ctx).Exec(
		`UPDATE monthly_metrics
		 SET mrr = ?, churn = ?, new_revenue = ?, total_revenue = ?,
		     new_customers = ?, total_customers = ?, ltv = ?,
		     burn_rate_technology = ?, burn_rate_salaries = ?,
		     burn_rate_prolabore = ?, burn_rate_marketing = ?,
		     burn_rate_administrative = ?, burn_rate_others = ?,
		     burn_rate_total = ?, updated_at = ?
		 WHERE account_id = ? AND month = ?`,
		metric.MRR,
		metric.Churn,
		metric.NewRevenue,
		metric.TotalRevenue,
		metric.NewCustomers,
		metric.TotalCustomers,
		metric.LTV,
		metric.BurnRateTechnology,
		metric.BurnRateSalaries,
		metric.BurnRateProlabore,
		metric.BurnRateMarketing,
		metric.BurnRateAdministrative,
		metric.BurnRateOthers,
		metric.BurnRateTotal,
		metric.UpdatedAt,
		metric.AccountID,
		metric.Month,
	).Error
}

func (r *repo) FindByMonth(ctx context.Context, db *gorm.DB, accountID snowflake.ID, month string) (*metricsdomain.MonthlyMetric, error) {
	var metric metricsdomain.MonthlyMetric
	err := db.WithContext(ctx).
		Where("account_id = ? AND month = ?", accountID, month).
		First(&metric).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metric, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, accountID snowflake.ID) ([]metricsdomain.MonthlyMetric, error) {
	var items []metricsdomain.MonthlyMetric
	err := db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("month ASC").
		Find(&items).Error
	return items, err
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, accountID snowflake.ID, month string) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM monthly_metrics WHERE account_id = ? AND month = ?`,
		accountID,
		month,
	).Error
}
