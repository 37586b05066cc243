package domain

import "context"

// UpsertMetricRequest carries one month's manually entered values.
type UpsertMetricRequest struct {
	Month          string   `json:"month"`
	MRR            float64  `json:"mrr"`
	Churn          float64  `json:"churn"`
	NewRevenue     float64  `json:"newRevenue"`
	TotalRevenue   float64  `json:"totalRevenue"`
	NewCustomers   int      `json:"newCustomers"`
	TotalCustomers int      `json:"totalCustomers"`
	LTV            float64  `json:"ltv"`
	BurnRate       BurnRate `json:"burnRate"`
}

type Service interface {
	List(ctx context.Context) ([]MonthlyMetric, error)
	Get(ctx context.Context, month string) (MonthlyMetric, error)
	Create(ctx context.Context, req UpsertMetricRequest) (MonthlyMetric, error)
	Update(ctx context.Context, month string, req UpsertMetricRequest) (MonthlyMetric, error)
	Delete(ctx context.Context, month string) error
}
