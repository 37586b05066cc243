package domain

import "context"

// UpdateGoalsRequest carries new growth targets, in percent.
type UpdateGoalsRequest struct {
	MRRGrowthTarget          float64 `json:"mrrGrowthTarget"`
	NewCustomersGrowthTarget float64 `json:"newCustomersGrowthTarget"`
	MaxChurnRate             float64 `json:"maxChurnRate"`
}

type Service interface {
	// Get returns the account's saved goals, or the defaults when none exist.
	Get(ctx context.Context) (Goals, error)
	Update(ctx context.Context, req UpdateGoalsRequest) (Goals, error)
}
