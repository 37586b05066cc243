package domain

import "errors"

var (
	ErrInvalidAccount = errors.New("invalid_account")
	ErrInvalidMonth   = errors.New("invalid_month")
	ErrMetricExists   = errors.New("metric_already_exists")
	ErrMetricNotFound = errors.New("metric_not_found")
)
