package domain

import "errors"

var (
	ErrInvalidAccount = errors.New("invalid_account")
	ErrInvalidTarget  = errors.New("invalid_goal_target")
)
