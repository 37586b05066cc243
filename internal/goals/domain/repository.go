package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Find returns nil when the account never saved goals.
	Find(ctx context.Context, db *gorm.DB, accountID snowflake.ID) (*Goals, error)
	Upsert(ctx context.Context, db *gorm.DB, goals *Goals) error
}
