package migration

import (
	"github.com/runwayhq/runway/internal/config"
	goalsdomain "github.com/runwayhq/runway/internal/goals/domain"
	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// Versioned SQL migrations target postgres; local sqlite/mysql
			// setups derive the schema from the models instead.
			return conn.AutoMigrate(
				&metricsdomain.MonthlyMetric{},
				&goalsdomain.Goals{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
