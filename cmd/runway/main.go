package main

import (
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/runwayhq/runway/internal/clock"
	"github.com/runwayhq/runway/internal/config"
	"github.com/runwayhq/runway/internal/goals"
	"github.com/runwayhq/runway/internal/ledger"
	"github.com/runwayhq/runway/internal/metrics"
	"github.com/runwayhq/runway/internal/metricsync"
	"github.com/runwayhq/runway/internal/migration"
	"github.com/runwayhq/runway/internal/observability"
	"github.com/runwayhq/runway/internal/overdue"
	"github.com/runwayhq/runway/internal/server"
	"github.com/runwayhq/runway/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		migration.Module,

		ledger.Module,
		metrics.Module,
		goals.Module,
		overdue.Module,
		metricsync.Module,

		server.Module,
	)
	app.Run()
}

// newSnowflakeNode derives a node ID from the hostname so replicas generate
// disjoint ID ranges without coordination.
func newSnowflakeNode() (*snowflake.Node, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "runway"
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(hostname))
	return snowflake.NewNode(int64(h.Sum32() % 1024))
}
