// Package metrics wires the monthly metrics repository and service.
package metrics

import (
	"github.com/runwayhq/runway/internal/metrics/repository"
	"github.com/runwayhq/runway/internal/metrics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("metrics",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
