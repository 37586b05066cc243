// Package goals wires the growth goals repository and service.
package goals

import (
	"github.com/runwayhq/runway/internal/goals/repository"
	"github.com/runwayhq/runway/internal/goals/service"
	"go.uber.org/fx"
)

var Module = fx.Module("goals",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
