// Package overdue wires the overdue risk report service.
package overdue

import (
	"github.com/runwayhq/runway/internal/overdue/service"
	"go.uber.org/fx"
)

var Module = fx.Module("overdue",
	fx.Provide(service.New),
)
