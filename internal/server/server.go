// Package server exposes the dashboard backend over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/runwayhq/runway/internal/config"
	goalsdomain "github.com/runwayhq/runway/internal/goals/domain"
	"github.com/runwayhq/runway/internal/ledger"
	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
	"github.com/runwayhq/runway/internal/metricsync"
	"github.com/runwayhq/runway/internal/observability"
	obslogger "github.com/runwayhq/runway/internal/observability/logger"
	obstracing "github.com/runwayhq/runway/internal/observability/tracing"
	overduedomain "github.com/runwayhq/runway/internal/overdue/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, log *zap.Logger) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, log *zap.Logger) *gin.Engine {
	return NewEngine(obsCfg, log)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	metricsSvc metricsdomain.Service
	goalsSvc   goalsdomain.Service
	overdueSvc overduedomain.Service
	syncSvc    metricsync.Service
	ledgerCli  *ledger.Client
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	MetricsSvc metricsdomain.Service
	GoalsSvc   goalsdomain.Service
	OverdueSvc overduedomain.Service
	SyncSvc    metricsync.Service
	LedgerCli  *ledger.Client
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		metricsSvc: p.MetricsSvc,
		goalsSvc:   p.GoalsSvc,
		overdueSvc: p.OverdueSvc,
		syncSvc:    p.SyncSvc,
		ledgerCli:  p.LedgerCli,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1", AccountRequired())
	{
		v1.POST("/sync", s.RunSync)
		v1.GET("/overdue", s.GetOverdueReport)

		v1.GET("/metrics", s.ListMetrics)
		v1.POST("/metrics", s.CreateMetric)
		v1.GET("/metrics/:month", s.GetMetric)
		v1.PUT("/metrics/:month", s.UpdateMetric)
		v1.DELETE("/metrics/:month", s.DeleteMetric)

		v1.GET("/goals", s.GetGoals)
		v1.PUT("/goals", s.UpdateGoals)

		v1.GET("/predictions", s.GetPredictions)
		v1.GET("/dashboard", s.GetDashboard)

		v1.GET("/ledger/status", s.GetLedgerStatus)
	}
}
