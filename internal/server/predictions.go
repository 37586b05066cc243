package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
	overduedomain "github.com/runwayhq/runway/internal/overdue/domain"
	"github.com/runwayhq/runway/internal/prediction"
)

// loadPredictions assembles a prediction from the two most recent stored
// months, the account's goals and a live overdue report.
func (s *Server) loadPredictions(ctx context.Context) ([]metricsdomain.MonthlyMetric, overduedomain.Report, prediction.Prediction, error) {
	months, err := s.metricsSvc.List(ctx)
	if err != nil {
		return nil, overduedomain.Report{}, prediction.Prediction{}, err
	}

	goals, err := s.goalsSvc.Get(ctx)
	if err != nil {
		return nil, overduedomain.Report{}, prediction.Prediction{}, err
	}

	report, err := s.overdueSvc.Report(ctx)
	if err != nil {
		return nil, overduedomain.Report{}, prediction.Prediction{}, err
	}

	var latest, previous *metricsdomain.MonthlyMetric
	if len(months) >= 1 {
		latest = &months[len(months)-1]
	}
	if len(months) >= 2 {
		previous = &months[len(months)-2]
	}

	return months, report, prediction.Compute(latest, previous, goals, report), nil
}

func (s *Server) GetPredictions(c *gin.Context) {
	_, _, p, err := s.loadPredictions(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": p})
}

func (s *Server) GetDashboard(c *gin.Context) {
	months, report, p, err := s.loadPredictions(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"metrics":     months,
		"predictions": p,
		"overdue": gin.H{
			"totalValue":     report.TotalValue,
			"totalCustomers": report.TotalCustomers,
			"criticalCount":  report.CriticalCount,
		},
	}})
}
