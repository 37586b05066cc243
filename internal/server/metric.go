package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
)

type upsertMetricRequest struct {
	Month          string  `json:"month"`
	MRR            float64 `json:"mrr"`
	Churn          float64 `json:"churn"`
	NewRevenue     float64 `json:"newRevenue"`
	TotalRevenue   float64 `json:"totalRevenue"`
	NewCustomers   int     `json:"newCustomers"`
	TotalCustomers int     `json:"totalCustomers"`
	LTV            float64 `json:"ltv"`
	BurnRate       struct {
		Technology     float64 `json:"technology"`
		Salaries       float64 `json:"salaries"`
		Prolabore      float64 `json:"prolabore"`
		Marketing      float64 `json:"marketing"`
		Administrative float64 `json:"administrative"`
		Others         float64 `json:"others"`
	} `json:"burnRate"`
}

func (r upsertMetricRequest) toDomain() metricsdomain.UpsertMetricRequest {
	return metricsdomain.UpsertMetricRequest{
		Month:          strings.TrimSpace(r.Month),
		MRR:            r.MRR,
		Churn:          r.Churn,
		NewRevenue:     r.NewRevenue,
		TotalRevenue:   r.TotalRevenue,
		NewCustomers:   r.NewCustomers,
		TotalCustomers: r.TotalCustomers,
		LTV:            r.LTV,
		BurnRate: metricsdomain.BurnRate{
			Technology:     r.BurnRate.Technology,
			Salaries:       r.BurnRate.Salaries,
			Prolabore:      r.BurnRate.Prolabore,
			Marketing:      r.BurnRate.Marketing,
			Administrative: r.BurnRate.Administrative,
			Others:         r.BurnRate.Others,
		},
	}
}

func (s *Server) ListMetrics(c *gin.Context) {
	resp, err := s.metricsSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMetric(c *gin.Context) {
	resp, err := s.metricsSvc.Get(c.Request.Context(), c.Param("month"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateMetric(c *gin.Context) {
	var req upsertMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.metricsSvc.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateMetric(c *gin.Context) {
	var req upsertMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.metricsSvc.Update(c.Request.Context(), c.Param("month"), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteMetric(c *gin.Context) {
	if err := s.metricsSvc.Delete(c.Request.Context(), c.Param("month")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
