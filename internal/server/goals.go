package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	goalsdomain "github.com/runwayhq/runway/internal/goals/domain"
)

type updateGoalsRequest struct {
	MRRGrowthTarget          float64 `json:"mrrGrowthTarget"`
	NewCustomersGrowthTarget float64 `json:"newCustomersGrowthTarget"`
	MaxChurnRate             float64 `json:"maxChurnRate"`
}

func (s *Server) GetGoals(c *gin.Context) {
	resp, err := s.goalsSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateGoals(c *gin.Context) {
	var req updateGoalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.goalsSvc.Update(c.Request.Context(), goalsdomain.UpdateGoalsRequest{
		MRRGrowthTarget:          req.MRRGrowthTarget,
		NewCustomersGrowthTarget: req.NewCustomersGrowthTarget,
		MaxChurnRate:             req.MaxChurnRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
