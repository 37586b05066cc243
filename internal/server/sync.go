package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) RunSync(c *gin.Context) {
	result, err := s.syncSvc.Run(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (s *Server) GetOverdueReport(c *gin.Context) {
	report, err := s.overdueSvc.Report(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}
