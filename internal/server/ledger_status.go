package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLedgerStatus verifies the configured provider token with one
// authenticated request.
func (s *Server) GetLedgerStatus(c *gin.Context) {
	if err := s.ledgerCli.Ping(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"connected": true}})
}
