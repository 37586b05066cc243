package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/runwayhq/runway/internal/config"
	goalsdomain "github.com/runwayhq/runway/internal/goals/domain"
	ledgerdomain "github.com/runwayhq/runway/internal/ledger/domain"
	metricsdomain "github.com/runwayhq/runway/internal/metrics/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	if ledgerErr, ok := ledgerdomain.AsError(err); ok {
		return http.StatusBadGateway, errorPayload{
			Type:    "remote_ledger_error",
			Message: fmt.Sprintf("billing provider returned status %d for %s", ledgerErr.StatusCode, ledgerErr.Resource),
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, metricsdomain.ErrInvalidAccount),
		errors.Is(err, goalsdomain.ErrInvalidAccount):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, config.ErrMissingLedgerToken):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "configuration_error",
			Message: "billing provider token is not configured",
		}
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, metricsdomain.ErrInvalidMonth),
		errors.Is(err, goalsdomain.ErrInvalidTarget):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case errors.Is(err, metricsdomain.ErrMetricExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "a metric for that month already exists",
		}
	case errors.Is(err, metricsdomain.ErrMetricNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}
