package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/runwayhq/runway/internal/accountctx"
)

const HeaderAccount = "X-Account-ID"

// AccountRequired resolves the caller's account from the request header and
// injects it into the request context. Every /v1 route runs behind it, so
// no remote call happens for an unauthenticated request.
func AccountRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderAccount))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		accountID, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := accountctx.WithAccountID(c.Request.Context(), accountID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
