package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/underwriting-gateway/pkg/requestid"
)

const corsMaxAge = "600"

// corsMiddleware lets the borrower web client call the gateway from its configured origins.
// An empty allow list or a "*" entry admits every origin. Requests from other origins
// get no Access-Control-Allow-Origin header and are left to the browser to reject.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()
		headers.Add("Vary", "Origin")
		if origin, ok := allowOrigin(c.GetHeader("Origin"), allowed); ok {
			headers.Set("Access-Control-Allow-Origin", origin)
			headers.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			headers.Set("Access-Control-Allow-Headers", "Content-Type, "+requestid.Header)
			headers.Set("Access-Control-Expose-Headers", requestid.Header)
			headers.Set("Access-Control-Max-Age", corsMaxAge)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func allowOrigin(origin string, allowed []string) (string, bool) {
	if len(allowed) == 0 {
		return "*", true
	}
	for _, candidate := range allowed {
		switch {
		case candidate == "*":
			return "*", true
		case origin != "" && strings.EqualFold(strings.TrimRight(candidate, "/"), origin):
			return origin, true
		}
	}
	return "", false
}
