package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"cvbot-backend/internal/shared/server/respond"
	"cvbot-backend/internal/shared/telemetry"
)

// Recovery turns a panic outside the conversation engine into a 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("panic", map[string]any{
				"request_id":    RequestIDFromContext(c),
				"identity_hash": c.GetString("identityHash"),
				"error":         rec,
				"stack":         string(debug.Stack()),
				"path":          c.Request.URL.Path,
				"method":        c.Request.Method,
			})
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
			c.Abort()
		}()
		c.Next()
	}
}
