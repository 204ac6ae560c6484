package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cvbot-backend/internal/shared/metrics"
	"cvbot-backend/internal/shared/server/middleware"
	"cvbot-backend/internal/shared/server/respond"
)

// Routes is anything that mounts itself on a router group.
type Routes interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the handlers and probes the router mounts.
type RouterDeps struct {
	// Webhook is mounted at the root so the provider URL stays /webhooks/whatsapp.
	Webhook Routes
	// API routes are mounted under /api/v1.
	API []Routes
	// Ready reports whether backing services answer; nil means always ready.
	Ready func(ctx context.Context) error
	// WebhookRule throttles inbound messages per sender. Zero disables it.
	WebhookRule middleware.RateLimitRule
	Limiter     *middleware.RateLimiter
}

const webhookGroup = "WEBHOOK"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: func(c *gin.Context) string {
				if c.FullPath() == "/webhooks/whatsapp" {
					return webhookGroup
				}
				return ""
			},
			PrincipalFor: func(c *gin.Context) string {
				return c.PostForm("From")
			},
			Rules:   map[string]middleware.RateLimitRule{webhookGroup: deps.WebhookRule},
			Limiter: deps.Limiter,
		}),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/readyz", func(c *gin.Context) {
		if deps.Ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ready(ctx); err != nil {
				respond.Error(c, http.StatusServiceUnavailable, "not_ready", err.Error(), nil)
				return
			}
		}
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	if deps.Webhook != nil {
		deps.Webhook.RegisterRoutes(&r.RouterGroup)
	}
	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	for _, routes := range deps.API {
		if routes != nil {
			routes.RegisterRoutes(api)
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
