package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func webhookLimited(limiter *RateLimiter, rules map[string]RateLimitRule) *gin.Engine {
	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.FullPath() == "/webhooks/whatsapp" {
				return "WEBHOOK"
			}
			return "DEFAULT"
		},
		PrincipalFor: func(c *gin.Context) string {
			return c.PostForm("From")
		},
		Limiter: limiter,
		Rules:   rules,
	}))
	r.POST("/webhooks/whatsapp", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/api/v1/documents/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func postFrom(r *gin.Engine, from string) *httptest.ResponseRecorder {
	form := url.Values{"From": {from}, "Body": {"hi"}}
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRateLimitBucketsPerSender(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := webhookLimited(NewRateLimiter(func() time.Time { return now }), map[string]RateLimitRule{
		"WEBHOOK": {Rate: 1, Burst: 2},
	})

	for i := 0; i < 2; i++ {
		if resp := postFrom(r, "whatsapp:+263771"); resp.Code != http.StatusOK {
			t.Fatalf("request %d expected 200, got %d", i+1, resp.Code)
		}
	}
	if resp := postFrom(r, "whatsapp:+263771"); resp.Code != http.StatusTooManyRequests {
		t.Fatalf("third request expected 429, got %d", resp.Code)
	}
	if resp := postFrom(r, "whatsapp:+263772"); resp.Code != http.StatusOK {
		t.Fatalf("other sender expected 200, got %d", resp.Code)
	}
}

func TestRateLimitGroupsWithoutRuleAreUnlimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := webhookLimited(NewRateLimiter(nil), map[string]RateLimitRule{
		"WEBHOOK": {Rate: 1, Burst: 1},
	})
	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents/doc-1", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d expected 200, got %d", i+1, resp.Code)
		}
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := webhookLimited(NewRateLimiter(func() time.Time { return now }), map[string]RateLimitRule{
		"WEBHOOK": {Rate: 1, Burst: 1},
	})

	if resp := postFrom(r, "whatsapp:+263771"); resp.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp.Code)
	}
	resp := postFrom(r, "whatsapp:+263771")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") != "1" {
		t.Fatalf("expected Retry-After 1, got %q", resp.Header().Get("Retry-After"))
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != "rate_limited" {
		t.Fatalf("expected error=rate_limited")
	}
	if payload["retryAfterMs"] != float64(1000) {
		t.Fatalf("unexpected retryAfterMs: %v", payload["retryAfterMs"])
	}
}

func TestRateLimiterDropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 5}

	limiter.Allow("a|WEBHOOK", rule)
	limiter.Allow("b|WEBHOOK", rule)
	if limiter.Len() != 2 {
		t.Fatalf("expected 2 buckets, got %d", limiter.Len())
	}

	now = now.Add(defaultBucketIdleTTL + time.Second)
	limiter.Allow("c|WEBHOOK", rule)
	if limiter.Len() != 1 {
		t.Fatalf("expected idle buckets dropped, got %d", limiter.Len())
	}
}
