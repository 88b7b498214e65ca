package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/revinhocontact-cloud/rxcartcart/internal/config"
)

// RateLimitMiddleware limits request rate per IP.
func RateLimitMiddleware(manager *RateLimitManager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil || shouldBypassRateLimit(c.Request) {
			c.Next()
			return
		}

		limiter := manager.GetVisitor(c.ClientIP(), cfg.RateLimitRequests, cfg.RateLimitWindow)
		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CriticalOperationRateLimit applies a per-IP budget to a single operation,
// e.g. 10 logins per 300 seconds.
func CriticalOperationRateLimit(manager *RateLimitManager, operation string, requestsPerWindow, windowSeconds int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil {
			c.Next()
			return
		}

		limiter := manager.GetCriticalOperationLimiter(c.ClientIP(), operation, requestsPerWindow, windowSeconds)
		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":          operation + " rate limit exceeded",
				"retry_after":    windowSeconds,
				"max_requests":   requestsPerWindow,
				"window_seconds": windowSeconds,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func shouldBypassRateLimit(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	path := r.URL.Path
	if path == "" {
		return false
	}

	if strings.HasPrefix(path, "/uploads/") {
		return true
	}

	switch path {
	case "/health", "/metrics", "/favicon.ico":
		return true
	}

	return false
}
