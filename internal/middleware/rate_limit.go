package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SAP-F-2025/interview-prep-service/internal/cache"
	"github.com/SAP-F-2025/interview-prep-service/internal/observability"
	"github.com/SAP-F-2025/interview-prep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// RateLimit allows max requests per window for each caller. Callers are
// keyed by user id when authenticated and by client ip otherwise. The
// limiter fails open when the counter store is unavailable.
func RateLimit(counter cache.Counter, scope string, max int, window time.Duration, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max <= 0 {
			c.Next()
			return
		}

		caller := "ip:" + c.ClientIP()
		if userID := GetUserID(c); userID != "" {
			caller = "user:" + userID
		}

		count, err := counter.Incr(c.Request.Context(), scope+":"+caller, window)
		if err != nil {
			utils.GetLoggerFromContext(c, logger).Warn("Rate limit counter unavailable", "error", err)
			c.Next()
			return
		}

		remaining := int64(max) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(max) {
			observability.RateLimited()
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			abort(c, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		c.Next()
	}
}
