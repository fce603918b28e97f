package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"calendar-assistant/pkg/response"
)

// RateLimit returns a token-bucket rate limiter for webhook routes. Telegram
// sends one update per message, so the per-minute budget from config is
// plenty for a personal bot while still containing webhook floods.
func (m Middleware) RateLimit() gin.HandlerFunc {
	perMin := m.cfg.RateLimitPerMin
	if perMin <= 0 {
		perMin = 60
	}

	limiter := rate.NewLimiter(rate.Limit(float64(perMin)/60.0), perMin)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			m.l.Warnf(c.Request.Context(), "rate limit exceeded for %s", c.ClientIP())
			response.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
