package middlewares

import (
	"net/http"
	"sync"

	"github.com/PrayInVerses/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const errCodeRateLimited = "RATE_LIMITED"

var (
	limiters = make(map[string]*rate.Limiter)
	mu       sync.Mutex
)

func getLimiter(key string, r rate.Limit, b int) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	limiter, exists := limiters[key]
	if !exists {
		limiter = rate.NewLimiter(r, b)
		limiters[key] = limiter
	}
	return limiter
}

// RateLimitMiddleware allows r requests per second with bursts of b for
// each key returned by keyFunc.
func RateLimitMiddleware(r rate.Limit, b int, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		limiter := getLimiter(key, r, b)

		if !limiter.Allow() {
			log.Debug().Str("key", key).Str("path", c.FullPath()).Msg("rate limited")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Error:     errCodeRateLimited,
				Message:   "Too many requests. Please slow down",
				RequestID: c.GetString(apperrors.RequestIDKey),
			})
			return
		}

		c.Next()
	}
}
