package middleware

import (
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/didip/tollbooth_gin"
	"github.com/gin-gonic/gin"
)

// NewLimiter builds a per client IP limiter allowing perSecond requests with the given burst.
// Clients are keyed by RemoteAddr. proxyHeaders, such as X-Forwarded-For, are consulted
// before RemoteAddr only when passed, which is safe only behind a proxy that sets them.
func NewLimiter(perSecond float64, burst int, proxyHeaders ...string) *limiter.Limiter {
	lmt := tollbooth.NewLimiter(perSecond, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	lmt.SetBurst(burst)
	lookups := append(append([]string{}, proxyHeaders...), "RemoteAddr")
	lmt.SetIPLookups(lookups)
	lmt.SetMessage(`{"message":"Too many requests, please try again later."}`)
	lmt.SetMessageContentType("application/json; charset=utf-8")
	return lmt
}

// RateLimiter rejects requests over lmt with 429.
func RateLimiter(lmt *limiter.Limiter) gin.HandlerFunc {
	return tollbooth_gin.LimitHandler(lmt)
}
