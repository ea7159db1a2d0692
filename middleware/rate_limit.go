package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"rayob-cms/helper"
	"rayob-cms/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per minute per IP, with bursts
// of the same size.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &RateLimiter{
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
		idleTTL:  10 * time.Minute,
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for k, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.visitors, k)
		}
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) Middleware(h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := rl.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			h.SendError(c, models.ErrRateLimited)
			return
		}
		c.Next()
	}
}
