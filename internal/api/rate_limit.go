package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// rateLimitIdleTTL 组织限流器空闲超过该时间后回收
const rateLimitIdleTTL = 10 * time.Minute

// RateLimitMiddleware 限流中间件，按组织分别限流
// 必须挂在认证之后；没有组织的请求不计数，由认证或控制器拒绝
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiters := newOrgLimiters(rps, burst, rateLimitIdleTTL, time.Now)

	return func(c *gin.Context) {
		orgID := c.GetString("organization_id")
		if orgID == "" {
			c.Next()
			return
		}

		if !limiters.allow(orgID) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Code:    http.StatusTooManyRequests,
				Message: "too many requests",
			})
			return
		}
		c.Next()
	}
}

type orgLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// orgLimiters 每个组织一个令牌桶，空闲的桶在后续请求时批量回收
type orgLimiters struct {
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	limiters  map[string]*orgLimiter
	lastSweep time.Time
}

func newOrgLimiters(rps float64, burst int, idleTTL time.Duration, now func() time.Time) *orgLimiters {
	if burst <= 0 {
		burst = 1
	}
	return &orgLimiters{
		rps:       rate.Limit(rps),
		burst:     burst,
		idleTTL:   idleTTL,
		now:       now,
		limiters:  make(map[string]*orgLimiter),
		lastSweep: now(),
	}
}

func (l *orgLimiters) allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		for k, entry := range l.limiters {
			if now.Sub(entry.lastSeen) >= l.idleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}
	entry, ok := l.limiters[key]
	if !ok {
		entry = &orgLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}
