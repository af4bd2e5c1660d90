package middleware

import (
	"context"
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"worklinkph/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

// WindowCounter is a shared fixed-window counter (cache.Redis).
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type RateLimitMiddleware struct {
	counter WindowCounter
	window  time.Duration
	max     int
	logger  *log.Logger

	warnedFallback atomic.Bool

	mu        sync.Mutex
	local     map[string]*ipLimiter
	lastPrune time.Time
	now       func() time.Time
}

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimitMiddleware allows max requests per window and client IP. When
// the counter is nil or fails, a per-process token bucket of the same rate is
// used instead.
func NewRateLimitMiddleware(counter WindowCounter, window time.Duration, max int, logger *log.Logger) *RateLimitMiddleware {
	if window <= 0 {
		window = 15 * time.Minute
	}
	if max <= 0 {
		max = 100
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RateLimitMiddleware{
		counter: counter,
		window:  window,
		max:     max,
		logger:  logger,
		local:   map[string]*ipLimiter{},
		now:     time.Now,
	}
}

func (m *RateLimitMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		ip := c.IP()

		allowed, remaining, retryAfter := m.allow(c.Context(), ip)

		c.Set("X-RateLimit-Limit", strconv.Itoa(m.max))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			secs := int(retryAfter.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
			return NewAppError(fiber.StatusTooManyRequests, response.MessageTooManyRequests, nil, nil)
		}
		return c.Next()
	}
}

func (m *RateLimitMiddleware) allow(ctx context.Context, ip string) (bool, int, time.Duration) {
	if m.counter != nil {
		n, ttl, err := m.counter.IncrWindow(ctx, "ratelimit:"+ip, m.window)
		if err == nil {
			remaining := m.max - int(n)
			if remaining < 0 {
				remaining = 0
			}
			return int(n) <= m.max, remaining, ttl
		}
		if m.warnedFallback.CompareAndSwap(false, true) {
			m.logger.Printf("rate limit | shared counter unavailable, using in-process limiter err=%v", err)
		}
	}
	return m.allowLocal(ip)
}

func (m *RateLimitMiddleware) allowLocal(ip string) (bool, int, time.Duration) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastPrune) > m.window {
		for k, l := range m.local {
			if now.Sub(l.lastSeen) > m.window {
				delete(m.local, k)
			}
		}
		m.lastPrune = now
	}

	l, ok := m.local[ip]
	if !ok {
		every := m.window / time.Duration(m.max)
		l = &ipLimiter{lim: rate.NewLimiter(rate.Every(every), m.max)}
		m.local[ip] = l
	}
	l.lastSeen = now

	r := l.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 0, m.window
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, 0, delay
	}
	remaining := int(l.lim.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining, 0
}
