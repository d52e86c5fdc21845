package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"k8s.io/utils/clock"
)

// RateLimiter limits the requests of each client IP to limit per window using a
// fixed window counter. A limit of 0 disables the limiter.
func RateLimiter(limit int, window time.Duration, clk clock.PassiveClock) echo.MiddlewareFunc {
	l := newWindowLimiter(limit, window, clk)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limit <= 0 {
			return next
		}

		return func(c echo.Context) error {
			if !l.allow(c.RealIP()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

type window struct {
	count int
	start time.Time
}

// windowLimiter counts requests per client on fixed windows. Clients whose
// window is over are forgotten once per window.
type windowLimiter struct {
	limit     int
	window    time.Duration
	clock     clock.PassiveClock
	mu        sync.Mutex
	clients   map[string]*window
	lastSweep time.Time
}

func newWindowLimiter(limit int, d time.Duration, clk clock.PassiveClock) *windowLimiter {
	if clk == nil {
		clk = clock.RealClock{}
	}

	return &windowLimiter{
		limit:     limit,
		window:    d,
		clock:     clk,
		clients:   map[string]*window{},
		lastSweep: clk.Now(),
	}
}

func (l *windowLimiter) allow(client string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
	}

	w, ok := l.clients[client]
	if !ok || now.Sub(w.start) >= l.window {
		w = &window{start: now}
		l.clients[client] = w
	}

	if w.count >= l.limit {
		return false
	}
	w.count++

	return true
}

func (l *windowLimiter) sweep(now time.Time) {
	for client, w := range l.clients {
		if now.Sub(w.start) >= l.window {
			delete(l.clients, client)
		}
	}
	l.lastSweep = now
}
