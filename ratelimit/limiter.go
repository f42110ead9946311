// Package ratelimit keeps one token bucket per client key.
package ratelimit

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter allows up to limit requests per window for each key. Buckets start full
// and refill evenly across the window. It is safe for concurrent use.
type Limiter struct {
	limit    int
	window   time.Duration
	interval time.Duration
	now      func() time.Time

	visitors  sync.Map // key -> *visitor
	sweepMu   sync.Mutex
	lastSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
	// evicted is set under mu once sweep has removed the visitor from the map.
	evicted bool
}

func New(limit int, window time.Duration) *Limiter {
	if limit < 1 {
		limit = 1
	}
	return &Limiter{
		limit:    limit,
		window:   window,
		interval: window / time.Duration(limit),
		now:      time.Now,
	}
}

// WithClock overrides the time source.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Result describes one admission decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset is how long until the bucket is full again.
	Reset time.Duration
	// RetryAfter is how long until the next token, zero when allowed.
	RetryAfter time.Duration
	Window     time.Duration
}

// Allow consumes one token for key when available.
func (l *Limiter) Allow(key string) Result {
	now := l.now()
	l.sweep(now)

	v := l.touch(key, now)

	allowed := v.limiter.AllowN(now, 1)
	tokens := v.limiter.TokensAt(now)
	if tokens < 0 {
		tokens = 0
	}
	res := Result{
		Allowed:   allowed,
		Limit:     l.limit,
		Remaining: int(math.Floor(tokens)),
		Reset:     l.refill(float64(l.limit) - tokens),
		Window:    l.window,
	}
	if !allowed {
		res.RetryAfter = l.refill(1 - tokens)
	}
	return res
}

func (l *Limiter) refill(tokens float64) time.Duration {
	return time.Duration(math.Ceil(tokens * float64(l.interval)))
}

// touch returns the live visitor for key with lastSeen set to now. A visitor
// evicted between load and lock is replaced, so no token is spent on it.
func (l *Limiter) touch(key string, now time.Time) *visitor {
	for {
		v := l.visitor(key, now)
		v.mu.Lock()
		if !v.evicted {
			v.lastSeen = now
			v.mu.Unlock()
			return v
		}
		v.mu.Unlock()
	}
}

func (l *Limiter) visitor(key string, now time.Time) *visitor {
	if v, ok := l.visitors.Load(key); ok {
		return v.(*visitor)
	}
	fresh := &visitor{limiter: rate.NewLimiter(rate.Every(l.interval), l.limit), lastSeen: now}
	actual, _ := l.visitors.LoadOrStore(key, fresh)
	return actual.(*visitor)
}

// sweep drops buckets idle for a full window; they would be full anyway.
func (l *Limiter) sweep(now time.Time) {
	l.sweepMu.Lock()
	if now.Sub(l.lastSweep) < l.window {
		l.sweepMu.Unlock()
		return
	}
	l.lastSweep = now
	l.sweepMu.Unlock()

	l.visitors.Range(func(k, value any) bool {
		v := value.(*visitor)
		v.mu.Lock()
		if now.Sub(v.lastSeen) >= l.window && l.visitors.CompareAndDelete(k, v) {
			v.evicted = true
		}
		v.mu.Unlock()
		return true
	})
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	n := 0
	l.visitors.Range(func(_, _ any) bool { n++; return true })
	return n
}

// WriteHeaders sets the IETF draft-7 RateLimit-Policy and RateLimit headers.
func (r Result) WriteHeaders(h http.Header) {
	reset := int(math.Ceil(r.Reset.Seconds()))
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", r.Limit, int(r.Window.Seconds())))
	h.Set("RateLimit", fmt.Sprintf("limit=%d, remaining=%d, reset=%d", r.Limit, r.Remaining, reset))
	if !r.Allowed {
		h.Set("Retry-After", strconv.Itoa(max(int(math.Ceil(r.RetryAfter.Seconds())), 1)))
	}
}

// ClientIP keys requests by remote address. With trustProxy the first
// X-Forwarded-For hop is used instead.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
