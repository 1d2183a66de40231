package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"orderdesk/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Rate limit tiers
const (
	// Order placement, customer creation, invoice sends: each one is a remote write.
	limitStrict = rate.Limit(1)
	burstStrict = 3

	// Typeahead search
	limitSearch = rate.Limit(10)
	burstSearch = 20

	limitGeneral = rate.Limit(20)
	burstGeneral = 40

	visitorIdle = 3 * time.Minute
)

type tier struct {
	name  string
	limit rate.Limit
	burst int
}

var (
	tierStrict  = tier{"strict", limitStrict, burstStrict}
	tierSearch  = tier{"search", limitSearch, burstSearch}
	tierGeneral = tier{"general", limitGeneral, burstGeneral}
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client and tier.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		now:      time.Now,
	}
}

func (l *RateLimiter) visitor(key string, t tier) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.limit, t.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

// Cleanup drops buckets not seen for a while.
func (l *RateLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > visitorIdle {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Run calls Cleanup every minute until ctx is done.
func (l *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

// Middleware rejects requests over the client's quota with 429.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := resolveRateTier(r)

		// Same client gets separate quotas per tier, e.g. "ip:10.0.0.1:strict".
		key := fmt.Sprintf("%s:%s", clientIdentity(r), t.name)

		if !l.visitor(key, t).Allow() {
			logger.FromCtx(r.Context()).Warn("rate limit exceeded",
				zap.String("key", key),
				zap.String("path", r.URL.Path),
			)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIdentity(r *http.Request) string {
	if deviceID := strings.TrimSpace(r.Header.Get("X-Device-ID")); deviceID != "" {
		return "device:" + deviceID
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

func resolveRateTier(r *http.Request) tier {
	path := strings.TrimSuffix(r.URL.Path, "/")

	if r.Method == http.MethodPost &&
		(strings.HasSuffix(path, "/submit") || strings.HasSuffix(path, "/customers") || strings.HasSuffix(path, "/invoices")) {
		return tierStrict
	}

	if r.Method == http.MethodGet && (strings.HasSuffix(path, "/products") || strings.HasSuffix(path, "/customers")) {
		return tierSearch
	}

	return tierGeneral
}
