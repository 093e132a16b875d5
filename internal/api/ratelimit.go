package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pauljones0/dealflow-hub/internal/metrics"
)

const limiterIdle = 10 * time.Minute

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter throttles votes per client address.
type clientLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	clients   map[string]*clientEntry
	lastSweep time.Time
}

// newClientLimiter returns nil when perSecond is zero, which disables limiting.
func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{
		limit:     rate.Limit(perSecond),
		burst:     burst,
		now:       time.Now,
		clients:   make(map[string]*clientEntry),
		lastSweep: time.Now(),
	}
}

func (l *clientLimiter) allow(r *http.Request, entity string) error {
	if l == nil {
		return nil
	}
	key := clientKey(r)
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= limiterIdle {
		l.sweep(now)
	}
	e, ok := l.clients[key]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if !allowed {
		metrics.VotesRateLimited.WithLabelValues(entity).Inc()
		return errRateLimited
	}
	return nil
}

// sweep drops clients idle for longer than limiterIdle. It runs at most once
// per limiterIdle.
func (l *clientLimiter) sweep(now time.Time) {
	l.lastSweep = now
	for k, e := range l.clients {
		if now.Sub(e.lastSeen) > limiterIdle {
			delete(l.clients, k)
		}
	}
}

// clientKey is the connection address, or the forwarded address when the
// server trusts proxy headers.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
