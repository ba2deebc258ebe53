package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultLimiterCleanupInterval = 5 * time.Minute

type RateLimiterConfig struct {
	PerMinute float64
	Burst     int
	// TrustedProxies are the peers whose forwarding headers name the client.
	TrustedProxies  []netip.Prefix
	CleanupInterval time.Duration
}

// RateLimiter keeps one token bucket per client IP. Idle buckets are dropped
// by a background sweep that stops with the context passed to NewRateLimiter.
type RateLimiter struct {
	perSecond rate.Limit
	burst     int
	trusted   []netip.Prefix
	idleTTL   time.Duration

	mu      sync.Mutex
	clients map[string]*clientLimiter
	now     func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(ctx context.Context, cfg RateLimiterConfig) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = defaultLimiterCleanupInterval
	}

	l := &RateLimiter{
		perSecond: rate.Limit(cfg.PerMinute / 60),
		burst:     burst,
		trusted:   cfg.TrustedProxies,
		idleTTL:   2 * interval,
		clients:   make(map[string]*clientLimiter),
		now:       time.Now,
	}
	if l.perSecond > 0 {
		go l.cleanupLoop(ctx, interval)
	}
	return l
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(l.clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// allow always admits when the configured rate is not positive.
func (l *RateLimiter) allow(key string) bool {
	if l.perSecond <= 0 {
		return true
	}
	now := l.now()

	l.mu.Lock()
	client, ok := l.clients[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(l.perSecond, l.burst)}
		l.clients[key] = client
	}
	client.lastSeen = now
	l.mu.Unlock()

	return client.limiter.AllowN(now, 1)
}

func (l *RateLimiter) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-ctx.Done():
			return
		}
	}
}

func (l *RateLimiter) cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, client := range l.clients {
		if now.Sub(client.lastSeen) > l.idleTTL {
			delete(l.clients, ip)
		}
	}
}

func (l *RateLimiter) retryAfterSeconds() int {
	seconds := int(math.Ceil(1 / float64(l.perSecond)))
	if seconds < 1 {
		return 1
	}
	return seconds
}

// clientIP keys on the socket peer. Only a trusted proxy may name the client
// through the address chi's RealIP derived from forwarding headers.
func (l *RateLimiter) clientIP(r *http.Request) string {
	peer, ok := PeerAddrFromContext(r.Context())
	if !ok {
		peer = r.RemoteAddr
	}

	addr, ok := parseHostAddr(peer)
	if !ok {
		return peer
	}
	if l.isTrusted(addr) {
		if forwarded, ok := parseHostAddr(r.RemoteAddr); ok {
			return forwarded.String()
		}
	}
	return addr.String()
}

func (l *RateLimiter) isTrusted(addr netip.Addr) bool {
	for _, prefix := range l.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// RememberPeer records the socket address before any header-based rewrite of
// RemoteAddr. It must run ahead of chi's RealIP.
func RememberPeer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), peerAddrKey, r.RemoteAddr)))
	})
}

func PeerAddrFromContext(ctx context.Context) (string, bool) {
	peer, ok := ctx.Value(peerAddrKey).(string)
	return peer, ok && peer != ""
}

func parseHostAddr(value string) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(value)
	if err != nil {
		host = value
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
