package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/stakefit/backend/pkg/errorx"
	"github.com/stakefit/backend/pkg/router"
	"github.com/stakefit/backend/pkg/xcontext"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter *rate.Limiter

	// Unix nanoseconds of the latest request.
	lastSeen atomic.Int64
}

// RateLimiter allows each client ip at most limit requests per second with
// bursts of burst requests.
type RateLimiter struct {
	limit          rate.Limit
	burst          int
	trustedProxies []*net.IPNet
	limiters       *xsync.MapOf[string, *clientLimiter]
	now            func() time.Time
}

func NewRateLimiter(limit float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}

	return &RateLimiter{
		limit:    rate.Limit(limit),
		burst:    burst,
		limiters: xsync.NewMapOf[*clientLimiter](),
		now:      time.Now,
	}
}

// WithTrustedProxies parses the addresses or CIDRs of the reverse proxies
// whose X-Forwarded-For header can be trusted.
func (l *RateLimiter) WithTrustedProxies(proxies []string) (*RateLimiter, error) {
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", p)
			}

			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}

			l.trustedProxies = append(l.trustedProxies, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}

		_, ipNet, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}

		l.trustedProxies = append(l.trustedProxies, ipNet)
	}

	return l, nil
}

func (l *RateLimiter) Allow(key string) bool {
	c, ok := l.limiters.Load(key)
	if !ok {
		c, _ = l.limiters.LoadOrStore(key, &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)})
	}

	c.lastSeen.Store(l.now().UnixNano())
	return c.limiter.Allow()
}

// Cleanup removes the limiters of clients idle for longer than idle and
// returns the number of removed limiters.
func (l *RateLimiter) Cleanup(idle time.Duration) int {
	deadline := l.now().Add(-idle).UnixNano()
	removed := 0
	l.limiters.Range(func(key string, c *clientLimiter) bool {
		if c.lastSeen.Load() < deadline {
			l.limiters.Delete(key)
			removed++
		}

		return true
	})

	return removed
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (l *RateLimiter) StartCleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.Cleanup(idle); n > 0 {
					xcontext.Logger(ctx).Debugf("Removed %d idle rate limiters", n)
				}
			}
		}
	}()
}

func (l *RateLimiter) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if l.limit <= 0 {
			return nil, nil
		}

		ip := l.clientIP(xcontext.HTTPRequest(ctx))
		if !l.Allow(ip) {
			xcontext.Logger(ctx).Debugf("Rate limit exceeded for %s", ip)
			return nil, errorx.New(errorx.TooManyRequests, "Too many requests, please slow down")
		}

		return nil, nil
	}
}

// clientIP is the remote address, unless it is a trusted proxy. In that case
// X-Forwarded-For is walked from the right and the first untrusted address is
// the client.
func (l *RateLimiter) clientIP(req *http.Request) string {
	remote, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		remote = req.RemoteAddr
	}

	if !l.isTrusted(remote) {
		return remote
	}

	forwarded := strings.Split(req.Header.Get("X-Forwarded-For"), ",")
	for i := len(forwarded) - 1; i >= 0; i-- {
		ip := strings.TrimSpace(forwarded[i])
		if ip == "" {
			continue
		}

		if !l.isTrusted(ip) {
			return ip
		}
	}

	return remote
}

func (l *RateLimiter) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}

	for _, ipNet := range l.trustedProxies {
		if ipNet.Contains(ip) {
			return true
		}
	}

	return false
}
