// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"sync"
	"time"

	urlutil "github.com/law-makers/pagesift/internal/utils/url"
	"golang.org/x/time/rate"
)

// RateLimiter throttles outbound page fetches.
//
// Implementations key their buckets on the target host so that a batch
// spread across many sites is not slowed by one busy site.
type RateLimiter interface {
	// Wait blocks until a fetch of urlStr may proceed or ctx is done.
	Wait(ctx context.Context, urlStr string) error

	// Allow reports whether a fetch of urlStr may proceed right now,
	// consuming a token if so.
	Allow(urlStr string) bool
}

// DomainLimiter is a token bucket per host. "www.example.com" and
// "example.com" share one bucket.
type DomainLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	perHost rate.Limit
	burst   int
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewDomainLimiter creates a limiter allowing requestsPerSecond per host
func NewDomainLimiter(requestsPerSecond float64, burst int) *DomainLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2.0
	}
	if burst <= 0 {
		burst = 4
	}

	return &DomainLimiter{
		buckets: make(map[string]*bucket),
		perHost: rate.Limit(requestsPerSecond),
		burst:   burst,
		now:     time.Now,
	}
}

// Wait blocks until the host of urlStr has a free token
func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	host := urlutil.Hostname(urlStr)
	if host == "" {
		// the fetcher reports unparseable URLs with a better message
		return nil
	}
	return dl.limiterFor(host).Wait(ctx)
}

// Allow reports whether a request may proceed without blocking
func (dl *DomainLimiter) Allow(urlStr string) bool {
	host := urlutil.Hostname(urlStr)
	if host == "" {
		return true
	}
	return dl.limiterFor(host).Allow()
}

// Prune drops buckets unused for longer than idle and returns how many were
// dropped. A long-running server calls it periodically.
func (dl *DomainLimiter) Prune(idle time.Duration) int {
	cutoff := dl.now().Add(-idle)

	dl.mu.Lock()
	defer dl.mu.Unlock()

	n := 0
	for host, b := range dl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(dl.buckets, host)
			n++
		}
	}
	return n
}

func (dl *DomainLimiter) limiterFor(host string) *rate.Limiter {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	b, ok := dl.buckets[host]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(dl.perHost, dl.burst)}
		dl.buckets[host] = b
	}
	b.lastSeen = dl.now()
	return b.limiter
}

// Unlimited never blocks. It is used when rate limiting is switched off.
type Unlimited struct{}

func (Unlimited) Wait(ctx context.Context, _ string) error { return ctx.Err() }
func (Unlimited) Allow(string) bool                        { return true }
