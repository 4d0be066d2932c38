package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultRPS   = 1
	DefaultBurst = 3

	cleanupEvery = time.Minute
	idleAfter    = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*clientLimiter)
	limit    = rate.Limit(DefaultRPS)
	burst    = DefaultBurst
	mu       sync.Mutex
)

// Configure sets the per-visitor rate for limiters created from now on.
// Non-positive values keep the current setting.
func Configure(rps float64, b int) {
	mu.Lock()
	defer mu.Unlock()

	if rps > 0 {
		limit = rate.Limit(rps)
	}
	if b > 0 {
		burst = b
	}
}

// GetVisitor returns the token bucket for ip, creating it on first sight.
func GetVisitor(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(limit, burst)
		visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// StartVisitorCleanupLoop forgets visitors idle for five minutes until ctx is done.
func StartVisitorCleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removeIdle(now, idleAfter)
		}
	}
}

func removeIdle(now time.Time, idle time.Duration) int {
	mu.Lock()
	defer mu.Unlock()

	removed := 0
	for ip, v := range visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(visitors, ip)
			removed++
		}
	}
	return removed
}

func CleanupAllVisitors() {
	mu.Lock()
	defer mu.Unlock()
	visitors = make(map[string]*clientLimiter)
}
