package middleware

import (
	"net"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/kasir/internal/i18n"
	rl "github.com/rogerio-castellano/kasir/internal/http/rate_limiter"
)

// SetRateLimit configures the per-IP token bucket used by RateLimit.
func SetRateLimit(rps float64, burst int) {
	rl.Configure(rps, burst)
	rl.CleanupAllVisitors()
}

// RateLimit answers 429 once a client IP exhausts its bucket.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.GetVisitor(ip).Allow() {
			currentLogger().Warn().
				Str("ip", ip).
				Str("path", r.URL.Path).
				Str("request_id", RequestIDFromContext(r.Context())).
				Msg("rate limited")
			w.Header().Set("Retry-After", "1")
			http.Error(w, i18n.T(i18n.FromHeader(r.Header.Get("Accept-Language")), i18n.TooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SetTrustProxy makes RealIP take client addresses from forwarding headers.
func SetTrustProxy(trust bool) {
	mu.Lock()
	defer mu.Unlock()
	trustProxy = trust
}

func proxyTrusted() bool {
	mu.RLock()
	defer mu.RUnlock()
	return trustProxy
}

// RealIP rewrites RemoteAddr from X-Forwarded-For / X-Real-IP when the
// server sits behind a trusted proxy, and leaves it alone otherwise.
func RealIP(next http.Handler) http.Handler {
	withHeaders := chimw.RealIP(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if proxyTrusted() {
			withHeaders.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys the limiter on the socket address only; forwarding headers
// are client controlled unless RealIP applied them.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
