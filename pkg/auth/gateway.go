// Package auth gates the HTTP surface behind API keys, per-caller rate
// limits and a CORS origin allowlist.
package auth

import (
	"net"
	"net/http"
	"strings"

	"plstrack/pkg/logger"
)

// SecConfig carries the security settings the middleware enforces.
type SecConfig struct {
	AllowedOrigins []string
	RPS            float64
	Burst          int
	BackendKeys    map[string]struct{}
	// AllowUnauth skips the key check; rate limiting still applies.
	AllowUnauth bool
}

// open paths never require a key.
var openPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

// Middleware wraps next with CORS, rate limiting and API key checks.
func Middleware(cfg SecConfig, next http.Handler) http.Handler {
	pool := &limiterPool{cfg: cfg}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && originAllowed(cfg.AllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		key := apiKey(r)
		limKey := key
		if limKey == "" {
			limKey = remoteIP(r)
		}
		if !pool.Allow(limKey) {
			logger.Warn("rate_limited", "path", r.URL.Path, "remote", r.RemoteAddr)
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}

		if _, open := openPaths[r.URL.Path]; open || strings.HasPrefix(r.URL.Path, "/docs") {
			next.ServeHTTP(w, r)
			return
		}
		if cfg.AllowUnauth || len(cfg.BackendKeys) == 0 {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := cfg.BackendKeys[key]; !ok {
			logger.Warn("unauthorized", "path", r.URL.Path, "remote", r.RemoteAddr)
			http.Error(w, `{"error":"missing or invalid api key"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func apiKey(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get("X-API-Key")); k != "" {
		return k
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func remoteIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func originAllowed(allowed []string, origin string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
