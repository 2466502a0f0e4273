package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/chanderbhanswami/vardhman-mills-sub017/backend"
)

// Recover catches handler panics and returns a 500 envelope.
func Recover(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic in handler",
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
				writeEnvelope(w, http.StatusInternalServerError, CodeInternalError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RateLimit rejects requests beyond the limiter's budget with a 429
// envelope.
func RateLimit(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeEnvelope(w, http.StatusTooManyRequests, CodeRateLimited, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Auth extracts the caller's token from the Authorization header or the
// auth_token cookie and places it in the request context for forwarding
// upstream. Requests without a token pass through as guests.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := extractToken(r); token != "" {
			r = r.WithContext(backend.ContextWithToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// CacheHeaders sets Cache-Control and CDN-Cache-Control per route
// class: flash-sale listings get the short TTL, other cacheable content
// routes the default, everything else no-store.
func CacheHeaders(defaultTTL, flashTTL time.Duration, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if ttl, ok := cacheTTL(r.URL.Path, defaultTTL, flashTTL); ok {
				value := "public, max-age=" + strconv.Itoa(int(ttl.Seconds()))
				w.Header().Set("Cache-Control", value)
				w.Header().Set("CDN-Cache-Control", value)
			} else {
				w.Header().Set("Cache-Control", "no-store")
			}
		}
		next.ServeHTTP(w, r)
	})
}

func cacheTTL(path string, defaultTTL, flashTTL time.Duration) (time.Duration, bool) {
	switch path {
	case "/v1/products/sale":
		return flashTTL, true
	case "/v1/content/hero", "/v1/products/featured", "/v1/home", "/v1/announcements":
		return defaultTTL, true
	default:
		return 0, false
	}
}

// writeEnvelope emits the uniform error envelope outside forge handlers
// (middleware runs before the router sees the request).
func writeEnvelope(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{
		Success:   false,
		Error:     &ErrorBody{Code: code, Message: message},
		Timestamp: time.Now().UTC(),
	})
}
