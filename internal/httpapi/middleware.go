package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	authapp "github.com/agromart/agromart/internal/auth/app"
	"github.com/agromart/agromart/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type contextKey string

const claimsKey contextKey = "auth-claims"

func claimsFrom(ctx context.Context) (authapp.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(authapp.Claims)
	return claims, ok
}

// requestLogger emits one structured line per request and records the
// request counter and latency histogram.
func requestLogger(log zerolog.Logger, m *metrics.ServerMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = r.URL.Path
			}
			handler := r.Method + " " + route

			m.Requests.WithLabelValues(handler, strconv.Itoa(ww.Status())).Inc()
			m.LatencyMS.WithLabelValues(handler).Observe(float64(elapsed.Milliseconds()))

			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", elapsed).
				Str("remote", r.RemoteAddr).
				Msg("http request")
		})
	}
}

type authenticator struct {
	verify func(token string) (authapp.Claims, error)
}

func newAuthenticator(verify func(token string) (authapp.Claims, error)) *authenticator {
	return &authenticator{verify: verify}
}

// RequireUser rejects requests without a valid bearer token.
func (a *authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "Authentication required"})
			return
		}
		claims, err := a.verify(raw)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "Invalid or expired token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// RequireAdmin layers on RequireUser and checks the role claim.
func (a *authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := claimsFrom(r.Context())
		if claims.Role != "admin" {
			writeJSON(w, http.StatusForbidden, envelope{Success: false, Message: "Admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
