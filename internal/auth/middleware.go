package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// Skipper allows callers to bypass authentication for specific requests.
type Skipper func(r *http.Request) bool

// SkipHealth bypasses authentication for health checks.
func SkipHealth(r *http.Request) bool {
	return r.URL.Path == "/healthz"
}

// Middleware parses the bearer token of every request and stores its claims
// on the request context. Scope checks happen per route with RequireScope.
type Middleware struct {
	Config  Config
	Skipper Skipper
}

// NewMiddleware constructs a middleware with optional skipper.
func NewMiddleware(cfg Config, skipper Skipper) Middleware {
	return Middleware{Config: cfg, Skipper: skipper}
}

// Wrap attaches authentication handling to an http.Handler.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Skipper != nil && m.Skipper(r) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := bearerClaims(r, m.Config)
		if err != nil {
			WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// RequireScope rejects requests whose claims do not grant scope.
func RequireScope(scope string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := Authorize(r.Context(), scope); err != nil {
			WriteError(w, err)
			return
		}
		next(w, r)
	})
}

// WriteError answers with 403 for scope failures and 401 for anything else,
// using the API's JSON error shape.
func WriteError(w http.ResponseWriter, err error) {
	status, code := http.StatusUnauthorized, "unauthorized"
	if errors.Is(err, ErrInsufficientScope) {
		status, code = http.StatusForbidden, "forbidden"
	} else {
		w.Header().Set("WWW-Authenticate", `Bearer realm="session"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"type": code, "detail": err.Error()})
}

func bearerClaims(r *http.Request, cfg Config) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return nil, ErrInvalidToken
	}
	return Parse(token, cfg)
}
