package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "test-issuer"}

func TestIssueAndParseRoundTrip(t *testing.T) {
	token, err := Issue(testConfig, "therapist", []string{ScopeSessionRead, ScopeSessionControl}, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, "therapist", claims.Subject)
	require.True(t, claims.HasScope(ScopeSessionRead))
	require.True(t, claims.HasScope(ScopeSessionControl))
	require.False(t, claims.HasScope("session:admin"))
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestParseRejectsBadTokens(t *testing.T) {
	expired, err := Issue(testConfig, "therapist", nil, -time.Minute)
	require.NoError(t, err)
	wrongIssuer, err := Issue(Config{Secret: testConfig.Secret, Issuer: "other"}, "therapist", nil, time.Hour)
	require.NoError(t, err)
	wrongSecret, err := Issue(Config{Secret: "nope", Issuer: testConfig.Issuer}, "therapist", nil, time.Hour)
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": testConfig.Issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong issuer": wrongIssuer,
		"wrong secret": wrongSecret,
		"no subject":   noSubject,
		"garbage":      "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(token, testConfig)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err = Parse("  ", testConfig)
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestNormalizeScopesAcceptsSpaceSeparatedString(t *testing.T) {
	scopes := normalizeScopes("session:read  session:control")
	require.Len(t, scopes, 2)
	require.Contains(t, scopes, ScopeSessionControl)
}

func TestMiddleware(t *testing.T) {
	var seen *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := NewMiddleware(testConfig, SkipHealth).Wrap(next)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/session", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, `Bearer realm="session"`, rr.Header().Get("WWW-Authenticate"))
	require.JSONEq(t, `{"type":"unauthorized","detail":"missing bearer token"}`, rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	req.Header.Set("Authorization", "Basic abc")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	seen = nil
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.Nil(t, seen)

	token, err := Issue(testConfig, "therapist", []string{ScopeSessionRead}, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
	require.NotNil(t, seen)
	require.Equal(t, "therapist", seen.Subject)
}

func TestAuthorizeScopes(t *testing.T) {
	ctx := context.Background()
	_, err := Authorize(ctx, ScopeSessionRead)
	require.ErrorIs(t, err, ErrMissingToken)

	control := WithClaims(ctx, &Claims{Subject: "therapist", Scopes: map[string]struct{}{ScopeSessionControl: {}}})
	claims, err := Authorize(control, ScopeSessionRead)
	require.NoError(t, err)
	require.Equal(t, "therapist", claims.Subject)

	read := WithClaims(ctx, &Claims{Subject: "viewer", Scopes: map[string]struct{}{ScopeSessionRead: {}}})
	_, err = Authorize(read, ScopeSessionControl)
	require.ErrorIs(t, err, ErrInsufficientScope)

	_, err = Authorize(WithClaims(ctx, nil), ScopeSessionRead)
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestRequireScope(t *testing.T) {
	called := false
	handler := RequireScope(ScopeSessionControl, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusAccepted)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/session/restart", nil)
	req = req.WithContext(WithClaims(req.Context(), &Claims{Subject: "viewer", Scopes: map[string]struct{}{ScopeSessionRead: {}}}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Empty(t, rr.Header().Get("WWW-Authenticate"))
	require.False(t, called)

	req = httptest.NewRequest(http.MethodPost, "/v1/session/restart", nil)
	req = req.WithContext(WithClaims(req.Context(), &Claims{Subject: "therapist", Scopes: map[string]struct{}{ScopeSessionControl: {}}}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusAccepted, rr.Code)
	require.True(t, called)
}
