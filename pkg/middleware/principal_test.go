package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storeauth/pkg/authz"
	"storeauth/pkg/config"
	"storeauth/pkg/middleware"
)

const (
	testIssuer   = "https://issuer.test"
	testAudience = "storeauth"
)

func newSigningKey(t *testing.T) jwk.Key {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	key, err := jwk.FromRaw(priv)
	require.NoError(t, err)
	require.NoError(t, key.Set(jwk.KeyIDKey, "test-key"))
	require.NoError(t, key.Set(jwk.AlgorithmKey, jwa.RS256))
	return key
}

func newJWKSServer(t *testing.T, key jwk.Key) *httptest.Server {
	t.Helper()
	pub, err := key.PublicKey()
	require.NoError(t, err)
	set := jwk.NewSet()
	require.NoError(t, set.AddKey(pub))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(set)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key jwk.Key, subject string, expires time.Time) string {
	t.Helper()
	tok, err := jwt.NewBuilder().
		Issuer(testIssuer).
		Audience([]string{testAudience}).
		Subject(subject).
		IssuedAt(time.Now()).
		Expiration(expires).
		Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256, key))
	require.NoError(t, err)
	return string(signed)
}

func capturePrincipal(t *testing.T, cfg config.Config, authorization string) authz.Principal {
	t.Helper()
	var captured authz.Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = middleware.PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.Principal(cfg, zap.NewNop().Sugar())(inner)

	req := httptest.NewRequest(http.MethodPost, "/v1/authz/check", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "principal middleware must never reject the request itself")
	return captured
}

func TestPrincipalValidToken(t *testing.T) {
	key := newSigningKey(t)
	jwks := newJWKSServer(t, key)
	cfg := config.Config{JWKSURL: jwks.URL, Issuer: testIssuer, Audience: testAudience}

	token := signToken(t, key, "user-42", time.Now().Add(15*time.Minute))
	p := capturePrincipal(t, cfg, "Bearer "+token)
	assert.True(t, p.Authenticated)
	assert.Equal(t, "user-42", p.ID)
}

func TestPrincipalMissingTokenIsAnonymous(t *testing.T) {
	key := newSigningKey(t)
	jwks := newJWKSServer(t, key)
	cfg := config.Config{JWKSURL: jwks.URL, Issuer: testIssuer, Audience: testAudience}

	p := capturePrincipal(t, cfg, "")
	assert.False(t, p.Authenticated)
	assert.Equal(t, authz.Anonymous, p)
}

func TestPrincipalGarbageTokenIsAnonymous(t *testing.T) {
	key := newSigningKey(t)
	jwks := newJWKSServer(t, key)
	cfg := config.Config{JWKSURL: jwks.URL, Issuer: testIssuer, Audience: testAudience}

	p := capturePrincipal(t, cfg, "Bearer not-a-jwt")
	assert.False(t, p.Authenticated)
}

func TestPrincipalExpiredTokenIsAnonymous(t *testing.T) {
	key := newSigningKey(t)
	jwks := newJWKSServer(t, key)
	cfg := config.Config{JWKSURL: jwks.URL, Issuer: testIssuer, Audience: testAudience}

	token := signToken(t, key, "user-42", time.Now().Add(-time.Minute))
	p := capturePrincipal(t, cfg, "Bearer "+token)
	assert.False(t, p.Authenticated)
}

func TestPrincipalWrongAudienceIsAnonymous(t *testing.T) {
	key := newSigningKey(t)
	jwks := newJWKSServer(t, key)
	cfg := config.Config{JWKSURL: jwks.URL, Issuer: testIssuer, Audience: "some-other-api"}

	token := signToken(t, key, "user-42", time.Now().Add(15*time.Minute))
	p := capturePrincipal(t, cfg, "Bearer "+token)
	assert.False(t, p.Authenticated)
}

func TestRequestIDEchoed(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := middleware.RequestID()(inner)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
