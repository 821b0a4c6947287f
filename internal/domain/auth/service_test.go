package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
)

const testClientID = "advisor-web"

type fakeIssuer struct {
	srv      *httptest.Server
	key      *rsa.PrivateKey
	mu       sync.Mutex
	verifier string
	code     string
	audience string
	claims   jwt.MapClaims
}

func newFakeIssuer(t *testing.T) *fakeIssuer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	f := &fakeIssuer{key: key, audience: testClientID}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"issuer":                                f.srv.URL,
			"authorization_endpoint":                f.srv.URL + "/authorize",
			"token_endpoint":                        f.srv.URL + "/oauth/token",
			"jwks_uri":                              f.srv.URL + "/jwks",
			"end_session_endpoint":                  f.srv.URL + "/logout",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	})
	mux.HandleFunc("/jwks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "test-key",
			"alg": "RS256",
			"use": "sig",
			"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
		}}})
	})
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.verifier = r.PostForm.Get("code_verifier")
		f.code = r.PostForm.Get("code")
		audience := f.audience
		extra := f.claims
		f.mu.Unlock()

		claims := jwt.MapClaims{
			"iss":        f.srv.URL,
			"sub":        "auth0|farmer-1",
			"aud":        audience,
			"exp":        time.Now().Add(time.Hour).Unix(),
			"iat":        time.Now().Unix(),
			"email":      "Asha@Example.in",
			"given_name": "Asha",
		}
		for k, v := range extra {
			claims[k] = v
		}
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		token.Header["kid"] = "test-key"
		idToken, err := token.SignedString(key)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"access_token": "opaque",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     idToken,
		})
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeIssuer) override(audience string, claims jwt.MapClaims) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if audience != "" {
		f.audience = audience
	}
	f.claims = claims
}

func (f *fakeIssuer) received() (code, verifier string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code, f.verifier
}

func (f *fakeIssuer) config() Config {
	return Config{
		IssuerURL:             f.srv.URL,
		ClientID:              testClientID,
		ClientSecret:          "client-secret",
		RedirectURL:           "http://localhost:8080/api/v1/auth/callback",
		PostLoginRedirectURL:  "/",
		PostLogoutRedirectURL: "http://localhost:5173/",
		SessionSecret:         "session-secret",
		SessionTTL:            time.Hour,
	}
}

func TestAuthURLUsesPKCE(t *testing.T) {
	issuer := newFakeIssuer(t)
	svc := NewService(issuer.config(), newTestLogger())

	state, _, challenge, err := NewOAuthState()
	require.NoError(t, err)

	raw, err := svc.AuthURL(context.Background(), ModeSignIn, state, challenge)
	require.NoError(t, err)
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	query := parsed.Query()
	require.Equal(t, "/authorize", parsed.Path)
	require.Equal(t, state, query.Get("state"))
	require.Equal(t, challenge, query.Get("code_challenge"))
	require.Equal(t, "S256", query.Get("code_challenge_method"))
	require.Equal(t, testClientID, query.Get("client_id"))
	require.Empty(t, query.Get("screen_hint"))

	raw, err = svc.AuthURL(context.Background(), ModeSignUp, state, challenge)
	require.NoError(t, err)
	parsed, err = url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "signup", parsed.Query().Get("screen_hint"))
}

func TestCallbackIssuesSession(t *testing.T) {
	issuer := newFakeIssuer(t)
	svc := NewService(issuer.config(), newTestLogger())

	result, err := svc.Callback(context.Background(), "code-123", "verifier-abc")
	require.NoError(t, err)
	code, verifier := issuer.received()
	require.Equal(t, "code-123", code)
	require.Equal(t, "verifier-abc", verifier)
	require.Equal(t, "/", result.RedirectURL)
	require.Equal(t, "Asha", result.Session.FirstName)
	require.Equal(t, "asha@example.in", result.Session.Email)

	session, err := svc.ValidateSession(context.Background(), result.Token)
	require.NoError(t, err)
	require.Equal(t, "auth0|farmer-1", session.Subject)
	require.Equal(t, "Asha", session.FirstName)
	require.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
}

func TestCallbackFallsBackToNameForFirstName(t *testing.T) {
	issuer := newFakeIssuer(t)
	issuer.override("", jwt.MapClaims{"given_name": "", "name": "Ravi Kumar"})
	svc := NewService(issuer.config(), newTestLogger())

	result, err := svc.Callback(context.Background(), "code", "verifier")
	require.NoError(t, err)
	require.Equal(t, "Ravi", result.Session.FirstName)
}

func TestCallbackRejectsForeignAudience(t *testing.T) {
	issuer := newFakeIssuer(t)
	issuer.override("someone-else", nil)
	svc := NewService(issuer.config(), newTestLogger())

	_, err := svc.Callback(context.Background(), "code", "verifier")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func TestCallbackRequiresCodeAndVerifier(t *testing.T) {
	issuer := newFakeIssuer(t)
	svc := NewService(issuer.config(), newTestLogger())

	_, err := svc.Callback(context.Background(), "", "verifier")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestSignOutURLUsesEndSessionEndpoint(t *testing.T) {
	issuer := newFakeIssuer(t)
	svc := NewService(issuer.config(), newTestLogger())

	raw, err := svc.SignOutURL(context.Background())
	require.NoError(t, err)
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "/logout", parsed.Path)
	require.Equal(t, testClientID, parsed.Query().Get("client_id"))
	require.Equal(t, "http://localhost:5173/", parsed.Query().Get("post_logout_redirect_uri"))
}

func TestValidateSessionRejectsBadTokens(t *testing.T) {
	issuer := newFakeIssuer(t)
	svc := NewService(issuer.config(), newTestLogger()).(*service)

	signed, _, err := svc.generateToken(Session{Subject: "s1", FirstName: "Asha"})
	require.NoError(t, err)

	_, err = svc.ValidateSession(context.Background(), signed+"x")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	other := NewService(Config{IssuerURL: "http://x", ClientID: "c", RedirectURL: "http://r", SessionSecret: "other"}, newTestLogger())
	_, err = other.ValidateSession(context.Background(), signed)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateSession(context.Background(), signed)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func TestUnconfiguredService(t *testing.T) {
	svc := NewService(Config{}, newTestLogger())
	require.False(t, svc.Configured())

	_, err := svc.AuthURL(context.Background(), ModeSignIn, "s", "c")
	require.True(t, apperrors.IsCode(err, apperrors.CodeAuthNotConfigured))
	_, err = svc.Callback(context.Background(), "code", "verifier")
	require.True(t, apperrors.IsCode(err, apperrors.CodeAuthNotConfigured))
	_, err = svc.ValidateSession(context.Background(), "token")
	require.True(t, apperrors.IsCode(err, apperrors.CodeAuthNotConfigured))
	_, err = svc.SignOutURL(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeAuthNotConfigured))
}

func TestCodeChallengeFromVerifier(t *testing.T) {
	// RFC 7636 appendix B.
	require.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", CodeChallengeFromVerifier("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
