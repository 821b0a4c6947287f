package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
	"github.com/beejsebazaar/advisor/pkg/util"
)

type idClaims struct {
	Subject   string `json:"sub"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	GivenName string `json:"given_name"`
	Nickname  string `json:"nickname"`
}

type discoveryClaims struct {
	EndSessionEndpoint string `json:"end_session_endpoint"`
}

func (s *service) AuthURL(ctx context.Context, mode Mode, state, codeChallenge string) (string, error) {
	cfg, _, err := s.oauthConfig(ctx)
	if err != nil {
		return "", err
	}
	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	}
	if mode == ModeSignUp {
		opts = append(opts, oauth2.SetAuthURLParam("screen_hint", "signup"))
	}
	return cfg.AuthCodeURL(state, opts...), nil
}

func (s *service) Callback(ctx context.Context, code, codeVerifier string) (LoginResult, error) {
	cfg, provider, err := s.oauthConfig(ctx)
	if err != nil {
		return LoginResult{}, err
	}
	if strings.TrimSpace(code) == "" || strings.TrimSpace(codeVerifier) == "" {
		return LoginResult{}, apperrors.Wrap(apperrors.CodeInvalidState, "missing oauth code or verifier", nil)
	}
	token, err := cfg.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return LoginResult{}, apperrors.Wrap(apperrors.CodeAuthError, "failed to exchange oauth code", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return LoginResult{}, apperrors.Wrap(apperrors.CodeAuthError, "missing id_token in oauth response", nil)
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: s.cfg.ClientID})
	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return LoginResult{}, apperrors.Wrap(apperrors.CodeInvalidToken, "failed to verify id token", err)
	}
	var claims idClaims
	if err := idToken.Claims(&claims); err != nil {
		return LoginResult{}, apperrors.Wrap(apperrors.CodeInvalidToken, "failed to parse id token claims", err)
	}
	if claims.Subject == "" {
		return LoginResult{}, apperrors.Wrap(apperrors.CodeInvalidToken, "missing subject in id token", nil)
	}

	session := Session{
		Subject:   claims.Subject,
		Email:     strings.ToLower(strings.TrimSpace(claims.Email)),
		FirstName: firstName(claims),
	}
	signed, session, err := s.generateToken(session)
	if err != nil {
		return LoginResult{}, err
	}
	s.logger.Info("user signed in", "subject", session.Subject)
	return LoginResult{Token: signed, Session: session, RedirectURL: s.cfg.PostLoginRedirectURL}, nil
}

func (s *service) SignOutURL(ctx context.Context) (string, error) {
	_, provider, err := s.oauthConfig(ctx)
	if err != nil {
		return "", err
	}
	var discovery discoveryClaims
	if err := provider.Claims(&discovery); err != nil || discovery.EndSessionEndpoint == "" {
		return s.cfg.PostLogoutRedirectURL, nil
	}
	endpoint, err := url.Parse(discovery.EndSessionEndpoint)
	if err != nil {
		return s.cfg.PostLogoutRedirectURL, nil
	}
	query := endpoint.Query()
	query.Set("client_id", s.cfg.ClientID)
	if s.cfg.PostLogoutRedirectURL != "" {
		query.Set("post_logout_redirect_uri", s.cfg.PostLogoutRedirectURL)
	}
	endpoint.RawQuery = query.Encode()
	return endpoint.String(), nil
}

func (s *service) oauthConfig(ctx context.Context) (*oauth2.Config, *oidc.Provider, error) {
	if !s.Configured() {
		return nil, nil, apperrors.Wrap(apperrors.CodeAuthNotConfigured, "sign-in is not configured", nil)
	}
	provider, err := s.discover(ctx)
	if err != nil {
		return nil, nil, err
	}
	return &oauth2.Config{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		RedirectURL:  s.cfg.RedirectURL,
		Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		Endpoint:     provider.Endpoint(),
	}, provider, nil
}

// discover fetches the provider document once; failures are retried on the
// next call.
func (s *service) discover(ctx context.Context) (*oidc.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.provider != nil {
		return s.provider, nil
	}
	provider, err := oidc.NewProvider(ctx, s.cfg.IssuerURL)
	if err != nil {
		s.logger.Error("oidc discovery failed", "issuer", s.cfg.IssuerURL, "error", err)
		return nil, apperrors.Wrap(apperrors.CodeAuthError, "identity provider is unavailable", err)
	}
	s.provider = provider
	return provider, nil
}

func firstName(claims idClaims) string {
	var fromName, fromEmail string
	if fields := strings.Fields(claims.Name); len(fields) > 0 {
		fromName = fields[0]
	}
	if local, _, ok := strings.Cut(claims.Email, "@"); ok {
		fromEmail = local
	}
	return strings.TrimSpace(util.FirstNonEmpty(claims.GivenName, fromName, claims.Nickname, fromEmail, "Farmer"))
}

func randomString(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// CodeChallengeFromVerifier computes the PKCE code challenge for a verifier.
func CodeChallengeFromVerifier(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// NewOAuthState returns a state, code verifier, and code challenge for PKCE.
func NewOAuthState() (state string, codeVerifier string, codeChallenge string, err error) {
	state, err = randomString(32)
	if err != nil {
		return "", "", "", err
	}
	codeVerifier, err = randomString(32)
	if err != nil {
		return "", "", "", err
	}
	codeChallenge = CodeChallengeFromVerifier(codeVerifier)
	return state, codeVerifier, codeChallenge, nil
}
