package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
)

const sessionIssuer = "beejsebazaar-advisor"

// Service signs users in through a hosted OIDC provider and issues session tokens.
type Service interface {
	Configured() bool
	AuthURL(ctx context.Context, mode Mode, state, codeChallenge string) (string, error)
	Callback(ctx context.Context, code, codeVerifier string) (LoginResult, error)
	ValidateSession(ctx context.Context, token string) (Session, error)
	SignOutURL(ctx context.Context) (string, error)
}

type service struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	provider *oidc.Provider
}

// NewService constructs a Service instance.
func NewService(cfg Config, logger *slog.Logger) Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &service{
		cfg:    cfg,
		logger: logger.With("component", "auth.service"),
		now:    time.Now,
	}
}

func (s *service) Configured() bool {
	return strings.TrimSpace(s.cfg.IssuerURL) != "" &&
		strings.TrimSpace(s.cfg.ClientID) != "" &&
		strings.TrimSpace(s.cfg.RedirectURL) != "" &&
		strings.TrimSpace(s.cfg.SessionSecret) != ""
}

func (s *service) ValidateSession(ctx context.Context, token string) (Session, error) {
	if !s.Configured() {
		return Session{}, apperrors.Wrap(apperrors.CodeAuthNotConfigured, "sign-in is not configured", nil)
	}
	return s.parseToken(token)
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

func (s *service) generateToken(session Session) (string, Session, error) {
	now := s.now()
	session.ExpiresAt = now.Add(s.cfg.SessionTTL).Truncate(time.Second)
	claims := sessionClaims{
		Email:     session.Email,
		FirstName: session.FirstName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   session.Subject,
			ID:        newTokenID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", Session{}, apperrors.Wrap(apperrors.CodeAuthError, "failed to sign token", err)
	}
	return signed, session, nil
}

func (s *service) parseToken(token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, apperrors.Wrap(apperrors.CodeInvalidToken, "missing session token", nil)
	}
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.SessionSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Session{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return Session{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token invalid", nil)
	}
	return Session{
		Subject:   claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func newTokenID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
