package http

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	oauthStateCookieName = "oauth_state"
	oauthStateMaxAge     = 300
	nonceSize            = 24
)

var errSealedCookie = errors.New("sealed cookie is malformed or was tampered with")

type oauthStateCookie struct {
	State        string `json:"state"`
	CodeVerifier string `json:"verifier"`
	Mode         string `json:"mode,omitempty"`
}

// cookieSealer encrypts and authenticates cookie payloads.
type cookieSealer struct {
	key [32]byte
}

func newCookieSealer(secret string) *cookieSealer {
	return &cookieSealer{key: sha256.Sum256([]byte(secret))}
}

func (s *cookieSealer) seal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	sealed := secretbox.Seal(nonce[:], data, &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (s *cookieSealer) open(value string, v any) error {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return errSealedCookie
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	data, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return errSealedCookie
	}
	return json.Unmarshal(data, v)
}

func setOAuthStateCookie(c *gin.Context, sealer *cookieSealer, payload oauthStateCookie) error {
	encoded, err := sealer.seal(payload)
	if err != nil {
		return err
	}
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookieName, encoded, oauthStateMaxAge, "/", "", secure, true)
	return nil
}

func clearOAuthStateCookie(c *gin.Context) {
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookieName, "", -1, "/", "", secure, true)
}

func readOAuthStateCookie(c *gin.Context, sealer *cookieSealer) (oauthStateCookie, bool) {
	value, err := c.Cookie(oauthStateCookieName)
	if err != nil || value == "" {
		return oauthStateCookie{}, false
	}
	var payload oauthStateCookie
	if err := sealer.open(value, &payload); err != nil {
		return oauthStateCookie{}, false
	}
	if payload.State == "" || payload.CodeVerifier == "" {
		return oauthStateCookie{}, false
	}
	return payload, true
}
