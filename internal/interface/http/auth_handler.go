package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beejsebazaar/advisor/internal/domain/auth"
	apperrors "github.com/beejsebazaar/advisor/pkg/errors"
)

// SignIn redirects to the hosted sign-in page.
func (h *Handler) SignIn(c *gin.Context) {
	h.startLogin(c, auth.ModeSignIn)
}

// SignUp redirects to the hosted sign-up page.
func (h *Handler) SignUp(c *gin.Context) {
	h.startLogin(c, auth.ModeSignUp)
}

func (h *Handler) startLogin(c *gin.Context, mode auth.Mode) {
	if !h.svc.Auth.Configured() {
		fail(c, apperrors.Wrap(apperrors.CodeAuthNotConfigured, "sign-in is not configured", nil))
		return
	}
	state, verifier, challenge, err := auth.NewOAuthState()
	if err != nil {
		fail(c, apperrors.Wrap(apperrors.CodeAuthError, "failed to start sign-in", err))
		return
	}
	target, err := h.svc.Auth.AuthURL(c.Request.Context(), mode, state, challenge)
	if err != nil {
		fail(c, err)
		return
	}
	if err := setOAuthStateCookie(c, h.sealer, oauthStateCookie{State: state, CodeVerifier: verifier, Mode: string(mode)}); err != nil {
		fail(c, apperrors.Wrap(apperrors.CodeAuthError, "failed to start sign-in", err))
		return
	}
	c.Redirect(http.StatusFound, target)
}

// Callback completes the hosted login and sets the session cookie.
func (h *Handler) Callback(c *gin.Context) {
	if providerErr := c.Query("error"); providerErr != "" {
		clearOAuthStateCookie(c)
		fail(c, apperrors.Wrap(apperrors.CodeInvalidState, "sign-in was cancelled: "+providerErr, nil))
		return
	}
	stored, ok := readOAuthStateCookie(c, h.sealer)
	clearOAuthStateCookie(c)
	if !ok || stored.State != c.Query("state") {
		fail(c, apperrors.Wrap(apperrors.CodeInvalidState, "sign-in state mismatch, please try again", nil))
		return
	}
	result, err := h.svc.Auth.Callback(c.Request.Context(), c.Query("code"), stored.CodeVerifier)
	if err != nil {
		fail(c, err)
		return
	}
	setSessionCookie(c, result.Token, result.Session.ExpiresAt)
	h.logger.Info("session cookie issued", "mode", stored.Mode)
	c.Redirect(http.StatusFound, result.RedirectURL)
}

// SignOut clears the session and returns the provider logout URL.
func (h *Handler) SignOut(c *gin.Context) {
	clearSessionCookie(c)
	target, err := h.svc.Auth.SignOutURL(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirectUrl": target})
}

// Session reports whether the caller is signed in.
func (h *Handler) Session(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		c.JSON(http.StatusOK, auth.SessionView{SignedIn: false})
		return
	}
	c.JSON(http.StatusOK, auth.SessionView{SignedIn: true, FirstName: session.FirstName, Email: session.Email})
}
