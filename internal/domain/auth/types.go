package auth

import "time"

// Config drives hosted sign-in and session tokens.
type Config struct {
	IssuerURL             string
	ClientID              string
	ClientSecret          string
	RedirectURL           string
	PostLoginRedirectURL  string
	PostLogoutRedirectURL string
	SessionSecret         string
	SessionTTL            time.Duration
}

// Mode selects the hosted page a user lands on.
type Mode string

const (
	ModeSignIn Mode = "sign_in"
	ModeSignUp Mode = "sign_up"
)

// Session is the signed-in user as carried by the session token.
type Session struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionView is all the pages need to branch on.
type SessionView struct {
	SignedIn  bool   `json:"signedIn"`
	FirstName string `json:"firstName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// LoginResult is returned after a successful callback.
type LoginResult struct {
	Token       string
	Session     Session
	RedirectURL string
}
