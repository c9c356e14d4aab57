package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued session token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// JWTClaims represents the session token payload.
type JWTClaims struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginOutcome is the result of an authentication attempt.
type LoginOutcome string

const (
	LoginAllowed         LoginOutcome = "allowed"
	LoginBadCredentials  LoginOutcome = "bad_credentials"
	LoginAccountDisabled LoginOutcome = "account_disabled"
	LoginLocked          LoginOutcome = "locked"
)

// LoginAttempt is one failed authentication event.
type LoginAttempt struct {
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// Viewer is the request-scoped identity every service operation receives.
type Viewer struct {
	Identity      string
	Role          UserRole
	Authenticated bool
}

// Anonymous returns the viewer used for requests without a session.
func Anonymous() Viewer {
	return Viewer{}
}

// ViewerFromClaims builds the viewer carried by a verified session token.
func ViewerFromClaims(claims *JWTClaims) Viewer {
	if claims == nil || claims.Username == "" {
		return Anonymous()
	}
	return Viewer{Identity: claims.Username, Role: claims.Role, Authenticated: true}
}

// IsAdmin reports whether the viewer holds the admin role.
func (v Viewer) IsAdmin() bool {
	return v.Authenticated && v.Role == RoleAdmin
}

// Capabilities lists which idea actions a role may perform.
type Capabilities struct {
	Create  bool `json:"create"`
	Edit    bool `json:"edit"`
	Delete  bool `json:"delete"`
	Publish bool `json:"publish"`
	Save    bool `json:"save"`
	Review  bool `json:"review"`
}

// Profile is the payload of the current-session endpoint.
type Profile struct {
	User         UserInfo     `json:"user"`
	Capabilities Capabilities `json:"capabilities"`
	Navigation   []string     `json:"navigation"`
	UnreadCount  int          `json:"unread_count"`
}
