package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the typed shape of the bearer token the external
// identity provider issues. The API verifies the signature and reads the
// user identifier; everything else about the credential is the provider's
// business.
type AccessTokenClaims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// UserIdentifier returns the user id claim, falling back to the registered
// subject when the provider only sets sub.
func (c *AccessTokenClaims) UserIdentifier() string {
	if c == nil {
		return ""
	}
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
