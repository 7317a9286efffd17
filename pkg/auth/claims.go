package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the fields the storefront reads from a backend-issued JWT.
// The backend signs tokens with a key the storefront never sees, so these are
// informational only and never used for authorization decisions.
type TokenClaims struct {
	UserID string `json:"id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID returns the user id carried by the token, preferring the backend's
// custom id claim over the registered sub.
func (c TokenClaims) SubjectID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}
