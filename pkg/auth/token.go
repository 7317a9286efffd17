package auth

import (
	"strings"
	"time"

	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser(jwt.WithoutClaimsValidation())

// InspectToken decodes the claims of tokenString without verifying the
// signature. Tokens that are not JWTs yield a validation error.
func InspectToken(tokenString string) (*TokenClaims, error) {
	raw := strings.TrimSpace(tokenString)
	if raw == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	claims := &TokenClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "token is not a readable jwt")
	}
	return claims, nil
}

// Expired reports whether tokenString should no longer be trusted at now.
// The skew shortens the lifetime so tokens about to lapse are not restored.
// Tokens without exp never expire. Opaque tokens that are not JWTs cannot be
// judged here and are left to the backend; an empty token is always expired.
func Expired(tokenString string, now time.Time, skew time.Duration) bool {
	if strings.TrimSpace(tokenString) == "" {
		return true
	}
	claims, err := InspectToken(tokenString)
	if err != nil {
		return false
	}
	return claimsExpired(claims, now, skew)
}

// ExpiresAt returns the exp claim, if any.
func ExpiresAt(tokenString string) (time.Time, bool) {
	claims, err := InspectToken(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func claimsExpired(claims *TokenClaims, now time.Time, skew time.Duration) bool {
	if claims == nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	if skew < 0 {
		skew = 0
	}
	return !now.Add(skew).Before(claims.ExpiresAt.Time)
}
