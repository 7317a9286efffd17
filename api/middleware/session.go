package middleware

import (
	"net/http"

	"github.com/freshfind/storefront/api/responses"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
)

// Session is the identity the guards consult.
type Session interface {
	IsLoggedIn() bool
	IsAdmin() bool
	UserID() string
}

// Tab tags every request with the browser tab the process serves.
func Tab(tabID string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logg != nil && tabID != "" {
				r = r.WithContext(logg.WithTabID(r.Context(), tabID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin rejects the request with 401 unless a user is logged in.
func RequireLogin(sess Session, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !sess.IsLoggedIn() {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required"))
				return
			}

			userID := sess.UserID()
			role := RoleShopper
			if sess.IsAdmin() {
				role = RoleAdmin
			}
			ctx = WithRole(WithUserID(ctx, userID), role)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
				ctx = logg.WithActorRole(ctx, role)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after RequireLogin.
func RequireAdmin(sess Session, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sess.IsAdmin() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
