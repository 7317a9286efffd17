package controllers

import (
	"net/http"
	"strings"

	"github.com/freshfind/storefront/api/responses"
	"github.com/freshfind/storefront/api/validators"
	"github.com/freshfind/storefront/internal/account"
	"github.com/freshfind/storefront/internal/catalog"
	"github.com/freshfind/storefront/internal/session"
	"github.com/freshfind/storefront/pkg/logger"
)

const maxSearchQueryLen = 100

// SessionState is the part of the session context the view reads and edits.
type SessionState interface {
	Snapshot() session.Snapshot
	SetSearchQuery(q string)
	SetFilters(filters catalog.Filters) error
}

type loginResponse struct {
	Redirect string           `json:"redirect"`
	Session  session.Snapshot `json:"session"`
}

type browsePayload struct {
	SearchQuery *string          `json:"searchQuery"`
	Filters     *catalog.Filters `json:"filters"`
}

func SessionGet(sess SessionState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, sess.Snapshot())
	}
}

// SessionLogin signs the shopper in and returns the landing route for
// their role.
func SessionLogin(svc account.Service, sess SessionState, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var input account.LoginInput
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		redirect, err := svc.Login(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, loginResponse{Redirect: redirect, Session: sess.Snapshot()})
	}
}

func SessionLogout(svc account.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// SessionBrowse updates the search query and filter criteria. Omitted
// fields keep their current value.
func SessionBrowse(sess SessionState, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var payload browsePayload
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if payload.Filters != nil {
			if err := sess.SetFilters(*payload.Filters); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}
		if payload.SearchQuery != nil {
			sess.SetSearchQuery(validators.SanitizeString(strings.ToValidUTF8(*payload.SearchQuery, ""), maxSearchQueryLen))
		}
		responses.WriteSuccess(w, sess.Snapshot())
	}
}
