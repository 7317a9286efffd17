package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/freshfind/storefront/api/responses"
	"github.com/freshfind/storefront/api/validators"
	"github.com/freshfind/storefront/internal/catalog"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
	"github.com/freshfind/storefront/pkg/pagination"
)

const (
	maxQueryParamLen = 100
	maxPage          = 10000
)

// productQuery reads the listing parameters. Filter params, when any is
// present, replace the session's criteria for this request only.
func productQuery(r *http.Request) (catalog.ProductQuery, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, maxPage)
	if err != nil {
		return catalog.ProductQuery{}, err
	}
	perPage, err := validators.ParseQueryInt(r, "perPage", 0, 0, pagination.MaxPerPage)
	if err != nil {
		return catalog.ProductQuery{}, err
	}

	values := r.URL.Query()
	query := catalog.ProductQuery{
		Query:    validators.SanitizeString(values.Get("q"), maxQueryParamLen),
		Category: validators.SanitizeString(values.Get("category"), maxQueryParamLen),
		Sort:     validators.SanitizeString(values.Get("sort"), maxQueryParamLen),
		Page:     pagination.Params{Page: page, PerPage: perPage},
	}

	if values.Has("ratings") || values.Has("priceRange") || values.Has("discount") {
		query.Filters = &catalog.Filters{
			Ratings:    strings.TrimSpace(values.Get("ratings")),
			PriceRange: strings.TrimSpace(values.Get("priceRange")),
			Discount:   strings.TrimSpace(values.Get("discount")),
		}
	}
	return query, nil
}

func CatalogHome(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		home, err := svc.Home(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, home)
	}
}

// CatalogProducts lists the shop page.
func CatalogProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query, err := productQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := svc.Products(ctx, query)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// CatalogSearch lists search results, defaulting to the session's query.
func CatalogSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query, err := productQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := svc.Search(ctx, query)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func CatalogProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := strings.TrimSpace(chi.URLParam(r, "productId"))
		if id == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}
		detail, err := svc.Product(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func CatalogCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CatalogAbout(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.About(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func CatalogContact(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := svc.Contact(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, info)
	}
}

// CatalogSendMessage posts the contact form.
func CatalogSendMessage(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var input catalog.ContactInput
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.SendMessage(ctx, input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]bool{"sent": true})
	}
}

func CatalogCreateReview(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var input catalog.ReviewInput
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if id := strings.TrimSpace(chi.URLParam(r, "productId")); id != "" {
			input.ProductID = id
		}
		if err := svc.CreateReview(ctx, input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]bool{"created": true})
	}
}
