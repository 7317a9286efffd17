package controllers

import (
	"context"
	"net/http"

	"github.com/freshfind/storefront/api/responses"
	"github.com/freshfind/storefront/api/validators"
	"github.com/freshfind/storefront/internal/admin"
	"github.com/freshfind/storefront/pkg/logger"
)

// Image fields ride along with the form values, so the body cap leaves
// room for the form itself.
const maxAdminFormBytes = admin.MaxImageBytes + 1<<20

func adminList[T any](svc admin.Service, list func(admin.Service, context.Context) ([]T, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := list(svc, r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if out == nil {
			out = []T{}
		}
		responses.WriteSuccess(w, out)
	}
}

func adminGet[T any](svc admin.Service, key, label string, get func(admin.Service, context.Context, string) (*T, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, key, label)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		out, err := get(svc, ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func adminDelete(svc admin.Service, key, label string, del func(admin.Service, context.Context, string) error, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, key, label)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := del(svc, ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func formImage(form *validators.Form, field string) *admin.Image {
	name, data := form.File(field)
	if data == nil {
		return nil
	}
	return &admin.Image{Name: name, Data: data}
}

func productForm(w http.ResponseWriter, r *http.Request) (admin.ProductInput, *admin.Image, error) {
	form, err := validators.ParseMultipartForm(w, r, maxAdminFormBytes)
	if err != nil {
		return admin.ProductInput{}, nil, err
	}
	input := admin.ProductInput{
		Name:        form.Text("productName"),
		Description: form.Text("description"),
		Discount:    form.Number("discount"),
		CostPrice:   form.Number("costPrice"),
		SalePrice:   form.Number("salePrice"),
		Stock:       form.Int("stock"),
		CategoryID:  form.Text("categoryId"),
	}
	image := formImage(form, "productImage")
	return input, image, form.Err()
}

func AdminProductsList(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminList(svc, admin.Service.Products, logg)
}

func AdminProductGet(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminGet(svc, "productId", "product id", admin.Service.Product, logg)
}

// AdminProductCreate takes a multipart form with a required productImage.
func AdminProductCreate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		input, image, err := productForm(w, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product, err := svc.CreateProduct(ctx, input, image)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminProductUpdate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "productId", "product id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, image, err := productForm(w, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product, err := svc.UpdateProduct(ctx, id, input, image)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminProductDelete(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminDelete(svc, "productId", "product id", admin.Service.DeleteProduct, logg)
}

func categoryForm(w http.ResponseWriter, r *http.Request) (admin.CategoryInput, *admin.Image, error) {
	form, err := validators.ParseMultipartForm(w, r, maxAdminFormBytes)
	if err != nil {
		return admin.CategoryInput{}, nil, err
	}
	input := admin.CategoryInput{Name: form.Text("name"), Color: form.Text("color")}
	return input, formImage(form, "image"), form.Err()
}

func AdminCategoriesList(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminList(svc, admin.Service.Categories, logg)
}

func AdminCategoryGet(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminGet(svc, "categoryId", "category id", admin.Service.Category, logg)
}

func AdminCategoryCreate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		input, image, err := categoryForm(w, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		category, err := svc.CreateCategory(ctx, input, image)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

func AdminCategoryUpdate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "categoryId", "category id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input, image, err := categoryForm(w, r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		category, err := svc.UpdateCategory(ctx, id, input, image)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

func AdminCategoryDelete(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminDelete(svc, "categoryId", "category id", admin.Service.DeleteCategory, logg)
}

func AdminBannersList(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminList(svc, admin.Service.Banners, logg)
}

func AdminBannerGet(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminGet(svc, "bannerId", "banner id", admin.Service.Banner, logg)
}

func AdminBannerUpdate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "bannerId", "banner id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		form, err := validators.ParseMultipartForm(w, r, maxAdminFormBytes)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input := admin.BannerInput{ViewOrder: form.Int("viewOrder"), Active: form.Bool("activeStatus")}
		image := formImage(form, "bannerImage")
		if err := form.Err(); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		banner, err := svc.UpdateBanner(ctx, id, input, image)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, banner)
	}
}

func AdminBannerDelete(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminDelete(svc, "bannerId", "banner id", admin.Service.DeleteBanner, logg)
}

func AdminUsersList(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminList(svc, admin.Service.Users, logg)
}

func AdminUserGet(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminGet(svc, "userId", "user id", admin.Service.User, logg)
}

func AdminUserUpdate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "userId", "user id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		form, err := validators.ParseMultipartForm(w, r, maxAdminFormBytes)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input := admin.UserInput{
			FirstName: form.Text("firstName"),
			LastName:  form.Text("lastName"),
			Email:     form.Text("email"),
			Mobile:    form.Text("mobile"),
			Password:  form.Raw("password"),
		}
		picture := formImage(form, "profilePicture")
		if err := form.Err(); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		user, err := svc.UpdateUser(ctx, id, input, picture)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func AdminUserDelete(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminDelete(svc, "userId", "user id", admin.Service.DeleteUser, logg)
}

func AdminReviewsList(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminList(svc, admin.Service.Reviews, logg)
}

func AdminReviewGet(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminGet(svc, "reviewId", "review id", admin.Service.Review, logg)
}

func AdminReviewUpdate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "reviewId", "review id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var input admin.ReviewInput
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		review, err := svc.UpdateReview(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}

func AdminReviewReply(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "reviewId", "review id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var input admin.ReplyInput
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		review, err := svc.ReplyToReview(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, review)
	}
}

func AdminReviewDelete(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminDelete(svc, "reviewId", "review id", admin.Service.DeleteReview, logg)
}

func AdminSiteContent(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := svc.SiteContent(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, content)
	}
}

func AdminAboutUpdate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var input admin.AboutInput
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.UpdateAbout(ctx, input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func AdminContactUpdate(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var input admin.ContactSettings
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.UpdateContact(ctx, input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func AdminResponsesList(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminList(svc, admin.Service.Responses, logg)
}

func AdminResponseReply(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := pathID(r, "responseId", "response id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var input admin.ReplyInput
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		response, err := svc.ReplyToResponse(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, response)
	}
}

func AdminResponseDelete(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return adminDelete(svc, "responseId", "response id", admin.Service.DeleteResponse, logg)
}
