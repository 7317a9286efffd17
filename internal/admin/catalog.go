package admin

import (
	"context"

	"github.com/freshfind/storefront/pkg/backend"
)

const (
	fieldProductImage  = "productImage"
	fieldCategoryImage = "image"
	fieldBannerImage   = "bannerImage"
)

func (s *service) Products(ctx context.Context) ([]backend.Product, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	list, err := s.api.Products(ctx)
	if err != nil {
		return nil, s.failed(ctx, err, "Failed to fetch products")
	}
	return list, nil
}

func (s *service) Product(ctx context.Context, id string) (*backend.Product, error) {
	id, err := s.target(id, "product id")
	if err != nil {
		return nil, err
	}
	return s.api.Product(ctx, id)
}

// CreateProduct adds a product; the image is required for new products.
func (s *service) CreateProduct(ctx context.Context, input ProductInput, image *Image) (*backend.Product, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	input = input.normalize()
	if err := check(input); err != nil {
		return nil, err
	}
	file, err := upload(fieldProductImage, image, true)
	if err != nil {
		return nil, err
	}
	created, err := s.api.CreateProduct(ctx, input.toBackend(), file)
	if err != nil {
		return nil, s.failed(ctx, err, "Failed to add product")
	}
	s.notify.Success(ctx, "Product added successfully!")
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, input ProductInput, image *Image) (*backend.Product, error) {
	id, err := s.target(id, "product id")
	if err != nil {
		return nil, err
	}
	input = input.normalize()
	if err := check(input); err != nil {
		return nil, err
	}
	file, err := upload(fieldProductImage, image, false)
	if err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateProduct(ctx, id, input.toBackend(), file)
	if err != nil {
		return nil, s.failed(s.logg.WithField(ctx, "product_id", id), err, "Failed to update product")
	}
	s.notify.Success(ctx, "Product updated successfully!")
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	id, err := s.target(id, "product id")
	if err != nil {
		return err
	}
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		return s.failed(s.logg.WithField(ctx, "product_id", id), err, "Failed to delete product")
	}
	s.notify.Success(ctx, "Product deleted successfully")
	return nil
}

func (s *service) Categories(ctx context.Context) ([]backend.Category, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	list, err := s.api.Categories(ctx)
	if err != nil {
		return nil, s.failed(ctx, err, "Failed to fetch categories")
	}
	return list, nil
}

func (s *service) Category(ctx context.Context, id string) (*backend.Category, error) {
	id, err := s.target(id, "category id")
	if err != nil {
		return nil, err
	}
	return s.api.Category(ctx, id)
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput, image *Image) (*backend.Category, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	input = input.normalize()
	if err := check(input); err != nil {
		return nil, err
	}
	file, err := upload(fieldCategoryImage, image, true)
	if err != nil {
		return nil, err
	}
	created, err := s.api.CreateCategory(ctx, backend.CategoryForm(input), file)
	if err != nil {
		return nil, s.failed(ctx, err, "Failed to add category")
	}
	s.notify.Success(ctx, "Category added successfully!")
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, id string, input CategoryInput, image *Image) (*backend.Category, error) {
	id, err := s.target(id, "category id")
	if err != nil {
		return nil, err
	}
	input = input.normalize()
	if err := check(input); err != nil {
		return nil, err
	}
	file, err := upload(fieldCategoryImage, image, false)
	if err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateCategory(ctx, id, backend.CategoryForm(input), file)
	if err != nil {
		return nil, s.failed(s.logg.WithField(ctx, "category_id", id), err, "Failed to update category")
	}
	s.notify.Success(ctx, "Category updated successfully!")
	return updated, nil
}

func (s *service) DeleteCategory(ctx context.Context, id string) error {
	id, err := s.target(id, "category id")
	if err != nil {
		return err
	}
	if err := s.api.DeleteCategory(ctx, id); err != nil {
		return s.failed(s.logg.WithField(ctx, "category_id", id), err, "Failed to delete category")
	}
	s.notify.Success(ctx, "Category deleted successfully")
	return nil
}

func (s *service) Banners(ctx context.Context) ([]backend.Banner, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	list, err := s.api.Banners(ctx)
	if err != nil {
		return nil, s.failed(ctx, err, "Failed to fetch banners")
	}
	return list, nil
}

func (s *service) Banner(ctx context.Context, id string) (*backend.Banner, error) {
	id, err := s.target(id, "banner id")
	if err != nil {
		return nil, err
	}
	return s.api.Banner(ctx, id)
}

func (s *service) UpdateBanner(ctx context.Context, id string, input BannerInput, image *Image) (*backend.Banner, error) {
	id, err := s.target(id, "banner id")
	if err != nil {
		return nil, err
	}
	if err := check(input); err != nil {
		return nil, err
	}
	file, err := upload(fieldBannerImage, image, false)
	if err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateBanner(ctx, id, input.toBackend(), file)
	if err != nil {
		return nil, s.failed(s.logg.WithField(ctx, "banner_id", id), err, "Failed to update banner")
	}
	s.notify.Success(ctx, "Banner updated successfully!")
	return updated, nil
}

func (s *service) DeleteBanner(ctx context.Context, id string) error {
	id, err := s.target(id, "banner id")
	if err != nil {
		return err
	}
	if err := s.api.DeleteBanner(ctx, id); err != nil {
		return s.failed(s.logg.WithField(ctx, "banner_id", id), err, "Failed to delete banner")
	}
	s.notify.Success(ctx, "Banner deleted successfully")
	return nil
}
