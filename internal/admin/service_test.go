package admin

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshfind/storefront/internal/notifications"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// fakeBackend implements only what each test touches; the embedded
// interface panics on anything else.
type fakeBackend struct {
	Backend

	productForms []backend.ProductForm
	uploads      []string
	deletedUsers []string
	review       backend.Review
	replies      []string
	contact      backend.ContactInfo
	failWith     error
}

func (f *fakeBackend) CreateProduct(_ context.Context, form backend.ProductForm, image *backend.Upload) (*backend.Product, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.productForms = append(f.productForms, form)
	if image != nil {
		data, _ := io.ReadAll(image.Reader)
		f.uploads = append(f.uploads, image.Field+":"+image.Name+":"+string(data[:4]))
	}
	return &backend.Product{ID: "p1", Name: form.Name}, nil
}

func (f *fakeBackend) UpdateProduct(_ context.Context, id string, form backend.ProductForm, image *backend.Upload) (*backend.Product, error) {
	f.productForms = append(f.productForms, form)
	if image != nil {
		f.uploads = append(f.uploads, image.Field)
	}
	return &backend.Product{ID: id, Name: form.Name}, nil
}

func (f *fakeBackend) DeleteUser(_ context.Context, id string) error {
	f.deletedUsers = append(f.deletedUsers, id)
	return nil
}

func (f *fakeBackend) Review(_ context.Context, id string) (*backend.Review, error) {
	review := f.review
	review.ID = id
	return &review, nil
}

func (f *fakeBackend) ReplyToReview(_ context.Context, id, reply string) (*backend.Review, error) {
	f.replies = append(f.replies, reply)
	return &backend.Review{ID: id, Reply: reply}, nil
}

func (f *fakeBackend) About(context.Context) (*backend.AboutPage, error) {
	return &backend.AboutPage{Content: "Fresh produce since 2019."}, nil
}

func (f *fakeBackend) Contact(context.Context) (*backend.ContactInfo, error) {
	return &backend.ContactInfo{ContactEmail: "hello@freshfind.test", ContactNumber: "9876543210"}, nil
}

func (f *fakeBackend) UpdateContact(_ context.Context, info backend.ContactInfo) error {
	f.contact = info
	return nil
}

type actor struct {
	admin bool
	id    string
}

func (a actor) IsAdmin() bool  { return a.admin }
func (a actor) UserID() string { return a.id }

func newTestService(t *testing.T, api *fakeBackend, admin bool) (Service, *notifications.Feed) {
	t.Helper()
	feed := notifications.NewFeed(10, nil)
	svc, err := NewService(Params{
		Backend:  api,
		Actor:    actor{admin: admin, id: "admin-1"},
		Notifier: feed,
		Logger:   logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: &bytes.Buffer{}}),
	})
	require.NoError(t, err)
	return svc, feed
}

func validProduct() ProductInput {
	return ProductInput{
		Name:        " Alphonso Mango ",
		Description: "Sweet and ripe.",
		Discount:    10,
		CostPrice:   80,
		SalePrice:   120.5,
		Stock:       0,
		CategoryID:  "c1",
	}
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(Params{Actor: actor{}, Logger: logger.New(logger.Options{})})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	_, err = NewService(Params{Backend: &fakeBackend{}, Logger: logger.New(logger.Options{})})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestEveryOperationRequiresAdmin(t *testing.T) {
	api := &fakeBackend{}
	svc, _ := newTestService(t, api, false)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, validProduct(), &Image{Name: "m.png", Data: pngBytes})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	_, err = svc.Categories(ctx)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.True(t, pkgerrors.IsCode(svc.DeleteUser(ctx, "u2"), pkgerrors.CodeForbidden))
	assert.True(t, pkgerrors.IsCode(svc.UpdateAbout(ctx, AboutInput{Content: "x"}), pkgerrors.CodeForbidden))
	_, err = svc.Responses(ctx)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.Empty(t, api.productForms)
	assert.Empty(t, api.deletedUsers)
}

func TestCreateProductSendsFormAndImage(t *testing.T) {
	api := &fakeBackend{}
	svc, feed := newTestService(t, api, true)

	created, err := svc.CreateProduct(context.Background(), validProduct(), &Image{Name: "mango.png", Data: pngBytes})
	require.NoError(t, err)
	assert.Equal(t, "Alphonso Mango", created.Name)

	require.Len(t, api.productForms, 1)
	form := api.productForms[0]
	assert.Equal(t, "Alphonso Mango", form.Name)
	assert.Equal(t, "120.5", form.SalePrice)
	assert.Equal(t, "0", form.Stock)
	require.Len(t, api.uploads, 1)
	assert.Equal(t, "productImage:mango.png:\x89PNG", api.uploads[0])

	toasts := feed.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Product added successfully!", toasts[0].Message)
}

func TestCreateProductValidation(t *testing.T) {
	cases := []struct {
		name  string
		input func(*ProductInput)
		image *Image
		field string
	}{
		{"short name", func(in *ProductInput) { in.Name = "ab" }, &Image{Data: pngBytes}, "productName"},
		{"digits only", func(in *ProductInput) { in.Name = "12345" }, &Image{Data: pngBytes}, "productName"},
		{"discount over 100", func(in *ProductInput) { in.Discount = 101 }, &Image{Data: pngBytes}, "discount"},
		{"negative stock", func(in *ProductInput) { in.Stock = -1 }, &Image{Data: pngBytes}, "stock"},
		{"missing category", func(in *ProductInput) { in.CategoryID = " " }, &Image{Data: pngBytes}, "categoryId"},
		{"missing image", func(*ProductInput) {}, nil, "productImage"},
		{"not an image", func(*ProductInput) {}, &Image{Name: "notes.txt", Data: []byte("plain text notes")}, "productImage"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeBackend{}
			svc, _ := newTestService(t, api, true)
			input := validProduct()
			tc.input(&input)

			_, err := svc.CreateProduct(context.Background(), input, tc.image)
			require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
			details, ok := pkgerrors.As(err).Details().(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tc.field)
			assert.Empty(t, api.productForms)
		})
	}
}

func TestUpdateProductKeepsImageOptional(t *testing.T) {
	api := &fakeBackend{}
	svc, _ := newTestService(t, api, true)

	_, err := svc.UpdateProduct(context.Background(), "p1", validProduct(), nil)
	require.NoError(t, err)
	assert.Empty(t, api.uploads)

	_, err = svc.UpdateProduct(context.Background(), " ", validProduct(), nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateProductFailureNotifies(t *testing.T) {
	api := &fakeBackend{failWith: pkgerrors.New(pkgerrors.CodeDependency, "backend down")}
	svc, feed := newTestService(t, api, true)

	_, err := svc.CreateProduct(context.Background(), validProduct(), &Image{Data: pngBytes})
	require.Error(t, err)
	toasts := feed.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, notifications.LevelError, toasts[0].Level)
}

func TestDeleteUserRefusesOwnAccount(t *testing.T) {
	api := &fakeBackend{}
	svc, _ := newTestService(t, api, true)

	err := svc.DeleteUser(context.Background(), "admin-1")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	require.NoError(t, svc.DeleteUser(context.Background(), "u2"))
	assert.Equal(t, []string{"u2"}, api.deletedUsers)
}

func TestReplyToReviewReportsAddOrUpdate(t *testing.T) {
	api := &fakeBackend{}
	svc, feed := newTestService(t, api, true)

	_, err := svc.ReplyToReview(context.Background(), "r1", ReplyInput{Reply: "  "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.ReplyToReview(context.Background(), "r1", ReplyInput{Reply: " Thank you! "})
	require.NoError(t, err)
	api.review.Reply = "Thank you!"
	_, err = svc.ReplyToReview(context.Background(), "r1", ReplyInput{Reply: "Glad you liked it."})
	require.NoError(t, err)

	assert.Equal(t, []string{"Thank you!", "Glad you liked it."}, api.replies)
	toasts := feed.Drain()
	require.Len(t, toasts, 2)
	assert.Equal(t, "Reply added!", toasts[0].Message)
	assert.Equal(t, "Reply updated!", toasts[1].Message)
}

func TestSiteContentAndContactUpdate(t *testing.T) {
	api := &fakeBackend{}
	svc, _ := newTestService(t, api, true)

	content, err := svc.SiteContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Fresh produce since 2019.", content.About)
	assert.Equal(t, "9876543210", content.Contact.Number)

	err = svc.UpdateContact(context.Background(), ContactSettings{Email: "hello@freshfind.test", Number: "12345"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.UpdateContact(context.Background(), ContactSettings{Email: " ops@freshfind.test ", Number: "9123456780"}))
	assert.Equal(t, "ops@freshfind.test", api.contact.ContactEmail)
}
