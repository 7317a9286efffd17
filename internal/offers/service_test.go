package offers

import (
	"context"
	"testing"
	"time"

	"github.com/freshfind/storefront/internal/notifications"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	offers    []backend.Offer
	listErr   error
	created   []backend.OfferInput
	deleted   []string
	createErr error
}

func (f *fakeBackend) Offers(context.Context) ([]backend.Offer, error) {
	return f.offers, f.listErr
}

func (f *fakeBackend) Offer(_ context.Context, id string) (*backend.Offer, error) {
	if offer, ok := FindByID(f.offers, id); ok {
		return &offer, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
}

func (f *fakeBackend) CreateOffer(_ context.Context, input backend.OfferInput) (*backend.Offer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	return &backend.Offer{ID: "new", Code: input.Code, Active: input.Active}, nil
}

func (f *fakeBackend) UpdateOffer(_ context.Context, id string, input backend.OfferInput) (*backend.Offer, error) {
	return &backend.Offer{ID: id, Code: input.Code}, nil
}

func (f *fakeBackend) DeleteOffer(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type role bool

func (r role) IsAdmin() bool { return bool(r) }

func newTestService(t *testing.T, api *fakeBackend, admin bool) (*service, *notifications.Feed) {
	t.Helper()
	feed := notifications.NewFeed(10, nil)
	svc, err := NewService(api, role(admin), feed)
	require.NoError(t, err)
	concrete := svc.(*service)
	concrete.now = func() time.Time { return now }
	return concrete, feed
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(nil, role(false), nil)
	assert.Error(t, err)
	_, err = NewService(&fakeBackend{}, nil, nil)
	assert.Error(t, err)
}

func TestListActiveAndFindByCode(t *testing.T) {
	api := &fakeBackend{offers: []backend.Offer{
		offerAt("FRESH10", true, "", ""),
		offerAt("OLD5", true, "2025-01-01", "2025-02-01"),
	}}
	svc, _ := newTestService(t, api, false)

	active, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)

	found, err := svc.FindByCode(context.Background(), "fresh10")
	require.NoError(t, err)
	assert.Equal(t, "id-FRESH10", found.ID)

	_, err = svc.FindByCode(context.Background(), "OLD5")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.FindByCode(context.Background(), " ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAdminOperationsRequireAdmin(t *testing.T) {
	api := &fakeBackend{}
	svc, _ := newTestService(t, api, false)

	_, err := svc.Create(context.Background(), validInput())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.True(t, pkgerrors.IsCode(svc.Delete(context.Background(), "x"), pkgerrors.CodeForbidden))
	_, err = svc.ListAll(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	assert.Empty(t, api.created)
}

func TestCreateValidatesBeforeCallingBackend(t *testing.T) {
	api := &fakeBackend{}
	svc, feed := newTestService(t, api, true)

	bad := validInput()
	bad.Code = "no"
	_, err := svc.Create(context.Background(), bad)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, api.created)
	assert.Empty(t, feed.Pending())

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "FRESH10", created.Code)
	require.Len(t, api.created, 1)

	toasts := feed.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Offer added successfully!", toasts[0].Message)
}

func TestCreateFailureNotifies(t *testing.T) {
	api := &fakeBackend{createErr: pkgerrors.New(pkgerrors.CodeDependency, "boom")}
	svc, feed := newTestService(t, api, true)

	_, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)
	toasts := feed.Drain()
	require.Len(t, toasts, 1)
	assert.Equal(t, notifications.LevelError, toasts[0].Level)
	assert.Equal(t, "Failed to add offer. Please try again.", toasts[0].Message)
}

func TestDelete(t *testing.T) {
	api := &fakeBackend{}
	svc, feed := newTestService(t, api, true)

	require.NoError(t, svc.Delete(context.Background(), "off-1"))
	assert.Equal(t, []string{"off-1"}, api.deleted)
	assert.Equal(t, "Offer deleted successfully", feed.Drain()[0].Message)
	assert.True(t, pkgerrors.IsCode(svc.Delete(context.Background(), ""), pkgerrors.CodeValidation))
}
