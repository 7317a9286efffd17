package offers

import (
	"context"
	"strings"
	"time"

	"github.com/freshfind/storefront/internal/notifications"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
)

// Service exposes shopper offer lookups and admin offer maintenance.
type Service interface {
	ListActive(ctx context.Context) ([]backend.Offer, error)
	ListAll(ctx context.Context) ([]backend.Offer, error)
	Get(ctx context.Context, id string) (*backend.Offer, error)
	FindByCode(ctx context.Context, code string) (*backend.Offer, error)
	Create(ctx context.Context, input Input) (*backend.Offer, error)
	Update(ctx context.Context, id string, input Input) (*backend.Offer, error)
	Delete(ctx context.Context, id string) error
}

// Backend is the subset of the backend client used for offers.
type Backend interface {
	Offers(ctx context.Context) ([]backend.Offer, error)
	Offer(ctx context.Context, id string) (*backend.Offer, error)
	CreateOffer(ctx context.Context, input backend.OfferInput) (*backend.Offer, error)
	UpdateOffer(ctx context.Context, id string, input backend.OfferInput) (*backend.Offer, error)
	DeleteOffer(ctx context.Context, id string) error
}

// Actor reports the role of the current session.
type Actor interface {
	IsAdmin() bool
}

type service struct {
	api    Backend
	actor  Actor
	notify notifications.Notifier
	now    func() time.Time
}

// NewService constructs the offers service.
func NewService(api Backend, actor Actor, notify notifications.Notifier) (Service, error) {
	if api == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "offers backend required")
	}
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session required")
	}
	if notify == nil {
		notify = notifications.Discard{}
	}
	return &service{api: api, actor: actor, notify: notify, now: time.Now}, nil
}

func (s *service) ListActive(ctx context.Context) ([]backend.Offer, error) {
	list, err := s.api.Offers(ctx)
	if err != nil {
		return nil, err
	}
	return Active(list, s.now()), nil
}

func (s *service) ListAll(ctx context.Context) ([]backend.Offer, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	list, err := s.api.Offers(ctx)
	if err != nil {
		s.notify.Error(ctx, "Failed to load offers")
		return nil, err
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id string) (*backend.Offer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}
	return s.api.Offer(ctx, id)
}

// FindByCode resolves a code among the currently active offers only.
func (s *service) FindByCode(ctx context.Context, code string) (*backend.Offer, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer code is required")
	}
	active, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	offer, ok := FindByCode(active, code)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found or not active").
			WithDetails(map[string]any{"code": strings.ToUpper(strings.TrimSpace(code))})
	}
	return &offer, nil
}

func (s *service) Create(ctx context.Context, input Input) (*backend.Offer, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	if err := Validate(input); err != nil {
		return nil, err
	}
	created, err := s.api.CreateOffer(ctx, input.ToBackend())
	if err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, "Failed to add offer. Please try again."))
		return nil, err
	}
	s.notify.Success(ctx, "Offer added successfully!")
	return created, nil
}

func (s *service) Update(ctx context.Context, id string, input Input) (*backend.Offer, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}
	if err := Validate(input); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateOffer(ctx, id, input.ToBackend())
	if err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, "Failed to update the offer."))
		return nil, err
	}
	s.notify.Success(ctx, "Offer updated successfully!")
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}
	if err := s.api.DeleteOffer(ctx, id); err != nil {
		s.notify.Error(ctx, "Failed to delete offer")
		return err
	}
	s.notify.Success(ctx, "Offer deleted successfully")
	return nil
}

func (s *service) requireAdmin() error {
	if !s.actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	return nil
}
