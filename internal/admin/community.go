package admin

import (
	"context"
	"strings"

	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const fieldProfilePicture = "profilePicture"

func (s *service) Users(ctx context.Context) ([]backend.User, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	list, err := s.api.Users(ctx)
	if err != nil {
		return nil, s.failed(ctx, err, "Failed to fetch users")
	}
	return list, nil
}

func (s *service) User(ctx context.Context, id string) (*backend.User, error) {
	id, err := s.target(id, "user id")
	if err != nil {
		return nil, err
	}
	return s.api.User(ctx, id)
}

func (s *service) UpdateUser(ctx context.Context, id string, input UserInput, picture *Image) (*backend.User, error) {
	id, err := s.target(id, "user id")
	if err != nil {
		return nil, err
	}
	input = input.normalize()
	if err := check(input); err != nil {
		return nil, err
	}
	file, err := upload(fieldProfilePicture, picture, false)
	if err != nil {
		return nil, err
	}
	updated, err := s.api.ReplaceUser(ctx, id, input.toBackend(), file)
	if err != nil {
		return nil, s.failed(s.logg.WithField(ctx, "target_user_id", id), err, "Failed to update user")
	}
	s.notify.Success(ctx, "User updated successfully!")
	return updated, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (s *service) DeleteUser(ctx context.Context, id string) error {
	id, err := s.target(id, "user id")
	if err != nil {
		return err
	}
	if id == s.actor.UserID() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admins cannot delete their own account")
	}
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return s.failed(s.logg.WithField(ctx, "target_user_id", id), err, "Failed to delete user")
	}
	s.notify.Success(ctx, "User deleted successfully")
	return nil
}

func (s *service) Reviews(ctx context.Context) ([]backend.Review, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	list, err := s.api.AllReviews(ctx)
	if err != nil {
		return nil, s.failed(ctx, err, "Failed to fetch reviews")
	}
	return list, nil
}

func (s *service) Review(ctx context.Context, id string) (*backend.Review, error) {
	id, err := s.target(id, "review id")
	if err != nil {
		return nil, err
	}
	return s.api.Review(ctx, id)
}

func (s *service) UpdateReview(ctx context.Context, id string, input ReviewInput) (*backend.Review, error) {
	id, err := s.target(id, "review id")
	if err != nil {
		return nil, err
	}
	input.Review = strings.TrimSpace(input.Review)
	if err := check(input); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateReview(ctx, id, backend.ReviewUpdate(input))
	if err != nil {
		return nil, s.failed(s.logg.WithField(ctx, "review_id", id), err, "Failed to update review.")
	}
	s.notify.Success(ctx, "Review updated successfully!")
	return updated, nil
}

// ReplyToReview adds or replaces the store's public reply.
func (s *service) ReplyToReview(ctx context.Context, id string, input ReplyInput) (*backend.Review, error) {
	id, err := s.target(id, "review id")
	if err != nil {
		return nil, err
	}
	input.Reply = strings.TrimSpace(input.Reply)
	if err := check(input); err != nil {
		return nil, err
	}
	current, err := s.api.Review(ctx, id)
	if err != nil {
		return nil, s.failed(s.logg.WithField(ctx, "review_id", id), err, "Failed to update reply")
	}
	updated, err := s.api.ReplyToReview(ctx, id, input.Reply)
	if err != nil {
		return nil, s.failed(s.logg.WithField(ctx, "review_id", id), err, "Failed to update reply")
	}
	if current.Reply != "" {
		s.notify.Success(ctx, "Reply updated!")
	} else {
		s.notify.Success(ctx, "Reply added!")
	}
	return updated, nil
}

func (s *service) DeleteReview(ctx context.Context, id string) error {
	id, err := s.target(id, "review id")
	if err != nil {
		return err
	}
	if err := s.api.DeleteReview(ctx, id); err != nil {
		return s.failed(s.logg.WithField(ctx, "review_id", id), err, "Failed to delete review")
	}
	s.notify.Success(ctx, "Review deleted successfully")
	return nil
}

// SiteContent loads the about text and contact block together.
func (s *service) SiteContent(ctx context.Context) (*SiteContent, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	var (
		about   *backend.AboutPage
		contact *backend.ContactInfo
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		about, err = s.api.About(gctx)
		return err
	})
	group.Go(func() error {
		var err error
		contact, err = s.api.Contact(gctx)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, s.failed(ctx, err, "Failed to load site settings")
	}
	return &SiteContent{
		About:   about.Content,
		Contact: ContactSettings{Email: contact.ContactEmail, Number: contact.ContactNumber},
	}, nil
}

func (s *service) UpdateAbout(ctx context.Context, input AboutInput) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := check(input); err != nil {
		return err
	}
	if err := s.api.UpdateAbout(ctx, input.Content); err != nil {
		return s.failed(ctx, err, "Failed to update about page")
	}
	s.notify.Success(ctx, "About page content updated successfully!")
	return nil
}

func (s *service) UpdateContact(ctx context.Context, input ContactSettings) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	input = ContactSettings{Email: strings.TrimSpace(input.Email), Number: strings.TrimSpace(input.Number)}
	if err := check(input); err != nil {
		return err
	}
	info := backend.ContactInfo{ContactEmail: input.Email, ContactNumber: input.Number}
	if err := s.api.UpdateContact(ctx, info); err != nil {
		return s.failed(ctx, err, "Failed to update contact info")
	}
	s.notify.Success(ctx, "Contact info updated successfully!")
	return nil
}

// Responses lists the contact inbox.
func (s *service) Responses(ctx context.Context) ([]backend.ContactResponse, error) {
	if err := s.requireAdmin(); err != nil {
		return nil, err
	}
	list, err := s.api.ContactResponses(ctx)
	if err != nil {
		return nil, s.failed(ctx, err, "Failed to fetch responses")
	}
	return list, nil
}

func (s *service) ReplyToResponse(ctx context.Context, id string, input ReplyInput) (*backend.ContactResponse, error) {
	id, err := s.target(id, "response id")
	if err != nil {
		return nil, err
	}
	input.Reply = strings.TrimSpace(input.Reply)
	if err := check(input); err != nil {
		return nil, err
	}
	updated, err := s.api.ReplyToResponse(ctx, id, input.Reply)
	if err != nil {
		return nil, s.failed(s.logg.WithField(ctx, "response_id", id), err, "Failed to send reply")
	}
	s.notify.Success(ctx, "Reply sent successfully!")
	return updated, nil
}

func (s *service) DeleteResponse(ctx context.Context, id string) error {
	id, err := s.target(id, "response id")
	if err != nil {
		return err
	}
	if err := s.api.DeleteResponse(ctx, id); err != nil {
		return s.failed(s.logg.WithField(ctx, "response_id", id), err, "Failed to delete response")
	}
	s.notify.Success(ctx, "Response deleted successfully")
	return nil
}
