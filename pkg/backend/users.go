package backend

import (
	"context"
	"net/http"
	"net/url"

	pkgerrors "github.com/freshfind/storefront/pkg/errors"
)

const resourceUsers = "users"

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult carries the token and identity issued by the backend.
type LoginResult struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message,omitempty"`
}

// RegisterInput creates an email/password account.
type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
	Password  string `json:"password"`
	AuthType  string `json:"authType"`
}

type PasswordUpdateInput struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ProfileInput is the editable part of a user profile.
type ProfileInput struct {
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Mobile         string `json:"mobile,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func (c *Client) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	var out LoginResult
	if err := c.do(ctx, call{resource: resourceUsers, method: http.MethodPost, path: "/users/login", body: input, out: &out}); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "login response missing token or user").
			WithDetails(pkgerrors.BackendDetails{Status: http.StatusOK, Resource: resourceUsers})
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (*Message, error) {
	var out Message
	if err := c.do(ctx, call{resource: resourceUsers, method: http.MethodPost, path: "/users/register", body: input, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendOTP starts the forgot-password flow; it is also used to resend.
func (c *Client) SendOTP(ctx context.Context, email string) (*Message, error) {
	var out Message
	body := map[string]string{"email": email}
	if err := c.do(ctx, call{resource: resourceUsers, method: http.MethodPost, path: "/users/send-otp", body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*Message, error) {
	var out Message
	body := map[string]string{"email": email, "otp": otp}
	if err := c.do(ctx, call{resource: resourceUsers, method: http.MethodPost, path: "/users/verify-otp", body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) (*Message, error) {
	var out Message
	body := map[string]string{"email": email, "newPassword": newPassword}
	if err := c.do(ctx, call{resource: resourceUsers, method: http.MethodPost, path: "/users/reset-password", body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePassword(ctx context.Context, input PasswordUpdateInput) (*Message, error) {
	var out Message
	if err := c.do(ctx, call{resource: resourceUsers, method: http.MethodPut, path: "/users/update-password", body: input, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyEmail(ctx context.Context, token string) (*Message, error) {
	var out Message
	query := map[string]string{"token": token}
	if err := c.do(ctx, call{resource: resourceUsers, method: http.MethodGet, path: "/users/verify-email", query: query, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) User(ctx context.Context, id string) (*User, error) {
	var out User
	if err := c.do(ctx, call{resource: resourceUsers, method: http.MethodGet, path: "/users/" + url.PathEscape(id), out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, input ProfileInput) (*User, error) {
	var out User
	if err := c.do(ctx, call{resource: resourceUsers, method: http.MethodPut, path: "/users/" + url.PathEscape(id), body: input, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
