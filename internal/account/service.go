// Package account runs the identity flows: login, registration, password
// recovery, email verification and profile edits.
package account

import (
	"context"
	"strings"

	"github.com/freshfind/storefront/internal/notifications"
	"github.com/freshfind/storefront/pkg/backend"
	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
	"github.com/freshfind/storefront/pkg/validate"
)

const (
	MsgLoginSuccess    = "Login successful!"
	MsgLoginFailed     = "Login failed. Please try again."
	MsgRegistered      = "Account created successfully!"
	MsgRegisterFailed  = "Registration failed. Please try again."
	MsgOTPSent         = "OTP sent successfully!"
	MsgOTPVerified     = "OTP verified successfully!"
	MsgEmailNotFound   = "Email not found. Please request a password reset."
	MsgPasswordReset   = "Password reset successful!"
	MsgResetFailed     = "Failed to reset password. Please try again."
	MsgSomethingWrong  = "Something went wrong."
	MsgPasswordUpdated = "Password updated successfully!"
	MsgPasswordFailed  = "Failed to update password."
	MsgEmailVerified   = "Email verified successfully!"
	MsgInvalidLink     = "Invalid verification link."
	MsgVerifyFailed    = "Verification failed."
	MsgProfileUpdated  = "Profile updated successfully!"
	MsgProfileFailed   = "Failed to update profile"
	MsgLoggedOut       = "Logged out successfully."
)

const (
	landingAdmin   = "/admin"
	landingShopper = "/"

	authTypeEmail = "Email"
	keyOTPEmail   = "otpEmail"
)

// Backend is the users resource.
type Backend interface {
	Login(ctx context.Context, input backend.LoginInput) (*backend.LoginResult, error)
	Register(ctx context.Context, input backend.RegisterInput) (*backend.Message, error)
	SendOTP(ctx context.Context, email string) (*backend.Message, error)
	VerifyOTP(ctx context.Context, email, otp string) (*backend.Message, error)
	ResetPassword(ctx context.Context, email, newPassword string) (*backend.Message, error)
	UpdatePassword(ctx context.Context, input backend.PasswordUpdateInput) (*backend.Message, error)
	VerifyEmail(ctx context.Context, token string) (*backend.Message, error)
	UpdateUser(ctx context.Context, id string, input backend.ProfileInput) (*backend.User, error)
}

// Session is the identity holder the flows update.
type Session interface {
	Login(ctx context.Context, token string, user backend.User) error
	Logout(ctx context.Context)
	UpdateUser(ctx context.Context, user backend.User)
	User() (backend.User, bool)
	IsAdmin() bool
}

// TabStore keeps per-tab values such as the email an OTP was sent to.
type TabStore interface {
	SetJSON(ctx context.Context, name string, value any) error
	GetJSON(ctx context.Context, name string, dest any) (bool, error)
	Delete(ctx context.Context, name string) error
	Clear(ctx context.Context) error
}

type Service interface {
	Login(ctx context.Context, input LoginInput) (string, error)
	Register(ctx context.Context, input RegisterInput) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
	ResetPassword(ctx context.Context, input ResetInput) error
	UpdatePassword(ctx context.Context, input PasswordInput) error
	VerifyEmail(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, input ProfileInput) (*backend.User, error)
	Logout(ctx context.Context) error
}

// ServiceParams groups dependencies for the account service.
type ServiceParams struct {
	Backend  Backend
	Session  Session
	Tab      TabStore
	Notifier notifications.Notifier
	Logger   *logger.Logger
}

type service struct {
	api     Backend
	session Session
	tab     TabStore
	notify  notifications.Notifier
	logg    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users backend is required")
	}
	if params.Session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session is required")
	}
	if params.Tab == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tab store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger is required")
	}
	notify := params.Notifier
	if notify == nil {
		notify = notifications.Discard{}
	}
	return &service{
		api:     params.Backend,
		session: params.Session,
		tab:     params.Tab,
		notify:  notify,
		logg:    params.Logger,
	}, nil
}

// Login authenticates and returns the route the shopper lands on.
func (s *service) Login(ctx context.Context, input LoginInput) (string, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validate.Struct(input); err != nil {
		return "", err
	}
	result, err := s.api.Login(ctx, backend.LoginInput{Email: input.Email, Password: input.Password})
	if err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgLoginFailed))
		return "", err
	}
	if err := s.session.Login(ctx, result.Token, result.User); err != nil {
		s.notify.Error(ctx, MsgLoginFailed)
		return "", err
	}
	s.logg.Info(s.logg.WithUserID(ctx, result.User.ID), "user logged in")
	s.notify.Success(ctx, MsgLoginSuccess)
	if s.session.IsAdmin() {
		return landingAdmin, nil
	}
	return landingShopper, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) error {
	input = input.normalize()
	if err := validate.Struct(input); err != nil {
		return err
	}
	msg, err := s.api.Register(ctx, input.toBackend())
	if err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgRegisterFailed))
		return err
	}
	s.notify.Success(ctx, messageOr(msg, MsgRegistered))
	return nil
}

// ForgotPassword sends an OTP and remembers the email for the rest of the
// flow in this tab.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	in := forgotInput{Email: strings.TrimSpace(email)}
	if err := validate.Struct(in); err != nil {
		return err
	}
	if _, err := s.api.SendOTP(ctx, in.Email); err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgSomethingWrong))
		return err
	}
	if err := s.tab.SetJSON(ctx, keyOTPEmail, in.Email); err != nil {
		s.logg.Error(ctx, "remembering otp email failed", err)
	}
	s.notify.Success(ctx, MsgOTPSent)
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, email, otp string) error {
	email, err := s.otpEmail(ctx, email)
	if err != nil {
		return err
	}
	in := otpInput{Email: email, OTP: strings.TrimSpace(otp)}
	if err := validate.Struct(in); err != nil {
		return err
	}
	if _, err := s.api.VerifyOTP(ctx, in.Email, in.OTP); err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgSomethingWrong))
		return err
	}
	s.notify.Success(ctx, MsgOTPVerified)
	return nil
}

func (s *service) ResetPassword(ctx context.Context, input ResetInput) error {
	email, err := s.otpEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	input.Email = email
	if err := validate.Struct(input); err != nil {
		return err
	}
	if _, err := s.api.ResetPassword(ctx, input.Email, input.NewPassword); err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgResetFailed))
		return err
	}
	if err := s.tab.Delete(ctx, keyOTPEmail); err != nil {
		s.logg.Warn(ctx, "forgetting otp email failed: "+err.Error())
	}
	s.notify.Success(ctx, MsgPasswordReset)
	return nil
}

// otpEmail falls back to the email remembered by ForgotPassword.
func (s *service) otpEmail(ctx context.Context, email string) (string, error) {
	if email = strings.TrimSpace(email); email != "" {
		return email, nil
	}
	var stored string
	found, err := s.tab.GetJSON(ctx, keyOTPEmail, &stored)
	if err != nil {
		s.logg.Warn(ctx, "reading otp email failed: "+err.Error())
	}
	if !found || stored == "" {
		s.notify.Error(ctx, MsgEmailNotFound)
		return "", validate.Field("email", "is required")
	}
	return stored, nil
}

func (s *service) UpdatePassword(ctx context.Context, input PasswordInput) error {
	user, ok := s.session.User()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	if err := validate.Struct(input); err != nil {
		return err
	}
	_, err := s.api.UpdatePassword(ctx, backend.PasswordUpdateInput{
		Email:           user.Email,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	})
	if err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgPasswordFailed))
		return err
	}
	s.notify.Success(ctx, MsgPasswordUpdated)
	return nil
}

func (s *service) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		s.notify.Error(ctx, MsgInvalidLink)
		return validate.Field("token", "is required")
	}
	msg, err := s.api.VerifyEmail(ctx, token)
	if err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgVerifyFailed))
		return err
	}
	s.notify.Success(ctx, messageOr(msg, MsgEmailVerified))
	return nil
}

// UpdateProfile saves the profile remotely and refreshes the stored
// identity with the confirmed copy.
func (s *service) UpdateProfile(ctx context.Context, input ProfileInput) (*backend.User, error) {
	current, ok := s.session.User()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	input = input.normalize()
	if input.isEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	updated, err := s.api.UpdateUser(ctx, current.ID, backend.ProfileInput{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Mobile:         input.Mobile,
		ProfilePicture: input.ProfilePicture,
	})
	if err != nil {
		s.notify.Error(ctx, backend.UserMessage(err, MsgProfileFailed))
		return nil, err
	}
	if updated.ID == "" {
		updated.ID = current.ID
	}
	s.session.UpdateUser(ctx, *updated)
	s.notify.Success(ctx, MsgProfileUpdated)
	return updated, nil
}

// Logout ends the session and drops everything this tab stored.
func (s *service) Logout(ctx context.Context) error {
	s.session.Logout(ctx)
	if err := s.tab.Clear(ctx); err != nil {
		s.logg.Error(ctx, "clearing tab storage failed", err)
		return err
	}
	s.notify.Info(ctx, MsgLoggedOut)
	return nil
}

func messageOr(msg *backend.Message, fallback string) string {
	if msg != nil && strings.TrimSpace(msg.Message) != "" {
		return strings.TrimSpace(msg.Message)
	}
	return fallback
}
