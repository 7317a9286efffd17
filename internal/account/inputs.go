package account

import (
	"strings"

	"github.com/freshfind/storefront/pkg/backend"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	FirstName       string `json:"firstName" validate:"required,min=3,max=50"`
	LastName        string `json:"lastName" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,phone10"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (in RegisterInput) normalize() RegisterInput {
	out := in
	out.FirstName = strings.TrimSpace(in.FirstName)
	out.LastName = strings.TrimSpace(in.LastName)
	out.Email = strings.TrimSpace(in.Email)
	out.Phone = strings.TrimSpace(in.Phone)
	return out
}

func (in RegisterInput) toBackend() backend.RegisterInput {
	return backend.RegisterInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Mobile:    in.Phone,
		Password:  in.Password,
		AuthType:  authTypeEmail,
	}
}

type forgotInput struct {
	Email string `json:"email" validate:"required,email"`
}

type otpInput struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResetInput completes the forgot-password flow. Email may be left empty
// once an OTP was requested from this tab.
type ResetInput struct {
	Email           string `json:"email" validate:"omitempty,email"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// PasswordInput changes the password of the logged-in user.
type PasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// ProfileInput edits the stored identity; empty fields are left unchanged.
type ProfileInput struct {
	FirstName      string `json:"firstName" validate:"omitempty,min=3,max=50"`
	LastName       string `json:"lastName" validate:"omitempty,min=3,max=50"`
	Mobile         string `json:"mobile" validate:"omitempty,phone10"`
	ProfilePicture string `json:"profilePicture" validate:"omitempty,url"`
}

func (in ProfileInput) normalize() ProfileInput {
	return ProfileInput{
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Mobile:         strings.TrimSpace(in.Mobile),
		ProfilePicture: strings.TrimSpace(in.ProfilePicture),
	}
}

func (in ProfileInput) isEmpty() bool {
	return in == ProfileInput{}
}
