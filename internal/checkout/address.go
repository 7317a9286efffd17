package checkout

import (
	"strconv"
	"strings"

	"github.com/freshfind/storefront/pkg/backend"
	"github.com/freshfind/storefront/pkg/validate"
)

// AddressInput is the billing address form.
type AddressInput struct {
	FullName string `json:"fullName" validate:"required,personname,min=3,max=50"`
	Phone    string `json:"phone" validate:"required,phone10"`
	Address  string `json:"address" validate:"required,min=5,max=100"`
	City     string `json:"city" validate:"required,min=2,max=50"`
	State    string `json:"state" validate:"required,min=2,max=50"`
	Pincode  string `json:"pincode" validate:"required,pincode6"`
}

func (in AddressInput) normalize() AddressInput {
	return AddressInput{
		FullName: strings.TrimSpace(in.FullName),
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
		City:     strings.TrimSpace(in.City),
		State:    strings.TrimSpace(in.State),
		Pincode:  strings.TrimSpace(in.Pincode),
	}
}

// ValidateAddress applies the address form rules.
func ValidateAddress(in AddressInput) error {
	return validate.Struct(in.normalize())
}

func (in AddressInput) toBackend(userID string) backend.AddressInput {
	n := in.normalize()
	pincode, _ := strconv.Atoi(n.Pincode)
	return backend.AddressInput{
		UserID:   userID,
		FullName: n.FullName,
		Phone:    n.Phone,
		Address:  n.Address,
		City:     n.City,
		State:    n.State,
		Pincode:  pincode,
	}
}
