// Package validate runs struct-tag validation for form inputs and maps
// failures onto validation errors with per-field details keyed by json name.
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var (
	offerCodePattern = regexp.MustCompile(`^[A-Z0-9]+$`)
	phonePattern     = regexp.MustCompile(`^[0-9]{10}$`)
	pincodePattern   = regexp.MustCompile(`^[0-9]{6}$`)
	personPattern    = regexp.MustCompile(`^[A-Za-z ]+$`)
	nonDigitPattern  = regexp.MustCompile(`\D`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "offercode", offerCodePattern)
	mustRegister(v, "phone10", phonePattern)
	mustRegister(v, "pincode6", pincodePattern)
	mustRegister(v, "personname", personPattern)
	mustRegister(v, "notdigits", nonDigitPattern)
	return v
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fmt.Sprint(fl.Field().Interface()))
	})
	if err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct validates dest and returns a CodeValidation error on failure.
func Struct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return FormatErrors(err)
	}
	return nil
}

// FormatErrors converts validator output into a typed error.
func FormatErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = message(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

// Field builds a single-field validation error.
func Field(field, msg string) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{field: msg})
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gtfield":
		return fmt.Sprintf("must be after %s", lowerFirst(fe.Param()))
	case "eqfield":
		return fmt.Sprintf("must match %s", lowerFirst(fe.Param()))
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain only digits"
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email"
	case "offercode":
		return "must contain only uppercase letters and numbers"
	case "phone10":
		return "must be a 10-digit number"
	case "pincode6":
		return "must be a 6-digit number"
	case "personname":
		return "must contain only letters"
	case "notdigits":
		return "cannot be only numbers"
	case "hexcolor":
		return "must be a hex color"
	}
	return "is invalid"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
