// Package validation checks request payloads before they reach the auth
// service.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput wraps every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

type SignupInput struct {
	LoginKey string `json:"login_key" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes,hasdigit"`
}

type LoginInput struct {
	LoginKey string `json:"login_key" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Validator is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// registration only fails on empty tags or nil funcs
	_ = v.RegisterValidation("hasdigit", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsDigit) >= 0
	})
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})

	return &Validator{v: v}
}

// Struct validates s and returns an error wrapping ErrInvalidInput with one
// message per failing field.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Field()+" "+describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be an email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "maxbytes":
		return fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)
	case "hasdigit":
		return "must contain a digit"
	default:
		return "is invalid"
	}
}
