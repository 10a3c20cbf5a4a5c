package dto

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mbressan/identity-service/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=128"`
	Mail     string `json:"mail" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Mail     string `json:"mail" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotRequest is the body of POST /forgot.
type ForgotRequest struct {
	Mail string `json:"mail" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /forgot/confirmation/{token}.
// Both fields must match before any credential work happens.
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// RefreshRequest is the body of POST /refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Validate runs struct validation and maps the first failure onto the
// domain error taxonomy.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInvalidJSON(err)
	}

	fe := verrs[0]
	field := jsonFieldName(v, fe)
	if fe.Tag() == "required" {
		return domain.ErrMissingField(field)
	}
	return domain.ErrInvalidField(field, humanRule(fe))
}

func jsonFieldName(v any, fe validator.FieldError) string {
	// StructField walks from the registered struct; fall back to the Go name.
	name := fe.Field()
	return strings.ToLower(name[:1]) + name[1:]
}

func humanRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "must be a valid mail address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
