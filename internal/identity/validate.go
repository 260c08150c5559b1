package identity

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/lehoyeon/greenhand/internal/apperr"
)

// RegisterRequest is the signup form. Field order is the order violations are reported in.
type RegisterRequest struct {
	Username        string `json:"username" form:"username" validate:"required,min=6,max=20,alphanum"`
	Password        string `json:"password" form:"password" validate:"required,min=8,max=16,password_mix"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"required"`
	Nickname        string `json:"nickname" form:"nickname" validate:"required,min=2,max=10"`
	Name            string `json:"name" form:"name" validate:"omitempty,min=2,max=20,name_chars"`
	Email           string `json:"email" form:"email" validate:"required,email,max=100"`
	Address         string `json:"address" form:"address" validate:"max=255"`
	PhoneNumber     string `json:"phoneNumber" form:"phoneNumber" validate:"omitempty,max=20,phone_chars"`
}

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		})
		_ = validate.RegisterValidation("password_mix", passwordMix)
		_ = validate.RegisterValidation("phone_chars", phoneChars)
		_ = validate.RegisterValidation("name_chars", nameChars)
	})
	return validate
}

// ValidateRegistration checks field formats and returns at most one violation
// per field, in declaration order. An empty result means the request is well formed.
func ValidateRegistration(req RegisterRequest) []apperr.FieldViolation {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperr.FieldViolation{{Field: "request", Message: "request is invalid"}}
	}

	out := make([]apperr.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apperr.FieldViolation{Field: fe.Field(), Message: fe.Field() + " " + describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "alphanum":
		return "must contain only letters and digits"
	case "name_chars":
		return "must contain only Korean or English letters"
	case "password_mix":
		return "must contain a letter, a digit and a special character"
	case "phone_chars":
		return "must contain only digits and '-'"
	default:
		return "is invalid"
	}
}

const passwordSpecials = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

func passwordMix(fl validator.FieldLevel) bool {
	var letter, digit, special bool
	for _, r := range fl.Field().String() {
		switch {
		case isLatin(r):
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return letter && digit && special
}

func phoneChars(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}

func nameChars(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if !isLatin(r) && (r < '가' || r > '힣') {
			return false
		}
	}
	return true
}

func isLatin(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
