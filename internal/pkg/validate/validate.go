// Package validate wraps go-playground/validator with the field rules and
// messages used by the HTTP API.
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^09\d{9}$`)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Messages maps "field.tag" (json field name) to the text shown to clients.
type Messages map[string]string

const defaultMessage = "Invalid value"

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("ph_phone", func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("has_upper", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), isASCIIUpper) >= 0
	})
	_ = v.RegisterValidation("has_digit", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), isASCIIDigit) >= 0
	})
	return &Validator{v: v}
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

// Struct validates s and returns one FieldError per failing field, in
// declaration order. A nil result means s is valid.
func (v *Validator) Struct(s any, msgs Messages) []FieldError {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: defaultMessage}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		msg, ok := msgs[field+"."+fe.Tag()]
		if !ok {
			msg, ok = msgs[field]
		}
		if !ok {
			msg = defaultMessage
		}
		out = append(out, FieldError{Field: field, Message: msg})
	}
	return out
}

func (v *Validator) IsEmail(s string) bool {
	return v.v.Var(s, "required,email") == nil
}

func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}
