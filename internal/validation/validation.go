// Package validation checks event and booking records against their
// struct tags and maps failures onto the model error taxonomy.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator wraps a configured validator.Validate. It is safe for
// concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the event_mode and booking_email rules
// registered. Field names in errors follow the JSON tags.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("event_mode", func(fl validator.FieldLevel) bool {
		return model.Mode(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("booking_email", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	return &Validator{v: v}
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Struct validates s. Failures are returned as *model.FieldError values
// joined with errors.Join, so errors.Is matches each underlying sentinel.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError(fe))
	}
	return errors.Join(out...)
}

func fieldError(fe validator.FieldError) *model.FieldError {
	switch fe.Tag() {
	case "required":
		return model.NewFieldError(fe.Field(), model.ErrMissingRequiredField, "is required")
	case "min":
		return model.NewFieldError(fe.Field(), model.ErrMissingRequiredField, "must contain at least one item")
	case "event_mode":
		return model.NewFieldError(fe.Field(), model.ErrInvalidEnumValue,
			"%q is not a valid mode (online, offline, hybrid)", fe.Value())
	case "booking_email":
		return model.NewFieldError(fe.Field(), model.ErrInvalidEmail, "please provide a valid email address")
	default:
		return model.NewFieldError(fe.Field(), model.ErrMissingRequiredField, "failed %s validation", fe.Tag())
	}
}
