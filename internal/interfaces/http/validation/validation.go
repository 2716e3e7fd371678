// Package validation registers the custom binding tags used by request bodies.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"tutorhub.backend/internal/domain/entities"
)

const (
	RoleTag   = "role"
	GenderTag = "gender"
	PhoneTag  = "phone"
)

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// Register adds the role, gender and phone tags to v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation(RoleTag, roleValidation); err != nil {
		return err
	}
	if err := v.RegisterValidation(GenderTag, genderValidation); err != nil {
		return err
	}
	return v.RegisterValidation(PhoneTag, phoneValidation)
}

// RegisterGin registers the custom tags on gin's default validator engine
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return Register(v)
}

func roleValidation(fl validator.FieldLevel) bool {
	_, ok := entities.ParseRole(fl.Field().String())
	return ok
}

func genderValidation(fl validator.FieldLevel) bool {
	return entities.Gender(fl.Field().String()).IsValid()
}

func phoneValidation(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

// FieldErrors flattens validation errors into json field name -> message.
// It returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[jsonName(fe.Field())] = message(fe)
	}
	return out
}

// HasTag reports whether any validation error in err failed on tag
func HasTag(err error, tag string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case RoleTag:
		return "please select a valid role"
	case GenderTag:
		return "select a valid gender option"
	case PhoneTag:
		return "phone number must be entered in the format '+999999999', up to 15 digits"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return "invalid value"
	}
}
