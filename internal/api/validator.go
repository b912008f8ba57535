package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/meur/buildforge/internal/models"
	"github.com/meur/buildforge/internal/weapons"
)

// Validator checks request bodies against their struct tags
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the ability, mode and weapon rules
func NewValidator(catalog *weapons.Catalog) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("ability", func(fl validator.FieldLevel) bool {
		return models.Ability(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("mode", func(fl validator.FieldLevel) bool {
		return models.Mode(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("weapon", func(fl validator.FieldLevel) bool {
		return catalog.Has(fl.Field().String())
	})

	return &Validator{validate: v}
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateBuild runs tag validation then the gear slot rules
func (v *Validator) ValidateBuild(u *models.BuildUpdate) map[string]string {
	if err := v.ValidateStruct(u); err != nil {
		return FormatValidationError(err)
	}
	if err := u.Slots(); err != nil {
		return map[string]string{"gear": err.Error()}
	}
	return nil
}

// FormatValidationError turns validator errors into field -> message pairs
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s long", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s long", e.Param())
		case "ability":
			errs[field] = fmt.Sprintf("Unknown ability %q", e.Value())
		case "mode":
			errs[field] = fmt.Sprintf("Unknown mode %q", e.Value())
		case "weapon":
			errs[field] = fmt.Sprintf("Unknown weapon %q", e.Value())
		case "unique":
			errs[field] = "Must not contain duplicates"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}
