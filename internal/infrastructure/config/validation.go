package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/factorysim/internal/domain/shared"
)

// Validator wraps go-playground/validator with the floor's custom rules:
//   - money: a non-negative decimal amount such as "22.50"
//   - timewindow: a daily "HH:MM-HH:MM" window
//
// Errors name fields by their config key path (floor.workers[0].breaks[1]).
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with custom validation rules
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil functions
	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("timewindow", validateTimeWindow)

	return &Validator{
		validate: v,
	}
}

func validateMoney(fl validator.FieldLevel) bool {
	m, err := shared.ParseMoney(fl.Field().String())
	return err == nil && !m.IsNegative()
}

func validateTimeWindow(fl validator.FieldLevel) bool {
	_, err := shared.ParseTimeWindow(fl.Field().String())
	return err == nil
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"%s failed validation: %s (value: '%v')",
				keyPath(e.Namespace()),
				describeTag(e),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// keyPath drops the root struct name from a validator namespace
func keyPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describeTag(e validator.FieldError) string {
	switch e.Tag() {
	case "money":
		return "must be a non-negative amount"
	case "timewindow":
		return `must be a "HH:MM-HH:MM" window`
	case "datetime":
		return fmt.Sprintf("must match layout %s", e.Param())
	case "":
		return e.ActualTag()
	}
	if e.Param() != "" {
		return e.Tag() + "=" + e.Param()
	}
	return e.Tag()
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	return v.Validate(cfg)
}
