package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps a go-playground validator with the custom tags used by
// calculation configs and API requests.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator. Field names in errors come from the json tag,
// falling back to the mapstructure tag and then the Go field name.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, key := range []string{"json", "mapstructure"} {
			name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})

	// "decimal" accepts strings that parse as a decimal number; blanks are
	// left to "required".
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		if value == "" {
			return true
		}
		_, err := decimal.NewFromString(value)
		return err == nil
	})

	return &Validator{validate: v}
}

// Struct validates a struct using its tags.
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError turns validation errors into a field -> message
// map suitable for API responses. Other errors map to "error".
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = err.Error()
		return errs
	}

	for _, e := range validationErrors {
		field := fieldPath(e.Namespace())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "decimal":
			errs[field] = "Must be a decimal number"
		case "oneof":
			errs[field] = fmt.Sprintf("Must be one of: %s", e.Param())
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "gte":
			errs[field] = fmt.Sprintf("Must be greater than or equal to %s", e.Param())
		case "lte":
			errs[field] = fmt.Sprintf("Must be less than or equal to %s", e.Param())
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// Error flattens validation errors into a single message.
func Error(err error) error {
	fields := FormatValidationError(err)
	if len(fields) == 0 {
		return err
	}
	if _, ok := fields["error"]; ok && len(fields) == 1 {
		return err
	}
	parts := make([]string, 0, len(fields))
	for field, msg := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return fmt.Errorf("validation failed: %s", strings.Join(parts, "; "))
}

// fieldPath drops the root struct name from a namespace such as
// "Configuration.children.count".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
