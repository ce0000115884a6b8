// Package validation provides struct and graph validation built on
// go-playground/validator with custom rules for node-graph entities.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance with custom rules registered.
var Validate *validator.Validate

var identPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func init() {
	Validate = validator.New()

	Validate.RegisterValidation("node_id", validateIdent)
	Validate.RegisterValidation("pin_id", validateIdent)
	Validate.RegisterValidation("graph_category", validateGraphCategory)
	Validate.RegisterValidation("pin_direction", validatePinDirection)
	Validate.RegisterValidation("data_type", validateDataType)

	// Use JSON tags for field names in error messages
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Message string      `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateStruct validates a struct using its `validate` tags.
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var errors ValidationErrors
	for _, fieldError := range validationErrors {
		errors = append(errors, ValidationError{
			Field:   fieldError.Field(),
			Value:   fieldError.Value(),
			Message: getErrorMessage(fieldError),
		})
	}
	return errors
}

// getErrorMessage returns a human-readable error message
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("minimum value/length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("maximum value/length is %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	case "node_id", "pin_id":
		return "must be a valid identifier (alphanumeric, underscore, hyphen)"
	case "graph_category":
		return "must be a valid graph category (control_flow, data_flow)"
	case "pin_direction":
		return "must be a valid pin direction (input, output)"
	case "data_type":
		return "must be a valid data type name"
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}

// Custom validation functions for node-graph entities

func validateIdent(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return id != "" && len(id) <= 100 && identPattern.MatchString(id)
}

func validateGraphCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "control_flow", "data_flow":
		return true
	}
	return false
}

func validatePinDirection(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "input", "output":
		return true
	}
	return false
}

func validateDataType(fl validator.FieldLevel) bool {
	dt := fl.Field().String()
	if dt == "" {
		return false
	}
	for i := 0; i < len(dt); i++ {
		c := dt[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '.' {
			continue
		}
		return false
	}
	return true
}
