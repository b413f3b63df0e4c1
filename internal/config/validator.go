package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validMatcherNames = map[string]struct{}{
	"acl":     {},
	"rbac":    {},
	"abac":    {},
	"restful": {},
}

// RegisterCustomValidators registers authzcore-specific validation rules.
// Must be called before validating EngineConfig.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("audit_output", validateAuditOutput); err != nil {
		return fmt.Errorf("failed to register audit_output validator: %w", err)
	}
	if err := v.RegisterValidation("matcher_order", validateMatcherOrder); err != nil {
		return fmt.Errorf("failed to register matcher_order validator: %w", err)
	}
	return nil
}

// validateAuditOutput validates the audit output field.
// Valid values: "stdout" or "file://<absolute-path>"
func validateAuditOutput(fl validator.FieldLevel) bool {
	output := fl.Field().String()

	if output == "stdout" {
		return true
	}
	if strings.HasPrefix(output, "file://") {
		path := strings.TrimPrefix(output, "file://")
		return path != "" && filepath.IsAbs(path)
	}
	return false
}

// validateMatcherOrder ensures matcher_order names a subset of
// acl/rbac/abac/restful: every entry recognized, no duplicates.
// Non-emptiness is enforced by the field's required/min tags, not here.
func validateMatcherOrder(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind().String() != "slice" {
		return false
	}

	seen := make(map[string]struct{}, field.Len())
	for i := 0; i < field.Len(); i++ {
		name := field.Index(i).String()
		if _, ok := validMatcherNames[name]; !ok {
			return false
		}
		if _, dup := seen[name]; dup {
			return false
		}
		seen[name] = struct{}{}
	}
	return true
}

// Validate validates the EngineConfig using struct tags and custom
// cross-field rules. Returns an error if validation fails.
func (c *EngineConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := RegisterCustomValidators(v); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	return nil
}

// formatValidationErrors converts validator.ValidationErrors to user-friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

// formatSingleValidationError creates a user-friendly message for a single validation error.
func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s items", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "audit_output":
		return fmt.Sprintf("%s must be 'stdout' or 'file://<absolute-path>'", field)
	case "matcher_order":
		return fmt.Sprintf("%s must list distinct names from acl, rbac, abac, restful", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}
