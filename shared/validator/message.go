package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":      "{field} is required",
	"required_with": "{field} is required when {param} is set",
	"email":         "{field} must be a valid email address",
	"uuid":          "{field} must be a valid uuid",
	"phone":         "{field} must be a valid phone number",
	"oneof":         "{field} must be one of {param}",
	"gt":            "{field} must be greater than {param}",
	"gte":           "{field} must be greater than or equal to {param}",
	"lte":           "{field} must be less than or equal to {param}",
	"min":           "{field} must be greater than or equal to {param}",
	"max":           "{field} must be less than or equal to {param}",
	"gtfield":       "{field} must be after {param}",
	"nefield":       "{field} must differ from {param}",
	"dive":          "{field} contains an invalid item",
	"mimetypes":     "{field} must be one of the following types: {param}",
	"maxfilesize":   "{field} must be less than {param} MB",
}

// Length bounds on strings read better in characters.
var stringMessages = map[string]string{
	"min": "{field} must be at least {param} characters",
	"max": "{field} must be at most {param} characters",
}

// message renders the first failed rule that has a template, falling back to
// the validator's own text.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	for _, fe := range valErrors {
		tmpl, ok := stringMessages[fe.Tag()]
		if !ok || fe.Kind() != reflect.String {
			tmpl, ok = messages[fe.Tag()]
		}

		if ok {
			return strings.NewReplacer("{field}", fe.Field(), "{param}", fe.Param()).Replace(tmpl)
		}
	}

	return valErrors.Error()
}
