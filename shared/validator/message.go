package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"gt":       "{field} must be greater than {param}",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be at most {param} characters",
	"min":      "{field} must be at least {param} characters",
	"len":      "{field} must be exactly {param} characters",
	"numeric":  "{field} must contain digits only",
	"email":    "{field} must be a valid email address",
	"uuid":     "{field} must be a valid id",
	"url":      "{field} must be a valid URL",
}

func format(valErr val.FieldError) string {
	msg, ok := messages[valErr.Tag()]
	if !ok {
		return valErr.Error()
	}

	return strings.NewReplacer("{field}", valErr.Field(), "{param}", valErr.Param()).Replace(msg)
}

// details maps every failing field to its first readable message.
func details(err error) map[string]string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return map[string]string{"body": err.Error()}
	}

	result := make(map[string]string, len(valErrors))
	for _, valErr := range valErrors {
		if _, exists := result[valErr.Field()]; exists {
			continue
		}

		result[valErr.Field()] = format(valErr)
	}

	return result
}
