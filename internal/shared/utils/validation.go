package utils

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fixmysite/portal/internal/shared/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names for validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateStruct validates s and folds every field error into one
// validation AppError. Field names come from json tags.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.NewValidationError("Validation failed", err.Error())
	}

	var errorMessages []string
	for _, fieldError := range validationErrors {
		errorMessages = append(errorMessages, getFieldErrorMessage(fieldError))
	}

	return errors.NewValidationError(
		"Validation failed",
		strings.Join(errorMessages, "; "),
	)
}

// fieldMessages covers the tags used by request DTOs. Length bounds on
// strings read as characters.
var fieldMessages = map[string]func(field, param string, isText bool) string{
	"required": func(field, _ string, _ bool) string { return field + " is required" },
	"url":      func(field, _ string, _ bool) string { return field + " must be a valid URL" },
	"oneof": func(field, param string, _ bool) string {
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	},
	"gte": func(field, param string, _ bool) string {
		return fmt.Sprintf("%s cannot be below %s", field, param)
	},
	"min": func(field, param string, isText bool) string {
		if isText {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	},
	"max": func(field, param string, isText bool) string {
		if isText {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	},
}

func getFieldErrorMessage(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Tag()]; ok {
		return msg(fe.Field(), fe.Param(), fe.Kind() == reflect.String)
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}
