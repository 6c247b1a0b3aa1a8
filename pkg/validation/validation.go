// Package validation validates commands, queries and request bodies from struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"brainstorm/domain/core/valueobjects"
	pkgerrors "brainstorm/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("relationkind", func(fl validator.FieldLevel) bool {
			_, err := valueobjects.ParseRelationKind(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("interactionkind", func(fl validator.FieldLevel) bool {
			_, err := valueobjects.ParseInteractionKind(fl.Field().String())
			return err == nil
		})
		instance = v
	})
	return instance
}

// Struct validates s and returns a validation AppError listing every failed field
func Struct(s interface{}) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return pkgerrors.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(fieldErrors))
	fields := make(map[string]interface{}, len(fieldErrors))
	for _, fe := range fieldErrors {
		msg := formatFieldError(fe)
		messages = append(messages, msg)
		fields[fe.Field()] = msg
	}
	return pkgerrors.NewValidationError(strings.Join(messages, "; ")).WithDetails(fields)
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, e.Param())
	case "relationkind":
		return fmt.Sprintf("%s must be one of: hard soft", field)
	case "interactionkind":
		return fmt.Sprintf("%s must be one of: view thought", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
