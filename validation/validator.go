// Package validation wraps go-playground/validator with English messages
// keyed by JSON field names.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() *Validator {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails on a broken translation table.
	if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	return &Validator{validate: validate, translator: translator}
}

// Struct validates s and returns one FieldError per failing rule, or nil.
func (v *Validator) Struct(s interface{}) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: fe.Translate(v.translator),
		})
	}
	return out
}
