// Package validation checks document requests before any provider call.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"rhai/internal/domain"
)

// RequestValidator validates DocumentRequest payloads and reports failing
// fields by their JSON names.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates a validator with the document-specific tags registered.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("notblank", notBlank, true)
	_ = v.RegisterValidation("doctype", knownDocumentType, true)
	return &RequestValidator{validate: v}
}

// Validate returns a *domain.ValidationError naming every invalid field, or nil.
func (rv *RequestValidator) Validate(req *domain.DocumentRequest) error {
	err := rv.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &domain.ValidationError{Fields: []string{"body"}}
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return &domain.ValidationError{Fields: fields}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func knownDocumentType(fl validator.FieldLevel) bool {
	return domain.DocumentType(fl.Field().String()).Valid()
}
