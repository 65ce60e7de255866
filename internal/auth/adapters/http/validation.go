package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Сообщения валидации.
const (
	MessageInvalidEmail     = "invalid_email_format"
	MessagePasswordTooShort = "password_must_be_at_least_8_characters"
	MessagePasswordRequired = "password_required"
	MessageFieldRequired    = "field_required"
	messageInvalidValue     = "invalid_value"
)

// RequestValidator проверяет DTO по тегам validate.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator создает валидатор, использующий JSON-имена полей.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &RequestValidator{validate: v}
}

// Validate возвращает список нарушений в виде {поле: сообщение}. Пустой список означает успех.
func (v *RequestValidator) Validate(req any) []map[string]string {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []map[string]string{{"request": messageInvalidValue}}
	}

	details := make([]map[string]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, map[string]string{fe.Field(): fieldMessage(fe)})
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return MessageInvalidEmail
	case "min":
		if fe.Field() == "password" {
			return MessagePasswordTooShort
		}
		return messageInvalidValue
	case "required":
		if fe.Field() == "password" {
			return MessagePasswordRequired
		}
		return MessageFieldRequired
	default:
		return messageInvalidValue
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
