// Package validation проверяет входные данные запросов до передачи их в
// бизнес-логику и возвращает типизированный результат со списком ошибок полей.
//
// Правила описываются тегами validate go-playground/validator, имена полей в
// ошибках берутся из тегов json.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
)

// FieldError — нарушение правила для одного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result — результат проверки. Пустой список ошибок означает успех.
type Result struct {
	Errors []FieldError
}

// OK сообщает, что проверка пройдена.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Error собирает сообщения всех нарушений через запятую.
func (r Result) Error() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, ", ")
}

// Validator оборачивает validator.Validate.
type Validator struct {
	validate *validator.Validate
}

// New создаёт Validator, использующий json-имена полей в сообщениях.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct проверяет структуру по тегам validate.
func (v *Validator) Struct(s any) Result {
	err := v.validate.Struct(s)
	if err == nil {
		return Result{}
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return Result{Errors: []FieldError{{Field: "", Message: err.Error()}}}
	}

	res := Result{Errors: make([]FieldError, 0, len(errs))}
	for _, fe := range errs {
		res.Errors = append(res.Errors, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return res
}

func message(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is a required field", fe.Field())
	case "email":
		return fmt.Sprintf("field %s must be a valid email", fe.Field())
	case "oneof":
		return fmt.Sprintf("field %s must be one of [%s]", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("field %s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("field %s must be at most %s characters long", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("field %s must be greater than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("field %s is not valid", fe.Field())
	}
}
