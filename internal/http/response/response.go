// Package response содержит унифицированные JSON-ответы об ошибках
// HTTP-обработчиков.
package response

import (
	"github.com/magabrotheeeer/auth-service/internal/lib/validation"
)

const (
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// ErrorResponse — тело ответа с ошибкой.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// ValidationErrorResponse — тело ответа при ошибке валидации входных данных.
type ValidationErrorResponse struct {
	Status string                  `json:"status" example:"Error"`
	Error  string                  `json:"error" example:"field password is a required field"`
	Fields []validation.FieldError `json:"fields"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ответ по результату проверки: общее сообщение
// и список нарушений по полям.
func ValidationError(res validation.Result) ValidationErrorResponse {
	fields := res.Errors
	if fields == nil {
		fields = []validation.FieldError{}
	}
	return ValidationErrorResponse{
		Status: StatusError,
		Error:  res.Error(),
		Fields: fields,
	}
}
