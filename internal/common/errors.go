// File: internal/common/errors.go
package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// APIError is the error shape returned to callers: {"error": ..., "details": ...}.
type APIError struct {
	StatusCode int         `json:"-"`
	Message    string      `json:"error"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("APIError: StatusCode=%d, Message=%s", e.StatusCode, e.Message)
}

func NewAPIError(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

// WithDetails returns a copy of e carrying details, leaving the shared value untouched.
func (e *APIError) WithDetails(details interface{}) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

var (
	ErrBadRequest       = NewAPIError(http.StatusBadRequest, "Requisição inválida")
	ErrInvalidJSON      = NewAPIError(http.StatusBadRequest, "Formato de JSON inválido")
	ErrUnauthorized     = NewAPIError(http.StatusUnauthorized, "Senha incorreta ou usuário não autorizado")
	ErrForbidden        = NewAPIError(http.StatusForbidden, "Acesso negado ao provedor de identidade")
	ErrNotFound         = NewAPIError(http.StatusNotFound, "Recurso não encontrado")
	ErrMethodNotAllowed = NewAPIError(http.StatusMethodNotAllowed, "Método não permitido")
	ErrInternalServer   = NewAPIError(http.StatusInternalServerError, "Erro interno do servidor")
)

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// FormatValidationErrors converts validator.ValidationErrors into a map keyed by JSON field name.
func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMap := make(map[string]string)
	for _, e := range errs {
		field := e.Field()
		var message string
		switch e.Tag() {
		case "required", "notblank":
			message = fmt.Sprintf("The %s field is required.", field)
		case "email":
			message = fmt.Sprintf("The %s field must be a valid email address.", field)
		case "min":
			message = fmt.Sprintf("The %s field must be at least %s characters long.", field, e.Param())
		case "max":
			message = fmt.Sprintf("The %s field may not be greater than %s characters.", field, e.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", field, e.Tag())
		}
		errorMap[field] = message
	}
	return errorMap
}

// TrimmedEmpty reports whether s is empty once surrounding whitespace is removed.
func TrimmedEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}
