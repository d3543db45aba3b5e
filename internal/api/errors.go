package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Ошибки уровня транспорта, в которые отображаются HTTP статусы бэкенда
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
	ErrUnexpected   = errors.New("unexpected response")
)

// APIError ответ бэкенда с неуспешным статусом
type APIError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", e.kind, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// IsServerError проверяет что ошибка вызвана 5xx ответом
func IsServerError(err error) bool {
	return errors.Is(err, ErrServer)
}

// ErrorMessage извлекает текст ошибки бэкенда, если он есть
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func newAPIError(status int, body []byte) *APIError {
	var kind error
	switch {
	case status == http.StatusUnauthorized:
		kind = ErrUnauthorized
	case status == http.StatusForbidden:
		kind = ErrForbidden
	case status == http.StatusNotFound:
		kind = ErrNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = ErrValidation
	case status == http.StatusConflict:
		kind = ErrConflict
	case status >= 500:
		kind = ErrServer
	default:
		kind = ErrUnexpected
	}

	return &APIError{
		StatusCode: status,
		Message:    extractMessage(body),
		kind:       kind,
	}
}

// extractMessage понимает {"message": "..."}, {"message": ["...", "..."]} и {"error": "..."}
func extractMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Message) > 0 {
		var single string
		if err := json.Unmarshal(payload.Message, &single); err == nil {
			return single
		}
		var many []string
		if err := json.Unmarshal(payload.Message, &many); err == nil {
			return strings.Join(many, "; ")
		}
	}

	return payload.Error
}
