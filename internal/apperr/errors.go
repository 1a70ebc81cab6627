package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure modes the API distinguishes to clients.
var (
	ErrInsufficientCredits = errors.New("insufficient AI credits")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrUnauthenticated     = errors.New("no user identity")
	ErrMissingAPIKey       = errors.New("upstream API key not configured")
	ErrUpstream            = errors.New("upstream generation error")
	ErrMalformedOutput     = errors.New("malformed model output")
	ErrNoResults           = errors.New("model returned no valid results")
	ErrUpstreamUnavailable = errors.New("upstream temporarily unavailable")
)

// Error carries a client-facing message alongside an HTTP status. The wrapped
// cause stays server-side.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Wrap(status int, message string, cause error) *Error {
	return &Error{Status: status, Message: message, cause: cause}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// StatusFor maps an error to the HTTP status of the taxonomy. Unknown errors
// collapse to 500 so internals never leak.
func StatusFor(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ErrMissingAPIKey), errors.Is(err, ErrMalformedOutput), errors.Is(err, ErrNoResults):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// MessageFor returns the client-facing message for an error. Internal errors
// get a generic message; typed errors keep their own.
func MessageFor(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	switch {
	case errors.Is(err, ErrInsufficientCredits):
		return "Has agotado tus créditos de IA. Actualiza tu plan o compra más créditos."
	case errors.Is(err, ErrRateLimited):
		return "Demasiadas solicitudes. Por favor, intenta de nuevo más tarde."
	case errors.Is(err, ErrUnauthenticated):
		return "No se detectó sesión de usuario."
	case errors.Is(err, ErrMissingAPIKey):
		return "La API Key central de Claude no está configurada."
	case errors.Is(err, ErrUpstream), errors.Is(err, ErrUpstreamUnavailable):
		return "Error al comunicarse con la API de generación."
	case errors.Is(err, ErrMalformedOutput):
		return "Error al procesar la respuesta de la IA. Intenta de nuevo."
	case errors.Is(err, ErrNoResults):
		return "La IA no generó resultados válidos. Intenta de nuevo."
	default:
		return "Error interno del servidor."
	}
}
