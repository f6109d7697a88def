package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/classgold/internal/model"
	"github.com/mcoot/classgold/internal/services/auth"
	"github.com/mcoot/classgold/internal/services/gamebridge"
	"github.com/mcoot/classgold/internal/validate"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeNotStudent          = "NOT_STUDENT"
	CodeNotTeacher          = "NOT_TEACHER"
	CodeConcurrentUpdate    = "CONCURRENT_UPDATE"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeItemNotFound        = "ITEM_NOT_FOUND"
	CodeInvalidPrice        = "INVALID_PRICE"
	CodePriceChanged        = "PRICE_CHANGED"
	CodeItemRemoved         = "ITEM_REMOVED"
	CodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	CodeMalformedMessage    = "MALFORMED_MESSAGE"
	CodeCreditLimit         = "CREDIT_LIMIT"
	CodeGameSessionNotFound = "GAME_SESSION_NOT_FOUND"
	CodeSessionMismatch     = "SESSION_MISMATCH"
	CodeUsernameExists      = "USERNAME_EXISTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInvalidRole         = "INVALID_ROLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// WithDetails maps err as WriteError would and attaches details to the response body
func WithDetails(err error, details any) error {
	he := *toHTTPError(err)
	he.apiError.Details = details
	return &he
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	if fields := validate.Fields(err); fields != nil {
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, "Request validation failed", fields}}
	}

	switch {
	// Map model errors
	case errors.Is(err, model.ErrAccountNotFound):
		return newError(http.StatusNotFound, CodeAccountNotFound, "Account not found")
	case errors.Is(err, model.ErrNotStudent):
		return newError(http.StatusForbidden, CodeNotStudent, "Only students can do this")
	case errors.Is(err, model.ErrNotTeacher):
		return newError(http.StatusForbidden, CodeNotTeacher, "Only teachers can do this")
	case errors.Is(err, model.ErrConcurrentUpdate):
		return newError(http.StatusConflict, CodeConcurrentUpdate, "Account is busy, try again")
	case errors.Is(err, model.ErrInvalidAmount):
		return newError(http.StatusBadRequest, CodeInvalidAmount, "Amount must be a positive integer")
	case errors.Is(err, model.ErrItemNotFound):
		return newError(http.StatusNotFound, CodeItemNotFound, "Item not found")
	case errors.Is(err, model.ErrInvalidPrice):
		return newError(http.StatusBadRequest, CodeInvalidPrice, "Price must be a whole number of zero or more")
	case errors.Is(err, model.ErrPriceChanged):
		return newError(http.StatusConflict, CodePriceChanged, "The price of this item has changed")
	case errors.Is(err, model.ErrItemRemoved):
		return newError(http.StatusGone, CodeItemRemoved, "This item is no longer available")
	case errors.Is(err, model.ErrInsufficientFunds):
		return newError(http.StatusPaymentRequired, CodeInsufficientFunds, "Not enough gold")

	// Map game errors
	case errors.Is(err, gamebridge.ErrMalformedMessage):
		return newError(http.StatusBadRequest, CodeMalformedMessage, "Malformed game message")
	case errors.Is(err, gamebridge.ErrCreditLimit):
		return newError(http.StatusUnprocessableEntity, CodeCreditLimit, "Credit exceeds the per-message limit")
	case errors.Is(err, gamebridge.ErrUnknownGameSession):
		return newError(http.StatusNotFound, CodeGameSessionNotFound, "Game session not found")
	case errors.Is(err, gamebridge.ErrSessionMismatch):
		return newError(http.StatusForbidden, CodeSessionMismatch, "Game session belongs to another account")

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return newError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidSession):
		return newError(http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired session")
	case errors.Is(err, auth.ErrUsernameExists), errors.Is(err, model.ErrUsernameTaken):
		return newError(http.StatusConflict, CodeUsernameExists, "Username already exists")
	case errors.Is(err, auth.ErrInvalidRole):
		return newError(http.StatusBadRequest, CodeInvalidRole, "Role must be student or teacher")

	default:
		return newError(http.StatusInternalServerError, CodeInternalError, "Something went wrong, please reload")
	}
}

func newError(status int, code, message string) *httpError {
	return &httpError{status, APIError{Code: code, Message: message}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return newError(http.StatusBadRequest, CodeInvalidRequest, message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return newError(http.StatusUnauthorized, CodeUnauthorized, "Authentication required")
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) error {
	return newError(http.StatusForbidden, CodeForbidden, message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return newError(http.StatusInternalServerError, CodeInternalError, "Something went wrong, please reload")
}
