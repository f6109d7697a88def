package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/classgold/internal/api/apierr"
	"github.com/mcoot/classgold/internal/validate"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decodeRequest reads a JSON body into req and validates it
func decodeRequest(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	return validate.Struct(req)
}
