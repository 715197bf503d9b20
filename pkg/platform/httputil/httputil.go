// Package httputil centralizes JSON encoding and domain error translation so
// every handler produces the same response envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "vendra/pkg/domain-errors"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into an HTTP response. Internal errors
// deliberately omit the description so server details never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)

	resp := errorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.Description = errMessage(err)
	}
	WriteJSON(w, StatusFromCode(code), resp)
}

func errMessage(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return de.Message()
	}
	return err.Error()
}

// StatusFromCode maps domain error codes to HTTP status codes.
func StatusFromCode(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput, dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeIllegalTransition:
		return http.StatusConflict
	case dErrors.CodeMissingReason:
		return http.StatusUnprocessableEntity
	case dErrors.CodeVendorNotActive, dErrors.CodeVendorArchived:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Decode parses a JSON request body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
