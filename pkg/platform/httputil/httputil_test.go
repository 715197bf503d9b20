package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	dErrors "vendra/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("bad request includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid input"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "bad_request" {
			t.Fatalf("expected error code bad_request, got %q", body["error"])
		}
		if body["error_description"] != "invalid input" {
			t.Fatalf("expected error_description to be returned for bad request")
		}
	})

	t.Run("wrapped cause never leaks", func(t *testing.T) {
		w := httptest.NewRecorder()
		cause := dErrors.New(dErrors.CodeInternal, "pg: connection refused")
		WriteError(w, dErrors.Wrap(cause, dErrors.CodeConflict, "vendor was modified concurrently"))

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status %d, got %d", http.StatusConflict, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error_description"] != "vendor was modified concurrently" {
			t.Fatalf("expected caller-safe message only, got %q", body["error_description"])
		}
	})
}

func TestStatusFromCode(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeInvalidInput:      http.StatusBadRequest,
		dErrors.CodeValidation:        http.StatusBadRequest,
		dErrors.CodeNotFound:          http.StatusNotFound,
		dErrors.CodeConflict:          http.StatusConflict,
		dErrors.CodeIllegalTransition: http.StatusConflict,
		dErrors.CodeMissingReason:     http.StatusUnprocessableEntity,
		dErrors.CodeVendorNotActive:   http.StatusConflict,
		dErrors.CodeVendorArchived:    http.StatusConflict,
		dErrors.CodeUnauthorized:      http.StatusUnauthorized,
		dErrors.CodeForbidden:         http.StatusForbidden,
		dErrors.CodeInternal:          http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := StatusFromCode(code); got != want {
			t.Errorf("StatusFromCode(%s) = %d, want %d", code, got, want)
		}
	}
}
