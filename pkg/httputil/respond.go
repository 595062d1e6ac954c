package httputil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/dmdpattern/pkg/errors"
)

// ErrorBody is the JSON body written by WriteError.
type ErrorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, errors.ErrCodeNotFound), errors.Is(err, errors.ErrCodeFileNotFound):
		return http.StatusNotFound
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeOutOfBounds), errors.Is(err, errors.ErrCodeSizeMismatch):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an ErrorBody. Internal errors are reported
// without detail.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	body := ErrorBody{Error: errors.UserMessage(err), Code: errors.GetCode(err)}
	if status == http.StatusInternalServerError {
		body = ErrorBody{Error: http.StatusText(status), Code: errors.ErrCodeInternal}
	}
	WriteJSON(w, status, body)
}

// WriteImage writes encoded image bytes with a content type and cache
// headers suitable for immutable renders.
func WriteImage(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// QueryInt parses the query parameter name as an integer in [lo, hi].
// A missing parameter yields def.
func QueryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s: not an integer: %q", name, s)
	}
	if n < lo || n > hi {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be in [%d, %d], got %d", name, lo, hi, n)
	}
	return n, nil
}
