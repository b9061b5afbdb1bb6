package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ErrorBody is the JSON envelope for error responses. Handlers needing
// richer payloads (e.g. the admission gate's resource/current/limit) write
// their own body with JSON instead.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// JSON writes v as a JSON response with the given status code.
// Encoding failures are unrecoverable at this point (headers already sent)
// and are deliberately ignored.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as a JSON error response. HTTPError values keep their
// status code and key; anything else becomes a 500 with a generic body so
// that internal details never leak to clients.
func Error(w http.ResponseWriter, err error) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		JSON(w, httpErr.Code, ErrorBody{Error: httpErr.Key, Message: http.StatusText(httpErr.Code)})
		return
	}
	JSON(w, http.StatusInternalServerError, ErrorBody{
		Error:   ErrInternalServerError.Key,
		Message: http.StatusText(http.StatusInternalServerError),
	})
}
