// Package respond writes the service's JSON response bodies. Success
// bodies vary per route; error bodies are always {"error": <message>},
// the shape every client of this API was built against.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes a success payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Error writes {"error": message} with the given status and logs the
// underlying error from the request-scoped logger: server errors at error
// level, client errors at warn.
func Error(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if r != nil && err != nil {
		logger := zerolog.Ctx(r.Context())
		event := logger.Warn()
		if status >= http.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Err(err).
			Int("status", status).
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Msg(message)
	}

	JSON(w, status, errorBody{Error: message})
}
