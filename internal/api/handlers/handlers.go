// Package handlers implements the HTTP endpoints. Handlers decode the
// request, call one domain service, and write the legacy response shapes;
// no business rules live here.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// statusSuccess is the body most mutating endpoints return.
var statusSuccess = map[string]string{"status": "success"}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// orEmpty keeps list responses serializing as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
