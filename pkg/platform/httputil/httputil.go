// Package httputil centralizes JSON response writing and domain error
// translation so every handler emits the same envelopes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "cardwallet/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the standard error envelope.
// Internal errors omit the description so backend detail never reaches
// clients; everything else carries the message verbatim.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	message := ""

	var we dErrors.WalletError
	if errors.As(err, &we) {
		code = we.Code
		message = we.Message
	}

	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal && message != "" {
		body["error_description"] = message
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}
