// Package httputil centralizes JSON response writing and domain error
// translation so handlers stay thin and error envelopes stay consistent.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	domerrors "gatekeeper/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into a JSON error envelope. Internal
// errors omit the description so store failures never leak details.
func WriteError(w http.ResponseWriter, err error) {
	code := domerrors.CodeOf(err)
	status := domerrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	var de *domerrors.Error
	if code != domerrors.CodeInternal && errors.As(err, &de) && de.Description != "" {
		body["error_description"] = de.Description
	}
	WriteJSON(w, status, body)
}
