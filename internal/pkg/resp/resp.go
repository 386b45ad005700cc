/*
Package resp provides helper functions for constructing and sending HTTP JSON
responses from the development chat server.

The chat client decodes flat payloads ({"token": ...}, {"username": ...}), so
responses are written as-is rather than wrapped in an envelope.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"lobbychat/internal/pkg/logx"
)

// RespondJSON sets the Content-Type and sends the JSON-encoded payload with
// the given status.
func RespondJSON(w http.ResponseWriter, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// RespondMessage sends a minimal {"message": ...} payload with the given status.
func RespondMessage(w http.ResponseWriter, httpStatus int, message string) {
	RespondJSON(w, httpStatus, map[string]string{"message": message})
}
