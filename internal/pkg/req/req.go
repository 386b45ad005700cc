/*
Package req provides helper functions for HTTP request parsing and data binding
used by the development chat server.
*/
package req

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// BindJSON attempts to bind the JSON data from the HTTP request body to the
// destination struct dst. It rejects non-JSON content types, unknown fields,
// and trailing content after the JSON document.
func BindJSON(r *http.Request, dst any) error {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return fmt.Errorf("unsupported content type %q", contentType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}

	if decoder.More() {
		return fmt.Errorf("request body contains extra content after JSON document")
	}

	return nil
}
