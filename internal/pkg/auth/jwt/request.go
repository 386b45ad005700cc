package jwt

import (
	"net/http"
	"strings"
)

// TokenFromRequest extracts the bearer token presented by a request. It checks
// the Authorization header first, then the token query parameter, which is how
// the streaming endpoint receives it (browsers cannot set headers on a
// WebSocket dial). Returns the empty string when no token is presented.
func TokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	return r.URL.Query().Get("token")
}

// IdentityFromRequest extracts and validates the token presented by a request.
// A nil return means the caller is anonymous (missing, malformed, or expired
// token).
func IdentityFromRequest(r *http.Request, secretKey string) *Payload {
	tokenString := TokenFromRequest(r)
	if tokenString == "" {
		return nil
	}

	payload, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return nil
	}

	return payload
}
