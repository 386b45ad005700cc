package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims issued by
// the development chat server. The chat client never inspects these; to it the
// token is an opaque credential presented verbatim.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp
	// (Expiration), Iat (Issued At), and Iss (Issuer).
	jwt.StandardClaims

	// Username is the display name of the account the token belongs to.
	Username string `json:"username"`

	// UserID is the account's stable identifier.
	UserID string `json:"user_id"`
}
