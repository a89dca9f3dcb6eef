package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the signed session credential handed to the boundary after
// a successful login. It binds the owning user ("sub" claim) to the opaque
// session token ("sid" claim) so that verification requires both a valid
// signature and the embedded session resolving to an active, unexpired row.
//
// It embeds [jwt.Token] for low-level token operations (signing, parsing)
// and [jwt.RegisteredClaims] for standard claim access (subject, expiry).
type Credential struct {
	// Token is the underlying JWT used for signing and claim inspection.
	// Excluded from JSON serialization because only the compact string form
	// is meaningful outside the server process.
	*jwt.Token `json:"-"`

	// RegisteredClaims provides access to the standard JWT claim set
	// (sub, exp, iat, iss) as defined by RFC 7519.
	jwt.RegisteredClaims

	// SessionToken is the opaque session identifier carried in the "sid"
	// claim. It is the value resolved against the session registry on
	// every authenticated request.
	SessionToken string `json:"sid"`

	// SignedString is the compact JWS representation of the credential
	// (base64url-encoded header.payload.signature).
	// Excluded from JSON serialization; use [Credential.String] instead.
	SignedString string `json:"-"`

	// UserID is the owner identifier extracted from the "sub" claim.
	// Internal server-side cache; excluded from JSON serialization.
	UserID int64 `json:"-"`
}

// GetUserID extracts the user identifier from the credential's "sub"
// (subject) claim, parses it as a base-10 int64, and returns the result.
//
// Returns an error if the subject claim is missing, empty, or cannot be
// converted to int64.
func (c *Credential) GetUserID() (int64, error) {
	subject, err := c.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from credential: %w", err)
	}

	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from credential to int64: %w", err)
	}

	return userID, nil
}

// String returns the compact JWS serialization of the credential.
// It implements the [fmt.Stringer] interface.
func (c *Credential) String() string {
	return c.SignedString
}
