package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-auth-keeper/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateCredential creates a signed HMAC-SHA256 session credential.
//
// The credential includes the following claims:
//   - Issuer    (iss): identifies the service that issued the credential
//   - Subject   (sub): the user ID encoded as a string
//   - IssuedAt  (iat): the supplied issue time
//   - ExpiresAt (exp): mirrors the expiry of the backing session row
//   - sid:             the opaque session token the credential is bound to
//
// All parameters are required. Returns an error if any of them are empty
// or zero.
func GenerateCredential(issuer string, userID int64, sessionToken string, issuedAt, expiresAt time.Time, signKey string) (models.Credential, error) {
	if issuer == "" || sessionToken == "" || signKey == "" || expiresAt.IsZero() {
		return models.Credential{}, errors.New("invalid params for generating session credential")
	}

	claims := &models.Credential{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
		SessionToken: sessionToken,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Credential{}, fmt.Errorf("error occurred during signing session credential: %w", err)
	}

	claims.Token = token
	claims.SignedString = tokenString
	claims.UserID = userID

	return *claims, nil
}

// ValidateAndParseCredential validates a raw credential string and extracts
// its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided issuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence and conversion to int64 UserID
//   - Presence of the "sid" session-token claim
//
// Signature validity alone does not authorize a request: the caller must
// still resolve the embedded session token to an active, unexpired session.
func ValidateAndParseCredential(tokenString, signKey, issuer string) (models.Credential, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Credential{}, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Credential{}, fmt.Errorf("error occurred validating and parsing credential: %w", err)
	}

	credential, ok := token.Claims.(*models.Credential)
	if !ok {
		return models.Credential{}, errors.New("unexpected credential claims type")
	}
	if credential.SessionToken == "" {
		return models.Credential{}, errors.New("credential is missing session token claim")
	}

	userID, err := credential.GetUserID()
	if err != nil {
		return models.Credential{}, err
	}

	credential.Token = token
	credential.SignedString = tokenString
	credential.UserID = userID

	return *credential, nil
}
