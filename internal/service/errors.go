package service

import "errors"

// Typed failures returned by the authentication engine. Expected control
// flow (wrong password, locked account, dead token) is expressed as values,
// never as panics, and callers match with [errors.Is].
var (
	// ErrInvalidDataProvided is returned when a required argument is empty.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials is returned when a login fails because of an
	// unknown email or a wrong password. The two causes are deliberately
	// indistinguishable to resist account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked is returned when the account's lockout flag is set,
	// or at the moment the failed-attempt counter trips the threshold.
	ErrAccountLocked = errors.New("account is locked")

	// ErrInvalidOrExpiredToken is returned when a password-reset token or a
	// session credential is absent, malformed, consumed, or past expiry.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrSessionNotFound is returned when a syntactically valid credential
	// carries a session token that does not resolve to an active, unexpired
	// session row.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStorageUnavailable wraps storage-collaborator faults. The engine
	// performs no retries; the failure is fatal to the request.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCredentialCreationFailed is returned when signing the session
	// credential fails after an otherwise successful login.
	ErrCredentialCreationFailed = errors.New("credential creation failed")
)
