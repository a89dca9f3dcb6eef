package http

import "github.com/MKhiriev/go-auth-keeper/models"

// Request and response bodies of the auth API. Only non-sensitive fields
// cross this boundary: password hashes, salts, and opaque session tokens
// never appear in any of these types.

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	// Token is the signed session credential in compact form. Clients
	// present it in the "Authorization: Bearer" header.
	Token string `json:"token"`

	User models.UserSummary `json:"user"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type passwordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type csrfTokenResponse struct {
	CsrfToken string `json:"csrf_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}
