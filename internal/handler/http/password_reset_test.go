// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-auth-keeper/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRequestPasswordReset_UniformResponse(t *testing.T) {
	// known and unknown emails must be indistinguishable at the boundary
	tests := []struct {
		name  string
		email string
		token string
	}{
		{name: "known email", email: "gopher@example.com", token: "reset-token"},
		{name: "unknown email", email: "ghost@example.com", token: ""},
	}

	var responses []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, authService := newTestHandler(t)

			authService.EXPECT().
				RequestPasswordReset(gomock.Any(), tt.email).
				Return(tt.token, nil)

			body := `{"email":"` + tt.email + `"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset/request", strings.NewReader(body))
			rec := httptest.NewRecorder()

			h.requestPasswordReset(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.NotContains(t, rec.Body.String(), "reset-token")
			responses = append(responses, rec.Body.String())
		})
	}

	require.Len(t, responses, 2)
	assert.Equal(t, responses[0], responses[1])
}

func TestConfirmPasswordReset_Success(t *testing.T) {
	h, authService := newTestHandler(t)

	authService.EXPECT().
		ResetPassword(gomock.Any(), "reset-token", "new password").
		Return(nil)

	body := `{"token":"reset-token","new_password":"new password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset/confirm", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.confirmPasswordReset(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestConfirmPasswordReset_InvalidToken(t *testing.T) {
	h, authService := newTestHandler(t)

	authService.EXPECT().
		ResetPassword(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(service.ErrInvalidOrExpiredToken)

	body := `{"token":"consumed-token","new_password":"new password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset/confirm", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.confirmPasswordReset(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmPasswordReset_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/password-reset/confirm", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.confirmPasswordReset(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
