// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-auth-keeper/internal/mock"
	"github.com/MKhiriev/go-auth-keeper/internal/service"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
	"github.com/MKhiriev/go-auth-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddleware_Success(t *testing.T) {
	h, authService := newTestHandler(t)

	authService.EXPECT().
		Authenticate(gomock.Any(), "signed.jwt.token").
		Return(models.Credential{UserID: 42, SessionToken: "opaque-token"}, nil)

	var gotUserID int64
	var gotSessionToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = utils.GetUserIDFromContext(r.Context())
		gotSessionToken, _ = utils.GetSessionTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/login-history", nil)
	req.Header.Set("Authorization", "Bearer signed.jwt.token")
	rec := httptest.NewRecorder()

	h.auth(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotUserID)
	assert.Equal(t, "opaque-token", gotSessionToken)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		setupMock  func(authService *mock.MockAuthService)
	}{
		{name: "missing header"},
		{name: "no token part", authHeader: "Bearer"},
		{name: "empty token", authHeader: "Bearer "},
		{
			name:       "invalid credential",
			authHeader: "Bearer forged.jwt.token",
			setupMock: func(m *mock.MockAuthService) {
				m.EXPECT().Authenticate(gomock.Any(), "forged.jwt.token").Return(models.Credential{}, service.ErrInvalidOrExpiredToken)
			},
		},
		{
			name:       "dead session",
			authHeader: "Bearer signed.jwt.token",
			setupMock: func(m *mock.MockAuthService) {
				m.EXPECT().Authenticate(gomock.Any(), "signed.jwt.token").Return(models.Credential{}, service.ErrSessionNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, authService := newTestHandler(t)
			if tt.setupMock != nil {
				tt.setupMock(authService)
			}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("next handler must not be reached")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/login-history", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			h.auth(next).ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
