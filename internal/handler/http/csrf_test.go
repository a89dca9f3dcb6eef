// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-auth-keeper/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func authedRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), utils.UserIDCtxKey, int64(42))
	ctx = context.WithValue(ctx, utils.SessionTokenCtxKey, "opaque-token")
	return req.WithContext(ctx)
}

func TestCsrfToken_Success(t *testing.T) {
	h, authService := newTestHandler(t)

	authService.EXPECT().GenerateCsrfToken(gomock.Any(), int64(42)).Return("csrf-token", nil)

	rec := httptest.NewRecorder()
	h.csrfToken(rec, authedRequest(t, http.MethodGet, "/api/auth/csrf-token"))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp csrfTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "csrf-token", resp.CsrfToken)
}

func TestCsrfToken_NoUserInContext(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/csrf-token", nil)
	rec := httptest.NewRecorder()

	h.csrfToken(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireCsrf_Success(t *testing.T) {
	h, authService := newTestHandler(t)

	authService.EXPECT().ValidateCsrfToken(gomock.Any(), int64(42), "csrf-token").Return(true, nil)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	})

	req := authedRequest(t, http.MethodPost, "/api/auth/logout")
	req.Header.Set(csrfTokenHeader, "csrf-token")
	rec := httptest.NewRecorder()

	h.requireCsrf(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, nextCalled)
}

func TestRequireCsrf_MissingHeader(t *testing.T) {
	h, _ := newTestHandler(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not be reached")
	})

	rec := httptest.NewRecorder()
	h.requireCsrf(next).ServeHTTP(rec, authedRequest(t, http.MethodPost, "/api/auth/logout"))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireCsrf_InvalidToken(t *testing.T) {
	h, authService := newTestHandler(t)

	authService.EXPECT().ValidateCsrfToken(gomock.Any(), int64(42), "stale-token").Return(false, nil)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler must not be reached")
	})

	req := authedRequest(t, http.MethodPost, "/api/auth/logout")
	req.Header.Set(csrfTokenHeader, "stale-token")
	rec := httptest.NewRecorder()

	h.requireCsrf(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}
