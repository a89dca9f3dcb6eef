package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer  = "go-auth-keeper"
	testSignKey = "test-sign-key"
)

func TestGenerateCredential_RoundTrip(t *testing.T) {
	now := time.Now()

	credential, err := GenerateCredential(testIssuer, 42, "session-token-abc", now, now.Add(time.Hour), testSignKey)
	require.NoError(t, err)
	require.NotEmpty(t, credential.SignedString)

	parsed, err := ValidateAndParseCredential(credential.SignedString, testSignKey, testIssuer)
	require.NoError(t, err)

	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, "session-token-abc", parsed.SessionToken)
}

func TestGenerateCredential_InvalidParams(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name         string
		issuer       string
		sessionToken string
		expiresAt    time.Time
		signKey      string
	}{
		{name: "empty issuer", sessionToken: "tok", expiresAt: now.Add(time.Hour), signKey: "k"},
		{name: "empty session token", issuer: testIssuer, expiresAt: now.Add(time.Hour), signKey: "k"},
		{name: "zero expiry", issuer: testIssuer, sessionToken: "tok", signKey: "k"},
		{name: "empty sign key", issuer: testIssuer, sessionToken: "tok", expiresAt: now.Add(time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateCredential(tt.issuer, 1, tt.sessionToken, now, tt.expiresAt, tt.signKey)
			assert.Error(t, err)
		})
	}
}

func TestValidateAndParseCredential_WrongKey(t *testing.T) {
	now := time.Now()
	credential, err := GenerateCredential(testIssuer, 1, "tok", now, now.Add(time.Hour), testSignKey)
	require.NoError(t, err)

	_, err = ValidateAndParseCredential(credential.SignedString, "other-key", testIssuer)
	assert.Error(t, err)
}

func TestValidateAndParseCredential_WrongIssuer(t *testing.T) {
	now := time.Now()
	credential, err := GenerateCredential("someone-else", 1, "tok", now, now.Add(time.Hour), testSignKey)
	require.NoError(t, err)

	_, err = ValidateAndParseCredential(credential.SignedString, testSignKey, testIssuer)
	assert.Error(t, err)
}

func TestValidateAndParseCredential_Expired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	credential, err := GenerateCredential(testIssuer, 1, "tok", past, past.Add(time.Hour), testSignKey)
	require.NoError(t, err)

	_, err = ValidateAndParseCredential(credential.SignedString, testSignKey, testIssuer)
	assert.Error(t, err)
}
