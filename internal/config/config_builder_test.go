package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validAuth returns an Auth block that passes validation, for tests that
// exercise merging rather than validation.
func validAuth() Auth {
	return Auth{
		TokenSignKey:       "secret",
		TokenIssuer:        "issuer",
		BcryptCost:         10,
		LockoutThreshold:   5,
		SessionDuration:    7 * 24 * time.Hour,
		ResetTokenDuration: time.Hour,
		CsrfTokenDuration:  time.Hour,
	}
}

func TestBuild_EarlierSourceWins(t *testing.T) {
	b := newConfigBuilder()

	first := &StructuredConfig{Auth: validAuth()}
	first.Auth.LockoutThreshold = 3
	second := &StructuredConfig{Auth: validAuth()}
	second.Auth.LockoutThreshold = 9

	b.configs = append(b.configs, first, second)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Auth.LockoutThreshold)
}

func TestBuild_LaterSourceFillsGaps(t *testing.T) {
	b := newConfigBuilder()

	partial := &StructuredConfig{Auth: Auth{TokenSignKey: "from-first"}}
	b.configs = append(b.configs, partial, &StructuredConfig{Auth: validAuth()})

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "from-first", cfg.Auth.TokenSignKey)
	assert.Equal(t, 5, cfg.Auth.LockoutThreshold)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTokenDuration)
}

func TestBuild_DefaultsAloneFailValidation(t *testing.T) {
	// defaults deliberately carry no signing key
	b := newConfigBuilder().withDefaults()

	_, err := b.build()
	require.ErrorIs(t, err, ErrMissingTokenSignKey)
}

func TestBuild_DefaultsPlusSignKeyValidate(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Auth: Auth{TokenSignKey: "secret"}})
	b.withDefaults()

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, DefaultLockoutThreshold, cfg.Auth.LockoutThreshold)
	assert.Equal(t, DefaultSessionDuration, cfg.Auth.SessionDuration)
	assert.Equal(t, DefaultCsrfTokenDuration, cfg.Auth.CsrfTokenDuration)
}

func TestValidate_RejectsBrokenPolicy(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StructuredConfig)
		wantErr error
	}{
		{
			name:    "missing sign key",
			mutate:  func(c *StructuredConfig) { c.Auth.TokenSignKey = "" },
			wantErr: ErrMissingTokenSignKey,
		},
		{
			name:    "bcrypt cost too low",
			mutate:  func(c *StructuredConfig) { c.Auth.BcryptCost = 2 },
			wantErr: ErrInvalidBcryptCost,
		},
		{
			name:    "bcrypt cost too high",
			mutate:  func(c *StructuredConfig) { c.Auth.BcryptCost = 40 },
			wantErr: ErrInvalidBcryptCost,
		},
		{
			name:    "zero lockout threshold",
			mutate:  func(c *StructuredConfig) { c.Auth.LockoutThreshold = 0 },
			wantErr: ErrInvalidLockoutThreshold,
		},
		{
			name:    "zero session duration",
			mutate:  func(c *StructuredConfig) { c.Auth.SessionDuration = 0 },
			wantErr: ErrInvalidTokenDurations,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &StructuredConfig{Auth: validAuth()}
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.validate(), tt.wantErr)
		})
	}
}
