//go:build !integration

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenService_Issue(t *testing.T) {
	svc := NewTokenService(TokenConfig{
		SecretKey: "test-secret-key",
		TTL:       time.Minute,
		APIKeys:   map[string]bool{"valid-key": true},
	})

	t.Run("valid api key", func(t *testing.T) {
		token, expiresAt, err := svc.Issue("valid-key")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("unknown api key", func(t *testing.T) {
		token, _, err := svc.Issue("wrong-key")
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
		assert.Empty(t, token)
	})

	t.Run("empty api key", func(t *testing.T) {
		_, _, err := svc.Issue("")
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
	})
}

func TestTokenService_IssueWithHashedKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-key"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewTokenService(TokenConfig{
		SecretKey:    "test-secret-key",
		TTL:          time.Minute,
		APIKeyHashes: []string{string(hash)},
	})

	token, _, err := svc.Issue("hashed-key")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Issue("not-the-key")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestTokenService_Validate(t *testing.T) {
	svc := NewTokenService(TokenConfig{
		SecretKey: "test-secret-key",
		TTL:       time.Minute,
		APIKeys:   map[string]bool{"valid-key": true},
	})

	t.Run("valid token", func(t *testing.T) {
		token, _, err := svc.Issue("valid-key")
		require.NoError(t, err)

		claims, err := svc.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "pallet-analysis", claims.Issuer)
	})

	t.Run("malformed token", func(t *testing.T) {
		claims, err := svc.Validate("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.Nil(t, claims)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewTokenService(TokenConfig{
			SecretKey: "different-secret",
			TTL:       time.Minute,
			APIKeys:   map[string]bool{"valid-key": true},
		})
		token, _, err := other.Issue("valid-key")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenService(TokenConfig{
			SecretKey: "test-secret-key",
			TTL:       -time.Minute,
			APIKeys:   map[string]bool{"valid-key": true},
		})
		token, _, err := expired.Issue("valid-key")
		require.NoError(t, err)

		_, err = svc.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	svc := NewTokenService(TokenConfig{
		SecretKey: "test-secret-key",
		APIKeys:   map[string]bool{"valid-key": true},
	})

	_, expiresAt, err := svc.Issue("valid-key")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)
}
