package auth

import (
	"testing"
	"time"

	"bloom/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Service = secret

	return cfg
}

func TestJWTService_GenerateAndValidateToken(t *testing.T) {
	cfg := newTestConfig("test_service_secret_key_very_long_for_testing")

	// Create JWT service
	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)
	require.NotNil(t, jwtService)

	// Generate a service token
	tokenString, err := jwtService.GenerateServiceToken("storefront", time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	// Validate it against the same secret
	token, err := jwtService.ValidateToken(tokenString, cfg.SecretKey.Service)
	require.NoError(t, err)
	assert.True(t, token.Valid)
}

func TestJWTService_WrongSecret(t *testing.T) {
	cfg := newTestConfig("test_service_secret_key_very_long_for_testing")

	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	tokenString, err := jwtService.GenerateServiceToken("storefront", time.Minute)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(tokenString, "a_completely_different_secret")
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := newTestConfig("test_service_secret_key_very_long_for_testing")

	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	tokenString, err := jwtService.GenerateServiceToken("storefront", -time.Minute)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(tokenString, cfg.SecretKey.Service)
	assert.Error(t, err)
}

func TestJWTService_InvalidToken(t *testing.T) {
	cfg := newTestConfig("test_service_secret_key_very_long_for_testing")

	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	// Test invalid token - using clearly non-JWT format
	_, err = jwtService.ValidateToken("clearly-not-a-jwt-token-format", cfg.SecretKey.Service)
	assert.Error(t, err)
}

func TestJWTService_EmptySecret(t *testing.T) {
	cfg := newTestConfig("")

	// Should fail to create service
	jwtService, err := NewJWTService(cfg)
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "service token secret must be provided")
}
