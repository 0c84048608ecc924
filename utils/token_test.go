package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizzler-app/quizzler-backend/config"
)

func tokenConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		JWTIssuer: "quizzler-test",
		TokenTTL:  time.Hour,
	}
}

func TestTokenRoundtrip(t *testing.T) {
	cfg := tokenConfig()

	token, err := GenerateToken(cfg, 42)
	require.NoError(t, err)

	claims, err := VerifyToken(cfg, token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "quizzler-test", claims.Issuer)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(tokenConfig(), 42)
	require.NoError(t, err)

	other := tokenConfig()
	other.JWTSecret = "secret-khac"
	_, err = VerifyToken(other, token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	cfg := tokenConfig()
	cfg.TokenTTL = -time.Minute

	token, err := GenerateToken(cfg, 42)
	require.NoError(t, err)

	_, err = VerifyToken(cfg, token)
	assert.Error(t, err)
}
