package jwtutil

import (
	"testing"

	"github.com/sirsasha78/AdMarketplace/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestConfig(t *testing.T) {
	t.Helper()
	Initialize(&config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 1,
		Issuer:          "http://127.0.0.1:8001",
	})
	t.Cleanup(func() { cfg = nil })
}

func TestGenerateTokenStaffGetsAdminGroup(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateToken("admin@example.com", "some-id", true, "BUYER")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, GroupAdmin, claims.Group)
	assert.Empty(t, claims.Role, "staff tokens carry no role claim")
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "some-id", claims.UserID)
	assert.Equal(t, "http://127.0.0.1:8001", claims.Issuer)
}

func TestGenerateTokenRegularUserCarriesAccountTypeRole(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateToken("seller@example.com", "some-id", false, "SELLER")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, GroupUser, claims.Group)
	assert.Equal(t, "SELLER", claims.Role)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateToken("user@example.com", "some-id", false, "BUYER")
	require.NoError(t, err)

	Initialize(&config.JWTConfig{
		SigningKey:      "another-key",
		ExpirationHours: 1,
		Issuer:          "http://127.0.0.1:8001",
	})

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenWithoutInitialization(t *testing.T) {
	cfg = nil

	_, err := GenerateToken("user@example.com", "some-id", false, "BUYER")
	assert.Error(t, err)
}
