package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "test-api",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := testJWTManager()

	token, jti, err := m.GenerateAccessToken(1, "user@test.edu", "applicant")
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 1, claims.UserID)
	assert.Equal(t, "user@test.edu", claims.Email)
	assert.Equal(t, "applicant", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	m := testJWTManager()

	accessToken, _, err := m.GenerateAccessToken(1, "user@test.edu", "applicant")
	require.NoError(t, err)
	refreshToken, _, err := m.GenerateRefreshToken(1, "user@test.edu", "applicant")
	require.NoError(t, err)

	// An access token must be rejected where a refresh token is expected.
	// They are also signed with different secrets, so the signature check
	// fails before the kind check.
	_, err = m.ValidateRefreshToken(accessToken)
	assert.Error(t, err)

	_, err = m.ValidateAccessToken(refreshToken)
	assert.Error(t, err)

	claims, err := m.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager(JWTConfig{
		Secret:        "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        -time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "test-api",
	})

	token, _, err := m.GenerateAccessToken(1, "user@test.edu", "applicant")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestMalformedTokenRejected(t *testing.T) {
	m := testJWTManager()

	_, err := m.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}
