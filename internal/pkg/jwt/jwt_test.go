package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "OFFTST0001", "supervisor", testSecret, 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.OfficerID)
	assert.Equal(t, "OFFTST0001", claims.EmployeeID)
	assert.Equal(t, "supervisor", claims.Role)
	assert.Equal(t, "sahaayak-api", claims.Issuer)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "OFFTST0001", "officer", testSecret, 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(1, "OFFTST0001", "officer", testSecret, -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, "token-id-1", testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateRefreshToken(token, testSecret)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.OfficerID)
	assert.Equal(t, "token-id-1", claims.TokenID)
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	refresh, err := GenerateRefreshToken(7, "token-id-1", testSecret, 7)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(refresh, testSecret)
	// Parses under the same secret but carries no employee identity
	if err == nil {
		assert.Empty(t, claims.EmployeeID)
	}
}

func TestValidateGarbage(t *testing.T) {
	_, err := ValidateAccessToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = ValidateRefreshToken("", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
