package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.GenerateToken(7, "admin", "bistro")
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "bistro", claims.RestaurantUsername)

	_, err = NewTokenManager("other", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &CustomClaims{
		UserID: 1,
		Role:   "superadmin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeAndPurge(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, err := tm.GenerateToken(1, "customer", "bistro")
	require.NoError(t, err)

	tm.Revoke(token)
	assert.True(t, tm.IsRevoked(token))
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, 0, tm.PurgeExpired())

	later := time.Now().Add(2 * time.Hour)
	tm.now = func() time.Time { return later }
	assert.Equal(t, 1, tm.PurgeExpired())
	assert.Empty(t, tm.revoked)
}
