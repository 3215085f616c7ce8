package pkg

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePairRoundTrip(t *testing.T) {
	pair, err := GeneratePair(42, "reviewer")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "reviewer", claims.Role)

	rc, err := ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), rc.UserID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	pair, err := GeneratePair(1, "member")
	require.NoError(t, err)

	_, err = ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenParseFailure)
	_, err = ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestParseAccessExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
		},
	})
	s, err := tok.SignedString(AccessSecret)
	require.NoError(t, err)

	_, err = ParseAccess(s)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessGarbage(t *testing.T) {
	_, err := ParseAccess("not-a-token")
	assert.ErrorIs(t, err, ErrTokenParseFailure)
}
