package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "asha@example.com", "user", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestParseTokenRejects(t *testing.T) {
	userID := uuid.New()
	valid, err := GenerateToken(userID, "a@example.com", "user", "secret", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(userID, "a@example.com", "user", "secret", -time.Minute)
	require.NoError(t, err)
	noUser, err := GenerateToken(uuid.Nil, "a@example.com", "user", "secret", time.Hour)
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: userID})
	none, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tcases := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: valid, secret: "other"},
		{name: "expired", token: expired, secret: "secret"},
		{name: "nil user", token: noUser, secret: "secret"},
		{name: "alg none", token: none, secret: "secret"},
		{name: "garbage", token: "not-a-token", secret: "secret"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseToken(tc.token, tc.secret)
			assert.Error(t, err)
		})
	}
}
