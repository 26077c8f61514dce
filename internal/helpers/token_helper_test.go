package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New()
	tokenString, err := GenerateSessionToken(userID)
	require.NoError(t, err)

	parsed, err := ParseSessionToken(tokenString)
	require.NoError(t, err)
	require.Equal(t, userID, parsed)
}

func TestParseSessionToken_Expired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	tokenString, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseSessionToken(tokenString)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	tokenString, err := GenerateSessionToken(uuid.New())
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = ParseSessionToken(tokenString)
	require.ErrorIs(t, err, ErrTokenMalformed)
}

func TestParseSessionToken_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := ParseSessionToken("definitely.not.ajwt")
	require.ErrorIs(t, err, ErrTokenMalformed)
}
