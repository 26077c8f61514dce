package helpers

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const SessionCookieName = "token"

var (
	ErrTokenExpired   = errors.New("session token expired")
	ErrTokenMalformed = errors.New("session token malformed or badly signed")
)

// GenerateSessionToken signs a 24h HS256 token carrying the user id as its
// sole claim.
func GenerateSessionToken(userID uuid.UUID) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not configured")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})

	return token.SignedString([]byte(secret))
}

// ParseSessionToken validates the signature and expiry and returns the user
// id claim. Expiry and malformed tokens yield distinct errors so the
// middleware can answer with distinct messages.
func ParseSessionToken(tokenString string) (uuid.UUID, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return uuid.Nil, errors.New("JWT_SECRET not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrTokenMalformed
	}

	rawID, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, ErrTokenMalformed
	}

	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, ErrTokenMalformed
	}

	return userID, nil
}
