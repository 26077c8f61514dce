package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/helpers"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *uuid.UUID) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	var seen uuid.UUID
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		seen = userID.(uuid.UUID)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r, &seen
}

func TestJWTAuthMiddleware_MissingToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Not authenticated")
}

func TestJWTAuthMiddleware_MalformedToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: "not-a-jwt"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Invalid session token")
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	tokenString, err := expired.SignedString([]byte(os.Getenv("JWT_SECRET")))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: tokenString})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Session expired")
}

func TestJWTAuthMiddleware_ValidCookie(t *testing.T) {
	r, seen := newAuthRouter(t)

	userID := uuid.New()
	tokenString, err := helpers.GenerateSessionToken(userID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: tokenString})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, userID, *seen)
}

func TestJWTAuthMiddleware_BearerFallback(t *testing.T) {
	r, seen := newAuthRouter(t)

	userID := uuid.New()
	tokenString, err := helpers.GenerateSessionToken(userID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, userID, *seen)
}
