package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Vermasaiyam/EVENT-REGISTRATION-SYSTEM-sub000/internal/helpers"
	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the session token before any handler touches
// the store. The token travels in an HTTP-only cookie; a bearer header is
// accepted as a fallback for non-browser clients. Missing, malformed and
// expired tokens each produce their own 401 message.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if tokenString == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Not authenticated. Please log in.")
			c.Abort()
			return
		}

		userID, err := helpers.ParseSessionToken(tokenString)
		if err != nil {
			if errors.Is(err, helpers.ErrTokenExpired) {
				helpers.RespondWithError(c, http.StatusUnauthorized, "Session expired. Please log in again.")
			} else {
				helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid session token.")
			}
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
