package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lotus/pkg/utils"
)

const userIDKey = "user_id"

// OptionalAuth resolves the caller from a bearer token when one is sent.
// Requests without an Authorization header pass through anonymously; a
// header carrying a bad token is rejected.
func OptionalAuth(verifier *utils.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if !authenticate(c, verifier) {
			return
		}
		c.Next()
	}
}

func RequireAuth(verifier *utils.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, verifier) {
			return
		}
		c.Next()
	}
}

// UserID returns the identity set by OptionalAuth or RequireAuth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func authenticate(c *gin.Context, verifier *utils.TokenVerifier) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
		c.Abort()
		return false
	}

	claims, err := verifier.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
		c.Abort()
		return false
	}
	userID, err := claims.Identity()
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Token carries no user id")
		c.Abort()
		return false
	}

	c.Set(userIDKey, userID)
	return true
}
