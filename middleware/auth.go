package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/cookbook/common"
	"github.com/joshu-sajeev/cookbook/internal/config"
)

// UserEmailHeader is set by the upstream auth gateway for signed-in users.
const UserEmailHeader = "X-User-Email"

const userEmailKey = "user_email"

// CronAuth rejects requests whose bearer token does not exactly match secret.
// An empty secret rejects everything.
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if secret == "" || !ok ||
			subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.APIError{Message: "unauthorized"})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

// RequireUser makes the caller's email available via UserEmail.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader(UserEmailHeader))
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.APIError{Message: "authentication required"})
			return
		}
		c.Set(userEmailKey, email)
		c.Next()
	}
}

// RequireAdmin only lets allowlisted emails through.
func RequireAdmin(admins config.AdminSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader(UserEmailHeader))
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.APIError{Message: "authentication required"})
			return
		}
		if !admins.IsAdmin(email) {
			c.AbortWithStatusJSON(http.StatusForbidden, common.APIError{Message: "admin access required"})
			return
		}
		c.Set(userEmailKey, email)
		c.Next()
	}
}

func UserEmail(c *gin.Context) string {
	return c.GetString(userEmailKey)
}
