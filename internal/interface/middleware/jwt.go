package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/savings-tracker/pkg/helpers"
)

const CtxUserIDKey = "userID"

// TokenFromRequest reads the bearer token from the Authorization header,
// falling back to the access_token cookie set at login.
func TokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if token, err := c.Cookie(helpers.AccessCookie); err == nil {
		return token
	}
	return ""
}

// UserID returns the authenticated user set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}
