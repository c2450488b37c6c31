package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/campusportal/portal-api/internal/constants"
	apierrors "github.com/campusportal/portal-api/internal/errors"
	"github.com/campusportal/portal-api/internal/models"
	"github.com/campusportal/portal-api/internal/services"
)

// Authenticate resolves the requester from an "Authorization: Token <key>"
// header, falling back to the token key stored in the session cookie. It
// never rejects: anonymous requests continue with no user in context.
func Authenticate(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := tokenFromHeader(c)
		if key == "" {
			session := sessions.Default(c)
			if v, ok := session.Get(constants.SessionKeyToken).(string); ok {
				key = v
			}
		}
		if key != "" {
			user, err := authService.GetUserByToken(key)
			if err == nil {
				c.Set(constants.ContextKeyUser, user)
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests that did not resolve to a user.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUser(c); !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireOperator rejects requests from anyone but a superuser.
func RequireOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !user.IsSuperuser {
			apierrors.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUser retrieves the authenticated user from context. The boolean is
// false for anonymous requests.
func GetUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// CurrentUser returns the authenticated user or nil for anonymous
// requests, for call sites that treat the two uniformly.
func CurrentUser(c *gin.Context) *models.User {
	user, _ := GetUser(c)
	return user
}

func tokenFromHeader(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Token") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
