package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskassist-api/internal/constants"
	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
	"github.com/yukikurage/taskassist-api/internal/models"
	"github.com/yukikurage/taskassist-api/internal/token"
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*models.User, error)
}

// RequireAuth rejects the request with 401 unless it carries a valid bearer
// token for an existing user.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := token.ExtractToken(c)
		if err != nil {
			apierrors.Unauthorized(c, err.Error())
			c.Abort()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when the request carries a valid token and
// otherwise continues anonymously.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := token.ExtractToken(c); err == nil {
			if user, err := auth.Authenticate(c.Request.Context(), raw); err == nil {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

func setUser(c *gin.Context, user *models.User) {
	c.Set(constants.ContextKeyUser, user)
	c.Set(constants.ContextKeyUserID, user.ID)
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// CurrentUserID returns the authenticated user's ID, or nil for anonymous
// requests.
func CurrentUserID(c *gin.Context) *uint64 {
	if id, ok := GetUserID(c); ok {
		return &id
	}
	return nil
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
