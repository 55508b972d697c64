package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jwwei/user-center/internal/auth"
	"github.com/jwwei/user-center/internal/user/model"
)

// ContextUserKey is the gin context key holding the authenticated user.
const ContextUserKey = "auth_user"

// TokenParser extracts the subject user id from a signed identity token.
type TokenParser interface {
	Parse(token string) (string, error)
}

// SessionChecker verifies that a server-side session is still live.
type SessionChecker interface {
	Get(ctx context.Context, userID string) (*model.UserInfo, error)
}

// UserLoader loads a user by id.
type UserLoader interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
}

// Auth returns middleware that authenticates requests by bearer token.
// The user is reloaded from the database on every request so profile and
// status changes take effect without re-login; the session entry in redis
// must still be live for the token to count.
func Auth(tokens TokenParser, sessions SessionChecker, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authenticate(c, tokens, sessions)
		if !ok {
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			abortUnauthorized(c, "login required")
			return
		}
		if user.Status == model.StatusBanned {
			abortUnauthorized(c, "account is banned")
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// OptionalAuth returns middleware that resolves the caller when a valid
// bearer token is presented but never rejects the request. Routes behind
// it serve anonymous callers; handlers see the user only when the whole
// chain (token, session, account) checks out.
func OptionalAuth(tokens TokenParser, sessions SessionChecker, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.Next()
			return
		}

		userID, err := tokens.Parse(token)
		if err != nil {
			c.Next()
			return
		}
		if _, err := sessions.Get(c.Request.Context(), userID); err != nil {
			c.Next()
			return
		}
		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil || user.Status == model.StatusBanned {
			c.Next()
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// AdminOnly returns middleware that rejects non-admin users.
// It must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c, "login required")
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "FORBIDDEN", "message": "admin access required"},
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by Auth.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

func authenticate(c *gin.Context, tokens TokenParser, sessions SessionChecker) (string, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		abortUnauthorized(c, "login required")
		return "", false
	}

	userID, err := tokens.Parse(token)
	if err != nil {
		abortUnauthorized(c, "invalid token")
		return "", false
	}

	if _, err := sessions.Get(c.Request.Context(), userID); err != nil {
		if errors.Is(err, auth.ErrNoSession) {
			abortUnauthorized(c, "session expired")
			return "", false
		}
		abortUnauthorized(c, "login required")
		return "", false
	}

	return userID, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "UNAUTHORIZED", "message": message},
	})
}
