// Package identity reads the authenticated caller identity that the
// gateway forwards on trusted headers. Services behind the gateway
// never see raw tokens; the gateway strips inbound identity headers
// and sets these only after verification.
package identity

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/learnhub/pkg/response"
)

const (
	// UserEmailHeader carries the verified subject set by the gateway
	UserEmailHeader = "X-User-Email"
	// UserRolesHeader carries the verified roles, comma separated
	UserRolesHeader = "X-User-Roles"

	contextKeyEmail = "identity_email"
	contextKeyRoles = "identity_roles"
)

// Known role names
const (
	RoleStudent   = "STUDENT"
	RoleProfessor = "PROFESSOR"
	RoleAdmin     = "ADMIN"
)

// Identity is the authenticated caller as asserted by the gateway
type Identity struct {
	Email string
	Roles []string
}

// HasRole reports whether the caller carries the given role
func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the caller carries at least one of the roles
func (i *Identity) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if i.HasRole(role) {
			return true
		}
	}
	return false
}

// Middleware extracts the caller identity from the gateway headers
// into the request context. It does not reject anonymous requests;
// use Required or RequireRoles on protected handler groups.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader(UserEmailHeader)
		if email != "" {
			c.Set(contextKeyEmail, email)
			if raw := c.GetHeader(UserRolesHeader); raw != "" {
				roles := strings.Split(raw, ",")
				for i := range roles {
					roles[i] = strings.TrimSpace(roles[i])
				}
				c.Set(contextKeyRoles, roles)
			}
		}
		c.Next()
	}
}

// Required rejects requests that carry no caller identity
func Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := FromContext(c); !ok {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles rejects callers that hold none of the given roles
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := FromContext(c)
		if !ok {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if !ident.HasAnyRole(roles...) {
			response.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// FromContext returns the caller identity, if any
func FromContext(c *gin.Context) (*Identity, bool) {
	email, exists := c.Get(contextKeyEmail)
	if !exists {
		return nil, false
	}
	ident := &Identity{Email: email.(string)}
	if roles, ok := c.Get(contextKeyRoles); ok {
		ident.Roles = roles.([]string)
	}
	return ident, true
}
