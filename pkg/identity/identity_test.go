package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_ExtractsIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got *Identity
	router := gin.New()
	router.Use(Middleware())
	router.GET("/x", func(c *gin.Context) {
		got, _ = FromContext(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(UserEmailHeader, "alice@example.com")
	req.Header.Set(UserRolesHeader, "STUDENT, PROFESSOR")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, got)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, []string{"STUDENT", "PROFESSOR"}, got.Roles)
	assert.True(t, got.HasRole(RoleProfessor))
	assert.False(t, got.HasRole(RoleAdmin))
}

func TestRequired_RejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Middleware(), Required())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Middleware())
	router.DELETE("/x", RequireRoles(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Wrong role
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/x", nil)
	req.Header.Set(UserEmailHeader, "bob@example.com")
	req.Header.Set(UserRolesHeader, "STUDENT")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Matching role
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/x", nil)
	req.Header.Set(UserEmailHeader, "root@example.com")
	req.Header.Set(UserRolesHeader, "ADMIN")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
