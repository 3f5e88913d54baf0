package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/learnhub/internal/gateway/middleware"
	"github.com/learnhub/learnhub/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoute_MostSpecificPrefixWins(t *testing.T) {
	rp := NewReverseProxy(ConfigFromEnv("", "", "", ""))

	route := rp.findRoute("/api/v1/auth/me", http.MethodGet)
	require.NotNil(t, route)
	assert.True(t, route.RequireAuth)

	route = rp.findRoute("/api/v1/auth/login", http.MethodPost)
	require.NotNil(t, route)
	assert.False(t, route.RequireAuth)
}

func TestPublicRoutes_NestedProtectedPrefixBecomesExclusion(t *testing.T) {
	rp := NewReverseProxy(ConfigFromEnv("", "", "", ""))

	routes := rp.PublicRoutes()
	var authRoute *middleware.PublicRoute
	for i := range routes {
		if routes[i].Prefix == "/api/v1/auth" {
			authRoute = &routes[i]
		}
	}
	require.NotNil(t, authRoute)
	require.Len(t, authRoute.Exclusions, 1)
	assert.Equal(t, "/api/v1/auth/me", authRoute.Exclusions[0].Prefix)
}

func TestGateWithDerivedRoutes_ProfileRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rp := NewReverseProxy(ConfigFromEnv("", "", "", ""))
	codec := token.NewCodec("test-secret", "test")

	calls := 0
	router := gin.New()
	router.Use(middleware.AuthGate(&middleware.AuthGateConfig{
		Codec:        codec,
		PublicRoutes: rp.PublicRoutes(),
	}))
	router.NoRoute(func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	// Anonymous profile read is rejected at the gate
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, calls)

	// Login under the same prefix stays open
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, calls)

	// A verified token opens the profile route
	tok, err := codec.Issue("alice@example.com", []string{"STUDENT"}, time.Hour)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set(middleware.AuthorizationHeader, "Bearer "+tok)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, calls)
}
