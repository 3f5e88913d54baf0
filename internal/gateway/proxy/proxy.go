package proxy

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/learnhub/internal/gateway/middleware"
	"github.com/learnhub/learnhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ServiceConfig holds configuration for a backend service
type ServiceConfig struct {
	Name    string
	BaseURL string
	Timeout time.Duration
}

// RouteConfig holds configuration for a route
type RouteConfig struct {
	// PathPrefix is the prefix that triggers this route (e.g., "/api/v1/auth")
	PathPrefix string
	// Service is the target backend service
	Service ServiceConfig
	// RequireAuth indicates if the auth gate must have verified a token
	RequireAuth bool
	// AllowedMethods restricts which HTTP methods match this route (empty = all)
	AllowedMethods []string
}

// Config holds the overall proxy configuration
type Config struct {
	Routes         []RouteConfig
	DefaultTimeout time.Duration
}

// ReverseProxy routes requests to backend services
type ReverseProxy struct {
	config  Config
	proxies map[string]*httputil.ReverseProxy
	mu      sync.RWMutex
	client  *http.Client
}

// NewReverseProxy creates a new reverse proxy instance
func NewReverseProxy(config Config) *ReverseProxy {
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = 30 * time.Second
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          1000,
		MaxIdleConnsPerHost:   1000,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	rp := &ReverseProxy{
		config:  config,
		proxies: make(map[string]*httputil.ReverseProxy),
		client: &http.Client{
			Transport: transport,
			Timeout:   config.DefaultTimeout,
		},
	}

	for _, route := range config.Routes {
		if _, exists := rp.proxies[route.Service.Name]; !exists {
			rp.initProxy(route.Service)
		}
	}

	return rp
}

// initProxy initializes a reverse proxy for a service
func (rp *ReverseProxy) initProxy(service ServiceConfig) {
	targetURL, err := url.Parse(service.BaseURL)
	if err != nil {
		return
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)
	proxy.Transport = rp.client.Transport

	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = targetURL.Host
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		w.Header().Set("Content-Type", "application/json")
		if isTimeoutError(err) {
			w.WriteHeader(http.StatusGatewayTimeout)
			io.WriteString(w, `{"success":false,"error":{"code":"GATEWAY_TIMEOUT","message":"Backend service timed out"}}`)
		} else {
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, `{"success":false,"error":{"code":"BAD_GATEWAY","message":"Backend service unavailable"}}`)
		}
	}

	proxy.ModifyResponse = func(resp *http.Response) error {
		resp.Header.Set("X-Proxied-By", "gateway")
		return nil
	}

	rp.mu.Lock()
	rp.proxies[service.Name] = proxy
	rp.mu.Unlock()
}

// findRoute finds the matching route for a request
func (rp *ReverseProxy) findRoute(path, method string) *RouteConfig {
	for i, route := range rp.config.Routes {
		if strings.HasPrefix(path, route.PathPrefix) {
			if len(route.AllowedMethods) > 0 {
				allowed := false
				for _, m := range route.AllowedMethods {
					if strings.EqualFold(m, method) {
						allowed = true
						break
					}
				}
				if !allowed {
					continue
				}
			}
			return &rp.config.Routes[i]
		}
	}
	return nil
}

// Handler returns a Gin handler for proxying requests
func (rp *ReverseProxy) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "gateway.proxy")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.path", c.Request.URL.Path),
		)

		route := rp.findRoute(c.Request.URL.Path, c.Request.Method)
		if route == nil {
			span.SetStatus(codes.Error, "No route configured for this path")
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ROUTE_NOT_FOUND",
					"message": "No route configured for this path",
				},
			})
			c.Abort()
			return
		}

		span.SetAttributes(attribute.String("target.service", route.Service.Name))

		rp.mu.RLock()
		proxy, exists := rp.proxies[route.Service.Name]
		rp.mu.RUnlock()

		if !exists {
			span.SetStatus(codes.Error, "Backend service not configured")
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SERVICE_NOT_CONFIGURED",
					"message": "Backend service not configured",
				},
			})
			c.Abort()
			return
		}

		// Forward the request ID for cross-service correlation
		if requestID := middleware.GetRequestID(c); requestID != "" {
			c.Request.Header.Set(middleware.RequestIDHeader, requestID)
		}

		timeout := route.Service.Timeout
		if timeout == 0 {
			timeout = rp.config.DefaultTimeout
		}
		timeoutCtx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(timeoutCtx)

		span.SetStatus(codes.Ok, "")

		func() {
			defer func() {
				if r := recover(); r != nil {
					span.SetStatus(codes.Error, fmt.Sprintf("panic: %v", r))
					span.RecordError(fmt.Errorf("panic: %v", r))
				}
			}()
			proxy.ServeHTTP(c.Writer, c.Request)
		}()
	}
}

// PublicRoutes returns the allow-list of routes that bypass the auth gate.
// A protected route nested under a public prefix becomes an exclusion, so
// /api/v1/auth/me stays gated even though /api/v1/auth is open.
func (rp *ReverseProxy) PublicRoutes() []middleware.PublicRoute {
	var routes []middleware.PublicRoute
	for _, r := range rp.config.Routes {
		if r.RequireAuth {
			continue
		}
		pub := middleware.PublicRoute{
			Prefix:  r.PathPrefix,
			Methods: r.AllowedMethods,
		}
		for _, p := range rp.config.Routes {
			if p.RequireAuth && len(p.PathPrefix) > len(r.PathPrefix) && strings.HasPrefix(p.PathPrefix, r.PathPrefix) {
				pub.Exclusions = append(pub.Exclusions, middleware.PublicRoute{
					Prefix:  p.PathPrefix,
					Methods: p.AllowedMethods,
				})
			}
		}
		routes = append(routes, pub)
	}
	return routes
}

// HealthCheck checks if all backend services are reachable
func (rp *ReverseProxy) HealthCheck(ctx context.Context) map[string]bool {
	results := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup

	services := make(map[string]ServiceConfig)
	for _, route := range rp.config.Routes {
		services[route.Service.Name] = route.Service
	}

	for name, service := range services {
		wg.Add(1)
		go func(name string, service ServiceConfig) {
			defer wg.Done()

			healthURL := fmt.Sprintf("%s/health", service.BaseURL)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
			if err != nil {
				mu.Lock()
				results[name] = false
				mu.Unlock()
				return
			}

			resp, err := rp.client.Do(req)
			if err != nil {
				mu.Lock()
				results[name] = false
				mu.Unlock()
				return
			}
			defer resp.Body.Close()

			mu.Lock()
			results[name] = resp.StatusCode == http.StatusOK
			mu.Unlock()
		}(name, service)
	}

	wg.Wait()
	return results
}

// isTimeoutError checks if error is a timeout
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return true
	}
	if err == context.DeadlineExceeded {
		return true
	}
	return strings.Contains(err.Error(), "timeout")
}

// ConfigFromEnv creates proxy config for the platform services
func ConfigFromEnv(authURL, catalogURL, enrollmentURL, statsURL string) Config {
	if authURL == "" {
		authURL = "http://localhost:8081"
	}
	if catalogURL == "" {
		catalogURL = "http://localhost:8082"
	}
	if enrollmentURL == "" {
		enrollmentURL = "http://localhost:8083"
	}
	if statsURL == "" {
		statsURL = "http://localhost:8084"
	}

	return Config{
		DefaultTimeout: 30 * time.Second,
		Routes: []RouteConfig{
			// Auth endpoints (login, register, google, refresh) are public;
			// profile endpoints under /me are protected
			{
				PathPrefix: "/api/v1/auth/me",
				Service: ServiceConfig{
					Name:    "auth-service",
					BaseURL: authURL,
					Timeout: 10 * time.Second,
				},
				RequireAuth: true,
			},
			{
				PathPrefix: "/api/v1/auth",
				Service: ServiceConfig{
					Name:    "auth-service",
					BaseURL: authURL,
					Timeout: 10 * time.Second,
				},
				RequireAuth: false,
			},
			// Catalog browsing is public, writes are protected
			{
				PathPrefix: "/api/v1/courses",
				Service: ServiceConfig{
					Name:    "catalog-service",
					BaseURL: catalogURL,
					Timeout: 15 * time.Second,
				},
				RequireAuth:    false,
				AllowedMethods: []string{"GET"},
			},
			{
				PathPrefix: "/api/v1/courses",
				Service: ServiceConfig{
					Name:    "catalog-service",
					BaseURL: catalogURL,
					Timeout: 15 * time.Second,
				},
				RequireAuth:    true,
				AllowedMethods: []string{"POST", "PUT", "DELETE", "PATCH"},
			},
			// Enrollments are always protected
			{
				PathPrefix: "/api/v1/enrollments",
				Service: ServiceConfig{
					Name:    "enrollment-service",
					BaseURL: enrollmentURL,
					Timeout: 30 * time.Second,
				},
				RequireAuth: true,
			},
			// Video statistics are protected
			{
				PathPrefix: "/api/v1/statistics",
				Service: ServiceConfig{
					Name:    "stats-service",
					BaseURL: statsURL,
					Timeout: 20 * time.Second,
				},
				RequireAuth: true,
			},
		},
	}
}
