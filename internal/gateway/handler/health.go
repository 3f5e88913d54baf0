package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/learnhub/internal/gateway/proxy"
)

// HealthHandler reports gateway and backend health
type HealthHandler struct {
	proxy *proxy.ReverseProxy
}

func NewHealthHandler(p *proxy.ReverseProxy) *HealthHandler {
	return &HealthHandler{proxy: p}
}

// Liveness reports that the gateway process itself is up
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "gateway",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Readiness fans out to the backend services and reports each one
func (h *HealthHandler) Readiness(c *gin.Context) {
	results := h.proxy.HealthCheck(c.Request.Context())

	allHealthy := true
	for _, healthy := range results {
		if !healthy {
			allHealthy = false
			break
		}
	}

	status := http.StatusOK
	overall := "ok"
	if !allHealthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"services":  results,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
