package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/learnhub/internal/stats/domain"
	"github.com/learnhub/learnhub/internal/stats/service"
	"github.com/learnhub/learnhub/pkg/identity"
	"github.com/learnhub/learnhub/pkg/response"
)

// StatsHandler handles video statistics HTTP requests
type StatsHandler struct {
	stats service.StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(stats service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// RegisterRoutes mounts the statistics endpoints on the given group.
// Refreshing hits the external API, so it is limited to teaching roles.
func (h *StatsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(identity.Required())
	rg.GET("/videos/:videoId", h.GetLatest)
	rg.GET("/courses/:courseId", h.ListByCourse)
	rg.GET("/search", h.Search)
	rg.POST("/videos/:videoId/refresh",
		identity.RequireRoles(identity.RoleProfessor, identity.RoleAdmin),
		h.Refresh,
	)
}

// Refresh fetches live counters and stores a snapshot
// POST /api/v1/statistics/videos/:videoId/refresh
func (h *StatsHandler) Refresh(c *gin.Context) {
	courseID := c.Query("course_id")
	stats, err := h.stats.RefreshVideoStats(c.Request.Context(), c.Param("videoId"), courseID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, stats)
}

// GetLatest returns the most recent stored snapshot for a video
// GET /api/v1/statistics/videos/:videoId
func (h *StatsHandler) GetLatest(c *gin.Context) {
	stats, err := h.stats.GetLatestByVideo(c.Request.Context(), c.Param("videoId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, stats)
}

// ListByCourse returns the latest snapshot per video of a course
// GET /api/v1/statistics/courses/:courseId
func (h *StatsHandler) ListByCourse(c *gin.Context) {
	stats, err := h.stats.ListByCourse(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, stats)
}

// Search finds snapshots by title
// GET /api/v1/statistics/search?q=...&limit=20
func (h *StatsHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "query parameter q is required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	stats, err := h.stats.Search(c.Request.Context(), q, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, stats)
}

func (h *StatsHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrVideoNotFound):
		response.NotFound(c, "Video not found")
	case errors.Is(err, domain.ErrStatisticsNotFound):
		response.NotFound(c, "No statistics recorded for this video")
	case errors.Is(err, domain.ErrVideoAPIUnavailable):
		response.ServiceUnavailable(c, "VIDEO_API_UNAVAILABLE", "Video platform unavailable")
	default:
		response.InternalError(c, err)
	}
}
