package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/learnhub/internal/catalog/domain"
	"github.com/learnhub/learnhub/internal/catalog/dto"
	"github.com/learnhub/learnhub/internal/catalog/service"
	"github.com/learnhub/learnhub/pkg/identity"
	"github.com/learnhub/learnhub/pkg/response"
)

// CourseHandler handles catalog HTTP requests
type CourseHandler struct {
	catalog service.CatalogService
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(catalog service.CatalogService) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

// RegisterRoutes mounts the catalog endpoints on the given group.
// Reads are public; writes require a teaching role.
func (h *CourseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	write := rg.Group("", identity.RequireRoles(identity.RoleProfessor, identity.RoleAdmin))
	write.POST("", h.Create)
	write.PUT("/:id", h.Update)
	write.DELETE("/:id", h.Delete)
	write.POST("/:id/lessons", h.AddLesson)
	write.DELETE("/:id/lessons/:lessonId", h.DeleteLesson)
}

// List handles course listing with search and pagination
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	var query dto.ListCoursesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.catalog.ListCourses(c.Request.Context(), &query)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Success(c, result)
}

// Get handles course detail retrieval
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	result, err := h.catalog.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			response.NotFound(c, "Course not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, result)
}

// Create handles course creation
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ident, _ := identity.FromContext(c)
	course, err := h.catalog.CreateCourse(c.Request.Context(), ident, &req)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	response.Created(c, course)
}

// Update handles course updates
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ident, _ := identity.FromContext(c)
	course, err := h.catalog.UpdateCourse(c.Request.Context(), ident, c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, course)
}

// Delete handles course deletion
// DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	ident, _ := identity.FromContext(c)
	if err := h.catalog.DeleteCourse(c.Request.Context(), ident, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	response.NoContent(c)
}

// AddLesson handles adding a lesson to a course
// POST /api/v1/courses/:id/lessons
func (h *CourseHandler) AddLesson(c *gin.Context) {
	var req dto.AddLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ident, _ := identity.FromContext(c)
	lesson, err := h.catalog.AddLesson(c.Request.Context(), ident, c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, lesson)
}

// DeleteLesson handles removing a lesson from a course
// DELETE /api/v1/courses/:id/lessons/:lessonId
func (h *CourseHandler) DeleteLesson(c *gin.Context) {
	ident, _ := identity.FromContext(c)
	if err := h.catalog.DeleteLesson(c.Request.Context(), ident, c.Param("id"), c.Param("lessonId")); err != nil {
		h.writeError(c, err)
		return
	}

	response.NoContent(c)
}

func (h *CourseHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCourseNotFound):
		response.NotFound(c, "Course not found")
	case errors.Is(err, domain.ErrLessonNotFound):
		response.NotFound(c, "Lesson not found")
	case errors.Is(err, domain.ErrNotCourseOwner):
		response.Forbidden(c, "Only the course owner may modify it")
	default:
		response.InternalError(c, err)
	}
}
