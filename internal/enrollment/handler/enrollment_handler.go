package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/learnhub/learnhub/internal/enrollment/domain"
	"github.com/learnhub/learnhub/internal/enrollment/dto"
	"github.com/learnhub/learnhub/internal/enrollment/service"
	"github.com/learnhub/learnhub/pkg/identity"
	"github.com/learnhub/learnhub/pkg/response"
)

// EnrollmentHandler handles enrollment HTTP requests
type EnrollmentHandler struct {
	enrollments service.EnrollmentService
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(enrollments service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// RegisterRoutes mounts the enrollment endpoints on the given group.
// All of them act on the authenticated caller's own enrollments.
func (h *EnrollmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Use(identity.Required())
	rg.POST("", h.Enroll)
	rg.GET("", h.List)
	rg.PATCH("/:id/progress", h.UpdateProgress)
	rg.DELETE("/:id", h.Unenroll)
}

// Enroll handles enrolling the caller in a course
// POST /api/v1/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ident, _ := identity.FromContext(c)
	enrollment, err := h.enrollments.Enroll(c.Request.Context(), ident.Email, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, enrollment)
}

// List handles listing the caller's enrollments
// GET /api/v1/enrollments
func (h *EnrollmentHandler) List(c *gin.Context) {
	ident, _ := identity.FromContext(c)
	views, err := h.enrollments.GetStudentEnrollments(c.Request.Context(), ident.Email)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, views)
}

// UpdateProgress handles recording course progress
// PATCH /api/v1/enrollments/:id/progress
func (h *EnrollmentHandler) UpdateProgress(c *gin.Context) {
	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ident, _ := identity.FromContext(c)
	enrollment, err := h.enrollments.UpdateProgress(c.Request.Context(), ident.Email, c.Param("id"), *req.Progress)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, enrollment)
}

// Unenroll handles cancelling an enrollment
// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	ident, _ := identity.FromContext(c)
	if err := h.enrollments.Unenroll(c.Request.Context(), ident.Email, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}

	response.NoContent(c)
}

func (h *EnrollmentHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrStudentNotFound):
		response.NotFound(c, "Student account not found")
	case errors.Is(err, domain.ErrCourseNotFound):
		response.NotFound(c, "Course not found")
	case errors.Is(err, domain.ErrEnrollmentNotFound):
		response.NotFound(c, "Enrollment not found")
	case errors.Is(err, domain.ErrAlreadyEnrolled):
		response.Conflict(c, "ALREADY_ENROLLED", "Already enrolled in this course")
	case errors.Is(err, domain.ErrInvalidProgress):
		response.BadRequest(c, "Progress must be between 0 and 100")
	case errors.Is(err, domain.ErrNotEnrollmentOwner):
		response.Forbidden(c, "Not your enrollment")
	case domain.IsUpstreamError(err):
		response.ServiceUnavailable(c, "UPSTREAM_UNAVAILABLE", "A required service is unavailable")
	default:
		response.InternalError(c, err)
	}
}
