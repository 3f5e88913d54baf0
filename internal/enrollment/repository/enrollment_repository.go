package repository

import (
	"context"

	"github.com/learnhub/learnhub/internal/enrollment/domain"
)

// EnrollmentRepository defines persistence operations for enrollments
type EnrollmentRepository interface {
	// Create inserts an enrollment. Returns domain.ErrAlreadyEnrolled
	// when the (student, course) pair already exists.
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	// GetByID returns nil when the enrollment does not exist
	GetByID(ctx context.Context, id string) (*domain.Enrollment, error)
	// GetByStudentAndCourse returns nil when no enrollment exists
	GetByStudentAndCourse(ctx context.Context, studentEmail, courseID string) (*domain.Enrollment, error)
	// ListByStudent retrieves all enrollments of a student
	ListByStudent(ctx context.Context, studentEmail string) ([]*domain.Enrollment, error)
	// UpdateProgress sets the progress of an enrollment
	UpdateProgress(ctx context.Context, id string, progress int) error
	// Delete removes an enrollment
	Delete(ctx context.Context, id string) error
}
