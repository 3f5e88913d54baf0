package repository

import (
	"context"

	"github.com/learnhub/learnhub/internal/catalog/domain"
)

// CourseFilter carries optional list filters
type CourseFilter struct {
	Search   string
	Category string
}

// CourseRepository defines persistence operations for courses
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	// GetByID returns nil when the course does not exist
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, filter *CourseFilter, limit, offset int) ([]*domain.Course, int, error)
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
}

// LessonRepository defines persistence operations for lessons
type LessonRepository interface {
	Create(ctx context.Context, lesson *domain.Lesson) error
	ListByCourse(ctx context.Context, courseID string) ([]*domain.Lesson, error)
	Delete(ctx context.Context, id string) error
}
