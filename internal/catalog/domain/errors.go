package domain

import "errors"

var (
	// ErrCourseNotFound is returned when a course does not exist
	ErrCourseNotFound = errors.New("course not found")
	// ErrLessonNotFound is returned when a lesson does not exist
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrNotCourseOwner is returned when a professor modifies a course
	// they do not own
	ErrNotCourseOwner = errors.New("not the course owner")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrCourseNotFound) || errors.Is(err, ErrLessonNotFound)
}
