package domain

import "errors"

var (
	// ErrStudentNotFound is returned when the student has no account
	ErrStudentNotFound = errors.New("student not found")
	// ErrCourseNotFound is returned when the course does not exist in
	// the catalog
	ErrCourseNotFound = errors.New("course not found")
	// ErrAlreadyEnrolled is returned when the student already holds an
	// enrollment for the course
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	// ErrEnrollmentNotFound is returned when an enrollment does not exist
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrInvalidProgress is returned when progress is outside [0,100]
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	// ErrNotEnrollmentOwner is returned when a student touches an
	// enrollment that is not theirs
	ErrNotEnrollmentOwner = errors.New("not the enrollment owner")
	// ErrCatalogUnavailable is returned when the catalog cannot answer
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrDirectoryUnavailable is returned when the account directory
	// cannot answer
	ErrDirectoryUnavailable = errors.New("account directory unavailable")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyEnrolled)
}

func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrCatalogUnavailable) || errors.Is(err, ErrDirectoryUnavailable)
}
