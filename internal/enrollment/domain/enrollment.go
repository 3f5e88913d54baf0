package domain

import "time"

// Progress bounds, inclusive
const (
	MinProgress = 0
	MaxProgress = 100
)

// Enrollment links a student to a course
type Enrollment struct {
	ID           string    `json:"id"`
	StudentEmail string    `json:"student_email"`
	CourseID     string    `json:"course_id"`
	Progress     int       `json:"progress"`
	EnrolledAt   time.Time `json:"enrolled_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidProgress reports whether p is inside the allowed range
func ValidProgress(p int) bool {
	return p >= MinProgress && p <= MaxProgress
}

// Enrollment event types
type EventType string

const (
	EventEnrollmentCreated   EventType = "enrollment.created"
	EventEnrollmentCancelled EventType = "enrollment.cancelled"
)

// EnrollmentEvent is the payload published on enrollment changes
type EnrollmentEvent struct {
	EventID      string    `json:"event_id"`
	EventType    EventType `json:"event_type"`
	EnrollmentID string    `json:"enrollment_id"`
	StudentEmail string    `json:"student_email"`
	CourseID     string    `json:"course_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// Key returns the partition key for the event
func (e *EnrollmentEvent) Key() string {
	return e.StudentEmail
}
