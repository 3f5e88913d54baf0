package dto

// EnrollRequest is the payload for enrolling in a course
type EnrollRequest struct {
	CourseID string `json:"course_id" binding:"required"`
}

// UpdateProgressRequest is the payload for recording progress
type UpdateProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// CourseSummary is the catalog detail attached to an enrollment view
type CourseSummary struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// EnrollmentView is an enrollment enriched with catalog detail.
// Course is nil when the catalog could not answer for that entry.
type EnrollmentView struct {
	ID           string         `json:"id"`
	StudentEmail string         `json:"student_email"`
	CourseID     string         `json:"course_id"`
	Progress     int            `json:"progress"`
	EnrolledAt   string         `json:"enrolled_at"`
	Course       *CourseSummary `json:"course,omitempty"`
}
