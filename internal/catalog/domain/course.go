package domain

import "time"

// Course is a published unit of teaching in the catalog
type Course struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Price          float64   `json:"price"`
	ProfessorEmail string    `json:"professor_email"`
	Published      bool      `json:"published"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Lesson is a single video lesson inside a course
type Lesson struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Title     string    `json:"title"`
	VideoID   string    `json:"video_id"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
