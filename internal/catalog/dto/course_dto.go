package dto

// CreateCourseRequest is the payload for creating a course
type CreateCourseRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"gte=0"`
	Published   bool    `json:"published"`
}

// UpdateCourseRequest is the payload for updating a course
type UpdateCourseRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Published   *bool    `json:"published"`
}

// AddLessonRequest is the payload for adding a lesson to a course
type AddLessonRequest struct {
	Title    string `json:"title" binding:"required"`
	VideoID  string `json:"video_id" binding:"required"`
	Position int    `json:"position"`
}

// ListCoursesQuery carries list filters and pagination
type ListCoursesQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
}

// Normalize clamps pagination to sane bounds
func (q *ListCoursesQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}
}

// Offset returns the SQL offset for the query
func (q *ListCoursesQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
