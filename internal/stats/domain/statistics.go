package domain

import (
	"errors"
	"time"
)

// VideoStatistics is a point-in-time snapshot of a video's counters
type VideoStatistics struct {
	ID           string    `json:"id"`
	VideoID      string    `json:"video_id"`
	CourseID     string    `json:"course_id"`
	Title        string    `json:"title"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
	FetchedAt    time.Time `json:"fetched_at"`
}

var (
	// ErrVideoNotFound is returned when the video does not exist on
	// the platform
	ErrVideoNotFound = errors.New("video not found")
	// ErrStatisticsNotFound is returned when no snapshot exists
	ErrStatisticsNotFound = errors.New("statistics not found")
	// ErrVideoAPIUnavailable is returned when the video platform
	// cannot answer
	ErrVideoAPIUnavailable = errors.New("video API unavailable")
)
