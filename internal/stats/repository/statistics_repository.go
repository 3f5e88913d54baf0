package repository

import (
	"context"

	"github.com/learnhub/learnhub/internal/stats/domain"
)

// StatisticsRepository defines persistence operations for snapshots
type StatisticsRepository interface {
	// Save inserts a new snapshot
	Save(ctx context.Context, stats *domain.VideoStatistics) error
	// GetLatestByVideo returns the most recent snapshot for a video,
	// nil when none exists
	GetLatestByVideo(ctx context.Context, videoID string) (*domain.VideoStatistics, error)
	// ListByCourse retrieves the latest snapshot per video of a course
	ListByCourse(ctx context.Context, courseID string) ([]*domain.VideoStatistics, error)
	// Search retrieves snapshots whose title matches the query
	Search(ctx context.Context, titleQuery string, limit int) ([]*domain.VideoStatistics, error)
}
