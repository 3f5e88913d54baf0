package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learnhub/learnhub/internal/stats/domain"
)

// PostgresStatisticsRepository implements StatisticsRepository using PostgreSQL
type PostgresStatisticsRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresStatisticsRepository creates a new PostgresStatisticsRepository
func NewPostgresStatisticsRepository(pool *pgxpool.Pool) *PostgresStatisticsRepository {
	return &PostgresStatisticsRepository{pool: pool}
}

// Save inserts a new snapshot
func (r *PostgresStatisticsRepository) Save(ctx context.Context, stats *domain.VideoStatistics) error {
	query := `
		INSERT INTO video_statistics (id, video_id, course_id, title, view_count, like_count, comment_count, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		stats.ID,
		stats.VideoID,
		stats.CourseID,
		stats.Title,
		stats.ViewCount,
		stats.LikeCount,
		stats.CommentCount,
		stats.FetchedAt,
	)
	return err
}

// GetLatestByVideo returns the most recent snapshot for a video
func (r *PostgresStatisticsRepository) GetLatestByVideo(ctx context.Context, videoID string) (*domain.VideoStatistics, error) {
	query := `
		SELECT id, video_id, course_id, title, view_count, like_count, comment_count, fetched_at
		FROM video_statistics
		WHERE video_id = $1
		ORDER BY fetched_at DESC
		LIMIT 1
	`
	stats := &domain.VideoStatistics{}
	err := r.pool.QueryRow(ctx, query, videoID).Scan(
		&stats.ID,
		&stats.VideoID,
		&stats.CourseID,
		&stats.Title,
		&stats.ViewCount,
		&stats.LikeCount,
		&stats.CommentCount,
		&stats.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return stats, nil
}

// ListByCourse retrieves the latest snapshot per video of a course
func (r *PostgresStatisticsRepository) ListByCourse(ctx context.Context, courseID string) ([]*domain.VideoStatistics, error) {
	query := `
		SELECT DISTINCT ON (video_id)
			id, video_id, course_id, title, view_count, like_count, comment_count, fetched_at
		FROM video_statistics
		WHERE course_id = $1
		ORDER BY video_id, fetched_at DESC
	`
	return r.queryMany(ctx, query, courseID)
}

// Search retrieves snapshots whose title matches the query
func (r *PostgresStatisticsRepository) Search(ctx context.Context, titleQuery string, limit int) ([]*domain.VideoStatistics, error) {
	query := `
		SELECT DISTINCT ON (video_id)
			id, video_id, course_id, title, view_count, like_count, comment_count, fetched_at
		FROM video_statistics
		WHERE title ILIKE $1
		ORDER BY video_id, fetched_at DESC
		LIMIT $2
	`
	return r.queryMany(ctx, query, "%"+titleQuery+"%", limit)
}

func (r *PostgresStatisticsRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*domain.VideoStatistics, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.VideoStatistics
	for rows.Next() {
		stats := &domain.VideoStatistics{}
		if err := rows.Scan(
			&stats.ID,
			&stats.VideoID,
			&stats.CourseID,
			&stats.Title,
			&stats.ViewCount,
			&stats.LikeCount,
			&stats.CommentCount,
			&stats.FetchedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, stats)
	}
	return result, rows.Err()
}
