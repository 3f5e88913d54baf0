package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/learnhub/learnhub/internal/stats/client"
	"github.com/learnhub/learnhub/internal/stats/domain"
	"github.com/learnhub/learnhub/internal/stats/repository"
	"github.com/learnhub/learnhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// StatsService defines video statistics operations
type StatsService interface {
	// RefreshVideoStats fetches live counters for a video and stores
	// a snapshot tagged with the course
	RefreshVideoStats(ctx context.Context, videoID, courseID string) (*domain.VideoStatistics, error)
	// GetLatestByVideo returns the most recent stored snapshot
	GetLatestByVideo(ctx context.Context, videoID string) (*domain.VideoStatistics, error)
	// ListByCourse returns the latest snapshot per video of a course
	ListByCourse(ctx context.Context, courseID string) ([]*domain.VideoStatistics, error)
	// Search finds snapshots by title
	Search(ctx context.Context, titleQuery string, limit int) ([]*domain.VideoStatistics, error)
}

type statsService struct {
	repo   repository.StatisticsRepository
	videos client.VideoStatsClient
}

// NewStatsService creates a new StatsService
func NewStatsService(repo repository.StatisticsRepository, videos client.VideoStatsClient) StatsService {
	return &statsService{repo: repo, videos: videos}
}

func (s *statsService) RefreshVideoStats(ctx context.Context, videoID, courseID string) (*domain.VideoStatistics, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.stats.refresh_video")
	defer span.End()

	span.SetAttributes(
		attribute.String("video_id", videoID),
		attribute.String("course_id", courseID),
	)

	snapshot, err := s.videos.FetchVideoStats(ctx, videoID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	stats := &domain.VideoStatistics{
		ID:           uuid.New().String(),
		VideoID:      snapshot.VideoID,
		CourseID:     courseID,
		Title:        snapshot.Title,
		ViewCount:    snapshot.ViewCount,
		LikeCount:    snapshot.LikeCount,
		CommentCount: snapshot.CommentCount,
		FetchedAt:    time.Now(),
	}

	if err := s.repo.Save(ctx, stats); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return stats, nil
}

func (s *statsService) GetLatestByVideo(ctx context.Context, videoID string) (*domain.VideoStatistics, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.stats.get_latest")
	defer span.End()

	span.SetAttributes(attribute.String("video_id", videoID))

	stats, err := s.repo.GetLatestByVideo(ctx, videoID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if stats == nil {
		span.SetStatus(codes.Error, "no snapshot")
		return nil, domain.ErrStatisticsNotFound
	}

	span.SetStatus(codes.Ok, "")
	return stats, nil
}

func (s *statsService) ListByCourse(ctx context.Context, courseID string) ([]*domain.VideoStatistics, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.stats.list_by_course")
	defer span.End()

	span.SetAttributes(attribute.String("course_id", courseID))

	stats, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return stats, nil
}

func (s *statsService) Search(ctx context.Context, titleQuery string, limit int) ([]*domain.VideoStatistics, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.stats.search")
	defer span.End()

	if limit < 1 || limit > 100 {
		limit = 20
	}

	stats, err := s.repo.Search(ctx, titleQuery, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return stats, nil
}
