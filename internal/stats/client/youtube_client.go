package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/learnhub/learnhub/internal/stats/domain"
	"github.com/learnhub/learnhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// VideoSnapshot is what the platform reports for a video right now
type VideoSnapshot struct {
	VideoID      string
	Title        string
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// VideoStatsClient fetches live statistics for a video
type VideoStatsClient interface {
	// FetchVideoStats returns domain.ErrVideoNotFound for unknown IDs
	// and domain.ErrVideoAPIUnavailable when the platform cannot answer
	FetchVideoStats(ctx context.Context, videoID string) (*VideoSnapshot, error)
}

// YouTubeClientConfig holds settings for the YouTube Data API client
type YouTubeClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type youtubeClient struct {
	config YouTubeClientConfig
	client *http.Client
}

// NewYouTubeClient creates a VideoStatsClient backed by the YouTube
// Data API v3
func NewYouTubeClient(cfg YouTubeClientConfig) VideoStatsClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &youtubeClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type videoListResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (c *youtubeClient) FetchVideoStats(ctx context.Context, videoID string) (*VideoSnapshot, error) {
	ctx, span := telemetry.StartSpan(ctx, "client.youtube.fetch_video_stats")
	defer span.End()

	span.SetAttributes(attribute.String("video_id", videoID))

	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", videoID)
	params.Set("key", c.config.APIKey)
	endpoint := c.config.BaseURL + "/videos?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "video API unreachable")
		return nil, domain.ErrVideoAPIUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, "video API answered with an error")
		return nil, domain.ErrVideoAPIUnavailable
	}

	var list videoListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed video API response")
		return nil, domain.ErrVideoAPIUnavailable
	}

	// The API answers 200 with an empty items list for unknown IDs
	if len(list.Items) == 0 {
		span.SetStatus(codes.Error, "video not found")
		return nil, domain.ErrVideoNotFound
	}

	item := list.Items[0]
	snapshot := &VideoSnapshot{
		VideoID:      item.ID,
		Title:        item.Snippet.Title,
		ViewCount:    parseCount(item.Statistics.ViewCount),
		LikeCount:    parseCount(item.Statistics.LikeCount),
		CommentCount: parseCount(item.Statistics.CommentCount),
	}

	span.SetStatus(codes.Ok, "")
	return snapshot, nil
}

// parseCount tolerates missing counters, which the API omits for
// videos that hide them
func parseCount(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
