package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/learnhub/learnhub/internal/stats/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchVideoStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [{
				"id": "abc123",
				"snippet": {"title": "Intro to Go"},
				"statistics": {"viewCount": "1500", "likeCount": "120", "commentCount": "7"}
			}]
		}`))
	}))
	defer srv.Close()

	c := NewYouTubeClient(YouTubeClientConfig{APIKey: "test-key", BaseURL: srv.URL})

	snapshot, err := c.FetchVideoStats(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Intro to Go", snapshot.Title)
	assert.Equal(t, int64(1500), snapshot.ViewCount)
	assert.Equal(t, int64(120), snapshot.LikeCount)
	assert.Equal(t, int64(7), snapshot.CommentCount)
}

func TestFetchVideoStats_UnknownVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	c := NewYouTubeClient(YouTubeClientConfig{APIKey: "test-key", BaseURL: srv.URL})

	_, err := c.FetchVideoStats(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrVideoNotFound)
}

func TestFetchVideoStats_QuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"errors": [{"reason": "quotaExceeded"}]}}`))
	}))
	defer srv.Close()

	c := NewYouTubeClient(YouTubeClientConfig{APIKey: "test-key", BaseURL: srv.URL})

	_, err := c.FetchVideoStats(context.Background(), "abc123")
	assert.ErrorIs(t, err, domain.ErrVideoAPIUnavailable)
}

func TestFetchVideoStats_HiddenCountersDefaultToZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"items": [{
				"id": "abc123",
				"snippet": {"title": "No likes shown"},
				"statistics": {"viewCount": "42"}
			}]
		}`))
	}))
	defer srv.Close()

	c := NewYouTubeClient(YouTubeClientConfig{APIKey: "test-key", BaseURL: srv.URL})

	snapshot, err := c.FetchVideoStats(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, int64(42), snapshot.ViewCount)
	assert.Zero(t, snapshot.LikeCount)
	assert.Zero(t, snapshot.CommentCount)
}
