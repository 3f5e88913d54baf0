package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/learnhub/learnhub/internal/enrollment/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogClient_ExistingCourse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/courses/c-42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"id":"c-42","title":"Go Basics","category":"CS","price":19.99}}`))
	}))
	defer srv.Close()

	c := NewHTTPCatalogClient(HTTPCatalogClientConfig{BaseURL: srv.URL})

	course, err := c.GetCourse(context.Background(), "c-42")
	require.NoError(t, err)
	assert.Equal(t, "c-42", course.ID)
	assert.Equal(t, "Go Basics", course.Title)
	assert.Equal(t, 19.99, course.Price)
}

func TestCatalogClient_UnknownCourse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPCatalogClient(HTTPCatalogClientConfig{BaseURL: srv.URL})

	_, err := c.GetCourse(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestCatalogClient_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPCatalogClient(HTTPCatalogClientConfig{BaseURL: srv.URL})

	_, err := c.GetCourse(context.Background(), "c-42")
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestCatalogClient_TimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewHTTPCatalogClient(HTTPCatalogClientConfig{
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
	})

	_, err := c.GetCourse(context.Background(), "c-42")
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestStudentDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/accounts/alice@example.com":
			w.Write([]byte(`{"success":true,"data":{"email":"alice@example.com"}}`))
		case "/internal/accounts/nobody@example.com":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	d := NewHTTPStudentDirectory(HTTPStudentDirectoryConfig{BaseURL: srv.URL})

	exists, err := d.Exists(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = d.Exists(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = d.Exists(context.Background(), "boom@example.com")
	assert.ErrorIs(t, err, domain.ErrDirectoryUnavailable)
}
