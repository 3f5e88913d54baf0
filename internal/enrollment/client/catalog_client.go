package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/learnhub/learnhub/internal/enrollment/domain"
	"github.com/learnhub/learnhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CourseInfo is the catalog's view of a course, as much of it as the
// enrollment flow needs
type CourseInfo struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// CatalogClient answers whether a course exists and what it looks like
type CatalogClient interface {
	// GetCourse returns domain.ErrCourseNotFound for unknown IDs and
	// domain.ErrCatalogUnavailable when the catalog cannot answer
	GetCourse(ctx context.Context, courseID string) (*CourseInfo, error)
}

// HTTPCatalogClientConfig holds settings for the catalog HTTP client
type HTTPCatalogClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpCatalogClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPCatalogClient creates a CatalogClient over HTTP
func NewHTTPCatalogClient(cfg HTTPCatalogClientConfig) CatalogClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &httpCatalogClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type courseEnvelope struct {
	Success bool       `json:"success"`
	Data    CourseInfo `json:"data"`
}

func (c *httpCatalogClient) GetCourse(ctx context.Context, courseID string) (*CourseInfo, error) {
	ctx, span := telemetry.StartSpan(ctx, "client.catalog.get_course")
	defer span.End()

	span.SetAttributes(attribute.String("course_id", courseID))

	endpoint := c.baseURL + "/api/v1/courses/" + url.PathEscape(courseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog unreachable")
		return nil, domain.ErrCatalogUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// A definitive no from the catalog, not an outage
		span.SetStatus(codes.Error, "course not found")
		return nil, domain.ErrCourseNotFound
	case resp.StatusCode != http.StatusOK:
		span.SetStatus(codes.Error, "catalog answered with an error")
		return nil, domain.ErrCatalogUnavailable
	}

	var envelope courseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed catalog response")
		return nil, domain.ErrCatalogUnavailable
	}

	span.SetStatus(codes.Ok, "")
	return &envelope.Data, nil
}
