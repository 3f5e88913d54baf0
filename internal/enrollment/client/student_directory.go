package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/learnhub/learnhub/internal/enrollment/domain"
	"github.com/learnhub/learnhub/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// StudentDirectory answers whether a student account exists
type StudentDirectory interface {
	// Exists returns domain.ErrDirectoryUnavailable when the account
	// service cannot answer
	Exists(ctx context.Context, email string) (bool, error)
}

// HTTPStudentDirectoryConfig holds settings for the directory client
type HTTPStudentDirectoryConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpStudentDirectory struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStudentDirectory creates a StudentDirectory over HTTP
func NewHTTPStudentDirectory(cfg HTTPStudentDirectoryConfig) StudentDirectory {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &httpStudentDirectory{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (d *httpStudentDirectory) Exists(ctx context.Context, email string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "client.directory.exists")
	defer span.End()

	span.SetAttributes(attribute.String("email", email))

	endpoint := d.baseURL + "/internal/accounts/" + url.PathEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "directory unreachable")
		return false, domain.ErrDirectoryUnavailable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		span.SetStatus(codes.Ok, "")
		return true, nil
	case http.StatusNotFound:
		span.SetStatus(codes.Ok, "")
		return false, nil
	default:
		span.SetStatus(codes.Error, "directory answered with an error")
		return false, domain.ErrDirectoryUnavailable
	}
}
