// Package gateway talks to the external path-generation service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/qpath-optimizer/backend/internal/models"
)

// GeneratePathRoute is the upstream route that computes a path
const GeneratePathRoute = "/path/generate"

var (
	// ErrInvalidRequest means the start or end point is missing or not finite
	ErrInvalidRequest = errors.New("start_point and end_point must be finite coordinates")
	// ErrUpstreamStatus means the path service answered with a non-2xx status
	ErrUpstreamStatus = errors.New("path service returned an error status")
	// ErrMalformedResponse means the path service body had no usable path field
	ErrMalformedResponse = errors.New("path service response has no path")
)

// PathGenerator computes a path between two points
type PathGenerator interface {
	GeneratePath(ctx context.Context, req models.RouteRequest) ([]models.Point, error)
}

// Client is a PathGenerator backed by the upstream HTTP service
type Client struct {
	generate endpoint.Endpoint
	timeout  time.Duration
	logger   log.Logger
}

// NewClient builds a client for the service at baseURL. A zero timeout
// leaves requests bounded only by the caller's context.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client, logger log.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream url %q: scheme and host required", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/") + GeneratePathRoute

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	c := httptransport.NewClient(
		http.MethodPost,
		u,
		encodeGenerateRequest,
		decodeGenerateResponse,
		httptransport.SetClient(httpClient),
	)

	return &Client{
		generate: c.Endpoint(),
		timeout:  timeout,
		logger:   log.With(logger, "component", "gateway", "upstream", u.String()),
	}, nil
}

// GeneratePath forwards req unchanged and returns the upstream path
func (c *Client) GeneratePath(ctx context.Context, req models.RouteRequest) ([]models.Point, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.generate(ctx, req)
	if err != nil {
		level.Warn(c.logger).Log("msg", "path generation failed", "err", err, "took", time.Since(start))
		return nil, fmt.Errorf("path generation: %w", err)
	}

	path := resp.([]models.Point)
	level.Debug(c.logger).Log("msg", "path generated", "points", len(path), "took", time.Since(start))
	return path, nil
}

// Validate checks that both endpoints are present and finite
func Validate(req models.RouteRequest) error {
	if req.StartPoint == nil || req.EndPoint == nil {
		return ErrInvalidRequest
	}
	if !req.StartPoint.IsFinite() || !req.EndPoint.IsFinite() {
		return ErrInvalidRequest
	}
	return nil
}

// The path service insists on exactly "application/json".
func encodeGenerateRequest(_ context.Context, r *http.Request, request interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return err
	}
	r.Header.Set("Content-Type", "application/json")
	r.ContentLength = int64(buf.Len())
	r.Body = io.NopCloser(&buf)
	return nil
}

func decodeGenerateResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if r.StatusCode < 200 || r.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(r.Body, 512))
		return nil, fmt.Errorf("%w: %d %s", ErrUpstreamStatus, r.StatusCode, strings.TrimSpace(string(body)))
	}

	var out models.UpstreamPathResponse
	if err := json.NewDecoder(r.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out.Path == nil {
		return nil, ErrMalformedResponse
	}
	return out.Path, nil
}
