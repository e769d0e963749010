package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/shared"
)

// AnalysisService implements [Analyzer] against the server's analyze endpoint.
type AnalysisService struct {
	api      *APIService
	endpoint string
	timeout  time.Duration
	logger   *log.Logger
}

// NewAnalysisService builds an [AnalysisService] from server settings.
//
// client may be nil. A configured token is sent as a bearer header.
func NewAnalysisService(cfg shared.ServerConfig, client *http.Client, logger *log.Logger) (*AnalysisService, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	api := NewAPIService(cfg.BaseURL, BearerClient(client, cfg.Token)).WithRateLimit(cfg.RateLimit)

	return &AnalysisService{
		api:      api,
		endpoint: cfg.Endpoint,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Analyze posts {"urls": [...]} and decodes the reply.
//
// The body is decoded whatever the status so that a 400 carrying invalid_urls reaches the
// caller as a normal response. Any other non-2xx status, or a server "error" field, is
// returned as [shared.ErrAPIRequest]. An unparseable body is [shared.ErrInvalidResponse].
func (s *AnalysisService) Analyze(ctx context.Context, urls []string) (*models.AnalysisResponse, error) {
	if len(urls) == 0 {
		return nil, shared.ErrNoURLs
	}

	body, err := shared.MarshalJSON(models.AnalysisRequest{URLs: urls}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.Debug("submitting analysis request", "urls", len(urls), "endpoint", s.endpoint)

	raw, err := s.api.Post(ctx, s.endpoint, body)
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %w: %w", shared.ErrAPIRequest, shared.ErrTimeout, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	resp, err := models.ParseAnalysisResponse(raw.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", shared.ErrInvalidResponse, raw.StatusCode, err)
	}

	if resp.HasInvalidURLs() {
		s.logger.Debug("server rejected urls", "status", raw.StatusCode, "invalid", len(resp.InvalidURLs))
		return resp, nil
	}

	if !raw.OK() {
		return nil, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, raw.StatusCode, serverMessage(resp, raw))
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrAPIRequest, resp.Error)
	}

	s.logger.Debug("analysis complete", "status", raw.StatusCode,
		"word_clouds", len(resp.WordClouds), "sentiment", len(resp.Sentiment), "readability", len(resp.Readability))

	return resp, nil
}

// Ping checks that the analysis server answers at its base URL.
//
// Any HTTP reply below 500 counts as reachable; the root path may well be a 404.
func (s *AnalysisService) Ping(ctx context.Context) error {
	raw, err := s.api.Get(ctx, "/")
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}
	if raw.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, raw.StatusCode)
	}
	return nil
}

func serverMessage(resp *models.AnalysisResponse, raw *APIResponse) string {
	if resp.Error != "" {
		return resp.Error
	}
	return http.StatusText(raw.StatusCode)
}
