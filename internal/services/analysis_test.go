package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/shared"
)

func newTestAnalysisService(t *testing.T, handler http.HandlerFunc, mutate func(*shared.ServerConfig)) *AnalysisService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := shared.DefaultConfig().Server
	cfg.BaseURL = server.URL
	cfg.RateLimit = 0
	if mutate != nil {
		mutate(&cfg)
	}

	srv, err := NewAnalysisService(cfg, nil, shared.NewLogger(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("failed to create analysis service: %v", err)
	}
	return srv
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestAnalysisService(t *testing.T) {
	t.Run("Request Shape", func(t *testing.T) {
		srv := newTestAnalysisService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/analyze" {
				t.Errorf("expected /analyze, got %s", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}

			var req models.AnalysisRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			if len(req.URLs) != 2 || req.URLs[0] != "https://a.example" || req.URLs[1] != "https://b.example" {
				t.Errorf("expected ordered URLs, got %v", req.URLs)
			}

			respond(http.StatusOK, `{"readability_comparison": [{"Readability": 10}, {"Readability": 20}]}`)(w, r)
		}, nil)

		resp, err := srv.Analyze(context.Background(), []string{"https://a.example", "https://b.example"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Readability) != 2 {
			t.Errorf("expected 2 readability scores, got %+v", resp.Readability)
		}
	})

	t.Run("Invalid URLs With 400", func(t *testing.T) {
		srv := newTestAnalysisService(t, respond(http.StatusBadRequest, `{"invalid_urls": [{"URL": "a", "issue": "x"}]}`), nil)

		resp, err := srv.Analyze(context.Background(), []string{"a"})
		if err != nil {
			t.Fatalf("invalid URLs should not be an error, got %v", err)
		}
		if !resp.HasInvalidURLs() || resp.InvalidURLs[0].Issue != "x" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("Failures", func(t *testing.T) {
		tc := []struct {
			name    string
			status  int
			body    string
			wantErr error
		}{
			{"Server Error Field", http.StatusBadRequest, `{"error": "No URLs provided."}`, shared.ErrAPIRequest},
			{"Internal Error", http.StatusInternalServerError, `{"error": "boom"}`, shared.ErrAPIRequest},
			{"Error With 200", http.StatusOK, `{"error": "partial"}`, shared.ErrAPIRequest},
			{"Non-JSON Body", http.StatusOK, `<html>bad gateway</html>`, shared.ErrInvalidResponse},
			{"Status Without Body", http.StatusBadGateway, `{}`, shared.ErrAPIRequest},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				srv := newTestAnalysisService(t, respond(tt.status, tt.body), nil)

				resp, err := srv.Analyze(context.Background(), []string{"https://a.example"})
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				if resp != nil {
					t.Errorf("expected no response on failure, got %+v", resp)
				}
			})
		}
	})

	t.Run("No URLs", func(t *testing.T) {
		srv := newTestAnalysisService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should be sent")
		}, nil)

		if _, err := srv.Analyze(context.Background(), nil); !errors.Is(err, shared.ErrNoURLs) {
			t.Errorf("expected ErrNoURLs, got %v", err)
		}
	})

	t.Run("Timeout", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		srv := newTestAnalysisService(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}, func(cfg *shared.ServerConfig) { cfg.Timeout = "20ms" })

		_, err := srv.Analyze(context.Background(), []string{"https://a.example"})
		if !errors.Is(err, shared.ErrAPIRequest) || !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected ErrAPIRequest wrapping DeadlineExceeded, got %v", err)
		}
		if !errors.Is(err, shared.ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
	})

	t.Run("Bearer Token", func(t *testing.T) {
		srv := newTestAnalysisService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer s3cret" {
				t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
			}
			respond(http.StatusOK, `{}`)(w, r)
		}, func(cfg *shared.ServerConfig) { cfg.Token = "s3cret" })

		if _, err := srv.Analyze(context.Background(), []string{"https://a.example"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("Invalid Timeout Config", func(t *testing.T) {
		cfg := shared.DefaultConfig().Server
		cfg.Timeout = "soon"
		if _, err := NewAnalysisService(cfg, nil, nil); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestAnalysisServicePing(t *testing.T) {
	tt := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"not found still reachable", http.StatusNotFound, false},
		{"server error", http.StatusBadGateway, true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestAnalysisService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tc.status)
			}, nil)

			err := srv.Ping(context.Background())
			if tc.wantErr && !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		cfg := shared.DefaultConfig().Server
		cfg.BaseURL = server.URL
		server.Close()

		srv, err := NewAnalysisService(cfg, nil, nil)
		if err != nil {
			t.Fatalf("failed to create analysis service: %v", err)
		}
		if err := srv.Ping(context.Background()); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}
