// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/txa/internal/models"
)

// MockAnalyzer is a test double for [services.Analyzer]
//
// When Block is non-nil, Analyze signals on Started (if set) and then waits until Block is
// closed or the context ends.
type MockAnalyzer struct {
	Response *models.AnalysisResponse
	Err      error
	Block    chan struct{}
	Started  chan struct{}

	mu    sync.Mutex
	calls [][]string
}

func (m *MockAnalyzer) Analyze(ctx context.Context, urls []string) (*models.AnalysisResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]string(nil), urls...))
	m.mu.Unlock()

	if m.Block != nil {
		if m.Started != nil {
			m.Started <- struct{}{}
		}
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return m.Response, m.Err
}

// Calls returns the URL lists Analyze was invoked with.
func (m *MockAnalyzer) Calls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.calls...)
}

// CallCount is len(Calls()).
func (m *MockAnalyzer) CallCount() int {
	return len(m.Calls())
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// PNG is a valid 1x1 transparent PNG, base64 encoded.
const PNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// SampleResponse is a fully populated analysis reply for two URLs. The second word cloud is missing.
func SampleResponse() *models.AnalysisResponse {
	return &models.AnalysisResponse{
		WordClouds: []models.WordCloud{
			{URL: "https://a.example", Image: PNG},
			{URL: "https://b.example"},
		},
		Sentiment: []models.Sentiment{
			{URL: "https://a.example", Positive: 1, Neutral: 0, Negative: 0},
			{URL: "https://b.example", Positive: 0, Neutral: 1, Negative: 0},
		},
		Readability: []models.Readability{
			{URL: "https://a.example", Readability: 10},
			{URL: "https://b.example", Readability: 20},
		},
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes content to path, failing the test on error.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
