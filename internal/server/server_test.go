package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/shared"
)

type stubStore struct {
	mu       sync.Mutex
	runs     []*models.Run
	criteria map[string]any
}

func (s *stubStore) List(criteria map[string]any) ([]*models.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria = criteria
	return s.runs, nil
}

func (s *stubStore) Resolve(ref string) (*models.Run, error) {
	for _, run := range s.runs {
		if run.ID() == ref || strings.TrimPrefix(ref, "#") == strconv.Itoa(run.Sequence()) {
			return run, nil
		}
	}
	return nil, shared.ErrRunNotFound
}

func (s *stubStore) lastCriteria() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

func newRun(t *testing.T, id string, seq int, status models.RunStatus, response string) *models.Run {
	t.Helper()

	run := models.NewRun(seq, []string{"https://a.example", "https://b.example"}, status)
	run.SetID(id)
	run.SetResponse(response)
	return run
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	logger := log.New(buf)
	logger.SetLevel(log.DebugLevel)
	return logger
}

func TestBasicRouter(t *testing.T) {
	t.Run("Handle filters by method", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("pong"))
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Body.String() != "pong" {
			t.Errorf("expected pong, got %q", rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, req)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			order = append(order, "handler")
		}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		want := []string{"first", "second", "handler"}
		if strings.Join(order, ",") != strings.Join(want, ",") {
			t.Errorf("expected order %v, got %v", want, order)
		}
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("RequestLogger records status", func(t *testing.T) {
		var buf bytes.Buffer
		h := RequestLogger(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		out := buf.String()
		if !strings.Contains(out, "status=500") || !strings.Contains(out, "path=/x") {
			t.Errorf("unexpected log output: %s", out)
		}
	})

	t.Run("Recoverer", func(t *testing.T) {
		var buf bytes.Buffer
		h := Recoverer(testLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("kaboom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if !strings.Contains(buf.String(), "kaboom") {
			t.Error("expected panic value to be logged")
		}
	})

	t.Run("ReadOnly", func(t *testing.T) {
		h := ReadOnly(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if rec.Header().Get("Allow") == "" {
			t.Error("expected Allow header")
		}
	})
}

func TestReportRouter(t *testing.T) {
	response := `{"sentiment_comparison":[{"Positive":1,"Neutral":0,"Negative":0},{"Positive":0,"Neutral":1,"Negative":0}],"readability_comparison":[{"Readability":10},{"Readability":20}]}`
	store := &stubStore{runs: []*models.Run{
		newRun(t, "run-2", 2, models.RunRendered, response),
		newRun(t, "run-1", 1, models.RunFailed, ""),
	}}

	var buf bytes.Buffer
	srv := httptest.NewServer(NewReportRouter(store, testLogger(&buf)))
	defer srv.Close()

	get := func(t *testing.T, path string) (*http.Response, *goquery.Document) {
		t.Helper()

		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		defer resp.Body.Close()

		if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
			return resp, nil
		}

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", path, err)
		}
		return resp, doc
	}

	t.Run("index lists runs", func(t *testing.T) {
		resp, doc := get(t, "/")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if n := doc.Find("#runs tr.run").Length(); n != 2 {
			t.Errorf("expected 2 run rows, got %d", n)
		}
	})

	t.Run("index filters by status", func(t *testing.T) {
		get(t, "/?status=failed&limit=5")
		if got := store.lastCriteria(); got["status"] != "failed" || got["limit"] != 5 {
			t.Errorf("unexpected criteria: %v", got)
		}

		resp, _ := get(t, "/?status=bogus")
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for unknown status, got %d", resp.StatusCode)
		}
	})

	t.Run("run by sequence", func(t *testing.T) {
		resp, _ := get(t, "/runs/1")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("run report", func(t *testing.T) {
		resp, doc := get(t, "/runs/run-2")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if doc.Find("#sentimentChart").Length() != 1 {
			t.Error("expected sentiment chart mount")
		}
		if doc.Find("#readabilityChart").Length() != 1 {
			t.Error("expected readability chart mount")
		}
	})

	t.Run("run json", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/runs/run-2?format=json")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer resp.Body.Close()

		if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
	})

	t.Run("missing run", func(t *testing.T) {
		resp, _ := get(t, "/runs/nope")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("healthz", func(t *testing.T) {
		resp, _ := get(t, "/healthz")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("writes rejected", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/", "text/plain", nil)
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
	})
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := New("127.0.0.1:0", http.NotFoundHandler())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv, log.New(&bytes.Buffer{}))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
