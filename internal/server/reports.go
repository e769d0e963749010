package server

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/shared"
	"github.com/desertthunder/txa/internal/web"
)

// RunStore is the read side of the run history needed by [ReportHandler].
type RunStore interface {
	List(criteria map[string]any) ([]*models.Run, error)
	Resolve(ref string) (*models.Run, error)
}

// ReportHandler serves the run index and per-run HTML reports.
// Implements the Handler interface for registration with a Router.
type ReportHandler struct {
	runs   RunStore
	logger *log.Logger
}

// NewReportHandler creates a handler backed by the given run store.
func NewReportHandler(runs RunStore, logger *log.Logger) *ReportHandler {
	return &ReportHandler{runs: runs, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *ReportHandler) Routes() []string {
	return []string{"/", "/runs/"}
}

// ServeHTTP dispatches between the index and a single run.
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/":
		h.index(w, r)
	case strings.HasPrefix(r.URL.Path, "/runs/"):
		h.show(w, r, strings.TrimPrefix(r.URL.Path, "/runs/"))
	default:
		http.NotFound(w, r)
	}
}

func (h *ReportHandler) index(w http.ResponseWriter, r *http.Request) {
	criteria := map[string]any{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.RunStatus(status).Valid() {
			http.Error(w, "Unknown status", http.StatusBadRequest)
			return
		}
		criteria["status"] = status
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		criteria["limit"] = limit
	}

	runs, err := h.runs.List(criteria)
	if err != nil {
		h.logger.Error("failed to list runs", "error", err)
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := web.RenderIndex(&buf, web.Summarize(runs)); err != nil {
		h.logger.Error("failed to render index", "error", err)
		http.Error(w, "Failed to render index", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *ReportHandler) show(w http.ResponseWriter, r *http.Request, ref string) {
	ref = strings.Trim(ref, "/")
	if ref == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	run, err := h.runs.Resolve(ref)
	switch {
	case errors.Is(err, shared.ErrRunNotFound):
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	case errors.Is(err, shared.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("failed to load run", "ref", ref, "error", err)
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		if run.Response() == "" {
			w.Write([]byte("{}"))
			return
		}
		w.Write([]byte(run.Response()))
		return
	}

	report, err := web.ReportFromRun(run)
	if err != nil {
		h.logger.Warn("stored response could not be decoded", "run", run.ID(), "error", err)
		report = web.NewReport(run.URLs(), nil, run.Alert())
		report.RunID = run.ID()
		report.Sequence = run.Sequence()
		report.Status = run.Status()
	}

	var buf bytes.Buffer
	if err := web.RenderReport(&buf, report); err != nil {
		h.logger.Error("failed to render report", "run", run.ID(), "error", err)
		http.Error(w, "Failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
