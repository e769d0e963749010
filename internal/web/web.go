// Package web renders analysis results as standalone HTML pages.
//
// The report page mirrors the original browser page: the submitted URL list, the alert
// (if any), the word cloud grid in rows of four and two plotly charts mounted on
// "sentimentChart" and "readabilityChart". Figures are serialized straight from
// [charts.Figure], whose JSON already has plotly's data/layout shape.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/txa/internal/charts"
	"github.com/desertthunder/txa/internal/models"
)

// PlotlyURL is the plotly.js bundle referenced by report pages.
const PlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"label": func(i int) string { return models.Label(i + 1) },
	"dataURI": func(c charts.Cell) template.URL {
		return template.URL(c.DataURI())
	},
}).ParseFS(templateFS, "templates/*.html.tmpl"))

// Report is the data behind a report page.
type Report struct {
	Title       string
	RunID       string
	Sequence    int
	Status      models.RunStatus
	URLs        []string
	Alert       string
	Charts      *charts.Set
	GeneratedAt time.Time
	PlotlyURL   string
}

// NewReport renders the charts for resp. Responses with invalid URLs produce an empty chart set.
func NewReport(urls []string, resp *models.AnalysisResponse, alert string) Report {
	return Report{
		Title:       "Text Analysis Report",
		URLs:        urls,
		Alert:       alert,
		Charts:      charts.FromResponse(resp),
		GeneratedAt: time.Now(),
		PlotlyURL:   PlotlyURL,
	}
}

// ReportFromRun rebuilds the report for a stored run.
func ReportFromRun(run *models.Run) (Report, error) {
	resp, err := run.Decode()
	if err != nil {
		return Report{}, fmt.Errorf("failed to decode stored response: %w", err)
	}

	r := NewReport(run.URLs(), resp, run.Alert())
	r.RunID = run.ID()
	r.Sequence = run.Sequence()
	r.Status = run.Status()
	r.GeneratedAt = run.CreatedAt()
	return r, nil
}

// RenderReport writes the report page to w.
func RenderReport(w io.Writer, r Report) error {
	if r.PlotlyURL == "" {
		r.PlotlyURL = PlotlyURL
	}
	if r.Charts == nil {
		r.Charts = &charts.Set{}
	}
	return render(w, "report.html.tmpl", r)
}

// WriteReport renders the report page into a file.
func WriteReport(path string, r Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()

	if err := RenderReport(f, r); err != nil {
		return err
	}
	return f.Close()
}

// RunSummary is one row of the run index.
type RunSummary struct {
	ID        string
	Sequence  int
	Status    models.RunStatus
	URLCount  int
	CreatedAt time.Time
}

// Summarize converts runs into index rows.
func Summarize(runs []*models.Run) []RunSummary {
	out := make([]RunSummary, len(runs))
	for i, run := range runs {
		out[i] = RunSummary{
			ID:        run.ID(),
			Sequence:  run.Sequence(),
			Status:    run.Status(),
			URLCount:  len(run.URLs()),
			CreatedAt: run.CreatedAt(),
		}
	}
	return out
}

// RenderIndex writes the run index page to w.
func RenderIndex(w io.Writer, runs []RunSummary) error {
	return render(w, "runs.html.tmpl", runs)
}

func render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
