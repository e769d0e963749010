package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/txa/internal/charts"
	"github.com/desertthunder/txa/internal/formatter"
	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/web"
	"golang.org/x/sync/errgroup"
)

// ExportOpts contains configuration for artifact export.
type ExportOpts struct {
	OutputDir  string // Output directory (default: txa_report_{epoch})
	NumWorkers int    // Concurrent PNG writers (default: 4)
}

// ExportInput is what gets exported: one submission and its reply.
type ExportInput struct {
	URLs      []string
	Response  *models.AnalysisResponse
	Alert     string
	Run       *models.Run
	CreatedAt time.Time
}

// Input converts an outcome into an [ExportInput].
func (o *Outcome) Input() ExportInput {
	in := ExportInput{URLs: o.URLs, Response: o.Response, Alert: o.Alert, Run: o.Run, CreatedAt: time.Now()}
	if o.Run != nil {
		in.CreatedAt = o.Run.CreatedAt()
	}
	return in
}

// InputFromRun rebuilds an [ExportInput] from a stored run.
func InputFromRun(run *models.Run) (ExportInput, error) {
	resp, err := run.Decode()
	if err != nil {
		return ExportInput{}, fmt.Errorf("failed to decode stored response: %w", err)
	}
	return ExportInput{URLs: run.URLs(), Response: resp, Alert: run.Alert(), Run: run, CreatedAt: run.CreatedAt()}, nil
}

// ExportResult summarizes an export.
type ExportResult struct {
	OutputDirectory string            `json:"output_directory"`
	ReportPath      string            `json:"report"`
	Files           []string          `json:"files"`
	WordClouds      int               `json:"word_clouds"`
	Failures        map[string]string `json:"failures,omitempty"`
	ManifestPath    string            `json:"-"`
}

// Export writes the report artifacts for in: report.html, README.md, scores.csv,
// summary.txt, one wordcloud_<n>.png per available word cloud, and manifest.json.
//
// Word clouds are decoded and written concurrently. A PNG that fails is recorded in
// [ExportResult.Failures] and left out of the reports; other failures abort the export.
func Export(ctx context.Context, in ExportInput, opts ExportOpts, progress chan<- ProgressUpdate) (*ExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("txa_report_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 16 {
		opts.NumWorkers = 16
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{OutputDirectory: opts.OutputDir, Failures: map[string]string{}}

	set := charts.FromResponse(in.Response)
	images, err := exportWordClouds(ctx, set, opts, result, progress)
	if err != nil {
		return result, err
	}

	report := web.NewReport(in.URLs, in.Response, in.Alert)
	report.GeneratedAt = in.CreatedAt
	if in.Run != nil {
		report.RunID = in.Run.ID()
		report.Sequence = in.Run.Sequence()
		report.Status = in.Run.Status()
	}

	writers := []struct {
		name  string
		write func(path string) error
	}{
		{"report.html", func(path string) error { return web.WriteReport(path, report) }},
		{"README.md", func(string) error {
			_, err := formatter.WriteMarkdownExport(formatter.MarkdownReport{
				URLs: in.URLs, Response: in.Response, Images: images, GeneratedAt: in.CreatedAt,
			}, opts.OutputDir)
			return err
		}},
		{"scores.csv", func(path string) error {
			_, err := formatter.WriteCSVExport(in.URLs, in.Response, path)
			return err
		}},
		{"summary.txt", func(path string) error {
			_, err := formatter.WriteTextExport(in.URLs, in.Response, path)
			return err
		}},
	}

	for i, w := range writers {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		path := filepath.Join(opts.OutputDir, w.name)
		if err := w.write(path); err != nil {
			return result, fmt.Errorf("failed to write %s: %w", w.name, err)
		}
		result.Files = append(result.Files, path)
		sendProgress(progress, reportWrittenUpdate(i+1, len(writers), path))
	}
	result.ReportPath = filepath.Join(opts.OutputDir, "report.html")

	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	return result, nil
}

// exportWordClouds writes each available cell's PNG and returns position -> filename for
// the ones that succeeded.
func exportWordClouds(ctx context.Context, set *charts.Set, opts ExportOpts, result *ExportResult, progress chan<- ProgressUpdate) (map[int]string, error) {
	images := map[int]string{}
	if set.WordClouds == nil {
		return images, nil
	}

	var cells []charts.Cell
	for _, c := range set.WordClouds.Cells() {
		if c.Available() {
			cells = append(cells, c)
		}
	}

	var (
		mu        sync.Mutex
		completed int
		files     []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.NumWorkers)

	for _, cell := range cells {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			name := formatter.WordCloudFilename(cell)
			err := formatter.WriteWordCloud(cell, filepath.Join(opts.OutputDir, name))

			mu.Lock()
			defer mu.Unlock()
			completed++
			if err != nil {
				result.Failures[name] = err.Error()
				sendProgress(progress, imageFailedUpdate(completed, len(cells), name, err))
				return nil
			}
			images[cell.Position] = name
			files = append(files, filepath.Join(opts.OutputDir, name))
			sendProgress(progress, imageExportedUpdate(completed, len(cells), name))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return images, err
	}

	sort.Strings(files)
	result.Files = append(result.Files, files...)
	result.WordClouds = len(images)
	return images, nil
}
