package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/desertthunder/txa/internal/charts"
	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/repositories"
	"github.com/desertthunder/txa/internal/shared"
	"github.com/desertthunder/txa/internal/tasks"
	"github.com/desertthunder/txa/internal/ui"
	"github.com/urfave/cli/v3"
)

// runSummary is the --json shape of a history entry.
type runSummary struct {
	ID        string    `json:"id"`
	Sequence  int       `json:"sequence"`
	Status    string    `json:"status"`
	URLs      []string  `json:"urls"`
	Alert     string    `json:"alert,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func summarize(run *models.Run) runSummary {
	return runSummary{
		ID:        run.ID(),
		Sequence:  run.Sequence(),
		Status:    string(run.Status()),
		URLs:      run.URLs(),
		Alert:     run.Alert(),
		CreatedAt: run.CreatedAt(),
	}
}

// HistoryList prints recorded runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	criteria := map[string]any{"limit": cmd.Int("limit")}
	if status := cmd.String("status"); status != "" {
		if !models.RunStatus(status).Valid() {
			return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidFlag, status)
		}
		criteria["status"] = status
	}

	runs, closeDB, err := r.runs()
	if err != nil {
		return err
	}
	defer closeDB()

	list, err := runs.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if cmd.Bool("json") {
		out := make([]runSummary, len(list))
		for i, run := range list {
			out[i] = summarize(run)
		}
		return r.writeJSON(out, true)
	}

	if len(list) == 0 {
		r.writePlain("No runs recorded yet.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Run history (%d)", len(list)))
	for _, run := range list {
		r.writePlain("#%-4d %-8s %2d urls  %s  %s\n",
			run.Sequence(), run.Status(), len(run.URLs()), run.CreatedAt().Local().Format("2006-01-02 15:04"), shortID(run.ID()))
	}
	return nil
}

// HistoryShow prints a run's URLs followed by its alert or charts.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	_, run, closeDB, err := r.resolveRun(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	resp, err := run.Decode()
	if err != nil {
		r.logger.Warn("stored response could not be decoded", "run", run.ID(), "error", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			runSummary
			Response *models.AnalysisResponse `json:"response,omitempty"`
		}{summarize(run), resp}, true)
	}

	r.writePlainHeader(fmt.Sprintf("Run #%d (%s)", run.Sequence(), run.Status()))
	r.writePlain("ID: %s\nCreated: %s\n\n", run.ID(), run.CreatedAt().Local().Format(time.RFC1123))
	for i, u := range run.URLs() {
		r.writePlain("%s: %s\n", models.Label(i+1), u)
	}
	r.writePlain("\n")

	if run.Alert() != "" {
		r.writePlain("%s\n", ui.RenderAlert(run.Alert()))
		return nil
	}
	r.writePlain("%s", ui.RenderSet(charts.FromResponse(resp), ui.DefaultBarWidth))
	return nil
}

// HistoryReport exports a stored run's report artifacts.
func (r *Runner) HistoryReport(ctx context.Context, cmd *cli.Command) error {
	_, run, closeDB, err := r.resolveRun(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	in, err := tasks.InputFromRun(run)
	if err != nil {
		return err
	}

	dir := cmd.String("dir")
	if dir == "" {
		dir = filepath.Join(r.config.Report.OutputDir, fmt.Sprintf("run_%d", run.Sequence()))
	}

	result, err := tasks.Export(ctx, in, r.exportOpts(dir), nil)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	r.writePlain("✓ Report for run #%d written to %s\n", run.Sequence(), result.OutputDirectory)
	for _, f := range result.Files {
		r.writePlain("  %s\n", f)
	}

	if cmd.Bool("open") || r.config.Report.OpenBrowser {
		if err := shared.OpenReport(result.ReportPath); err != nil {
			r.logger.Warn("could not open report", "error", err)
		}
	}
	return nil
}

// HistoryDelete soft-deletes a run.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	runs, run, closeDB, err := r.resolveRun(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := runs.Delete(run.ID()); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	r.logger.Info("run deleted", "id", run.ID())
	r.writePlain("✓ Deleted run #%d\n", run.Sequence())
	return nil
}

// resolveRun looks up the run named by the first argument. The caller closes the database.
func (r *Runner) resolveRun(cmd *cli.Command) (*repositories.RunRepository, *models.Run, func() error, error) {
	ref := cmd.Args().First()
	if ref == "" {
		return nil, nil, nil, fmt.Errorf("%w: run ID or sequence number", shared.ErrMissingArgument)
	}

	runs, closeDB, err := r.runs()
	if err != nil {
		return nil, nil, nil, err
	}

	run, err := runs.Resolve(ref)
	if err != nil {
		closeDB()
		return nil, nil, nil, err
	}
	return runs, run, closeDB, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
