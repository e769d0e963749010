package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/txa/internal/models"
	"github.com/desertthunder/txa/internal/shared"
	"github.com/desertthunder/txa/internal/tasks"
	"github.com/desertthunder/txa/internal/ui"
	"github.com/desertthunder/txa/internal/urllist"
	"github.com/urfave/cli/v3"
)

// analyzeOutput is the --json shape of one submission.
type analyzeOutput struct {
	Status   string                   `json:"status"`
	URLs     []string                 `json:"urls"`
	Alert    string                   `json:"alert,omitempty"`
	RunID    string                   `json:"run_id,omitempty"`
	Response *models.AnalysisResponse `json:"response,omitempty"`
	Report   *tasks.ExportResult      `json:"report,omitempty"`
}

// collectURLs gathers URLs from positional arguments and an optional URL file, in that order.
//
// The list manager trims entries and drops blanks.
func collectURLs(args []string, file string) ([]string, error) {
	list := urllist.New(args...)
	if file != "" {
		urls, err := shared.ParseURLFile(file)
		if err != nil {
			return nil, err
		}
		list.Load(urls)
	}
	return list.URLs(), nil
}

// Analyze submits the given URLs once, prints the alert or the charts, and optionally exports a report.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	urls, err := collectURLs(cmd.Args().Slice(), cmd.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read URLs: %w", err)
	}

	var recorder tasks.RunRecorder
	if !cmd.Bool("no-save") {
		runs, closeDB, err := r.runs()
		if err != nil {
			return err
		}
		defer closeDB()
		recorder = runs
	}

	pipeline, err := r.newPipeline(recorder)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	drained := r.logProgress(progress)
	outcome := pipeline.Submit(ctx, urls, progress)

	var export *tasks.ExportResult
	reportDir := cmd.String("report")
	if outcome.Kind != tasks.Rejected && (reportDir != "" || cmd.Bool("open")) {
		export, err = tasks.Export(ctx, outcome.Input(), r.exportOpts(reportDir), progress)
		if err != nil {
			close(progress)
			<-drained
			return fmt.Errorf("failed to export report: %w", err)
		}
		for name, reason := range export.Failures {
			r.logger.Warn("word cloud not exported", "file", name, "error", reason)
		}
	}
	close(progress)
	<-drained

	if cmd.Bool("json") {
		if err := r.writeJSON(toAnalyzeOutput(outcome, export), true); err != nil {
			return err
		}
	} else {
		r.printOutcome(outcome, export)
	}

	if export != nil && (cmd.Bool("open") || r.config.Report.OpenBrowser) {
		if err := shared.OpenReport(export.ReportPath); err != nil {
			r.logger.Warn("could not open report", "error", err)
		}
	}

	return outcomeError(outcome)
}

func toAnalyzeOutput(o *tasks.Outcome, export *tasks.ExportResult) analyzeOutput {
	out := analyzeOutput{Status: o.Kind.String(), URLs: o.URLs, Alert: o.Alert, Response: o.Response, Report: export}
	if o.Run != nil {
		out.RunID = o.Run.ID()
	}
	return out
}

func (r *Runner) printOutcome(o *tasks.Outcome, export *tasks.ExportResult) {
	if o.HasAlert() {
		r.writePlain("%s\n", ui.RenderAlert(o.Alert))
	} else {
		r.writePlainHeader(fmt.Sprintf("Analysis of %d URLs", len(o.URLs)))
		for i, u := range o.URLs {
			r.writePlain("%s: %s\n", models.Label(i+1), u)
		}
		r.writePlain("\n%s", ui.RenderSet(o.Charts, ui.DefaultBarWidth))
	}

	if o.Run != nil {
		r.writePlainln("Recorded as run #%d (%s)", o.Run.Sequence(), o.Run.ID())
	}
	if export != nil {
		r.writePlain("Report: %s\n", export.ReportPath)
		if len(export.Failures) > 0 {
			names := make([]string, 0, len(export.Failures))
			for name := range export.Failures {
				names = append(names, name)
			}
			r.writePlain("Skipped word clouds: %s\n", strings.Join(names, ", "))
		}
	}
}

// outcomeError maps a non-rendered outcome to the command's exit error.
func outcomeError(o *tasks.Outcome) error {
	if o.Kind == tasks.Rendered {
		return nil
	}
	if o.Err != nil {
		return o.Err
	}
	return errors.New(o.Alert)
}
