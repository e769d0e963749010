package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/txa/internal/shared"
	"github.com/desertthunder/txa/internal/tasks"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v3"
)

const defaultDebounce = 300 * time.Millisecond

// Watch submits FILE once, then again after every write, create or rename of it.
//
// The parent directory is watched rather than the file so that editors that replace the file
// on save keep triggering. Changes that land while a request is outstanding are skipped by the
// pipeline's in-flight guard.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return fmt.Errorf("%w: FILE", shared.ErrMissingArgument)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	runs, closeDB, err := r.runs()
	if err != nil {
		return err
	}
	defer closeDB()

	pipeline, err := r.newPipeline(runs)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	reportDir := cmd.String("report")
	var wg sync.WaitGroup
	defer wg.Wait()

	submit := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.submitFile(ctx, pipeline, abs, reportDir)
		}()
	}

	r.logger.Info("watching url file", "path", abs)
	r.writePlain("Watching %s (ctrl+c to stop)\n", path)

	submit()
	return watchLoop(ctx, abs, cmd.Duration("debounce"), watcher.Events, watcher.Errors, submit, r.logger.Warn)
}

// watchLoop calls submit once per burst of events on target, after debounce of quiet.
// It returns when ctx ends or either channel closes.
func watchLoop(ctx context.Context, target string, debounce time.Duration, events <-chan fsnotify.Event, errs <-chan error, submit func(), warn func(msg any, kv ...any)) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			warn("watch error", "error", err)

		case <-timer.C:
			submit()
		}
	}
}

// submitFile re-reads path and submits it, printing a one-line summary.
func (r *Runner) submitFile(ctx context.Context, pipeline *tasks.Pipeline, path, reportDir string) {
	urls, err := shared.ParseURLFile(path)
	if err != nil {
		r.logger.Warn("could not read url file", "path", path, "error", err)
		return
	}

	outcome := pipeline.Submit(ctx, urls, nil)
	switch outcome.Kind {
	case tasks.Rejected:
		if outcome.Alert == tasks.AlertInFlight {
			r.logger.Info("change skipped, request in flight", "path", path)
			return
		}
		r.writePlain("%s: %s\n", time.Now().Format(time.TimeOnly), outcome.Alert)
		return
	case tasks.Rendered:
		r.writePlain("%s: analyzed %d urls\n", time.Now().Format(time.TimeOnly), len(outcome.URLs))
	default:
		r.writePlain("%s: %s\n", time.Now().Format(time.TimeOnly), outcome.Alert)
	}

	if reportDir == "" {
		return
	}

	export, err := tasks.Export(ctx, outcome.Input(), r.exportOpts(reportDir), nil)
	if err != nil {
		r.logger.Error("failed to export report", "error", err)
		return
	}
	r.logger.Info("report updated", "path", export.ReportPath)
}
