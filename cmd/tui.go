package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/txa/internal/shared"
	"github.com/desertthunder/txa/internal/ui"
	"github.com/desertthunder/txa/internal/urllist"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for building and submitting a URL list.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	seed, err := collectURLs(nil, cmd.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read URLs: %w", err)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join(shared.XDGStateDir(), "tui.log")
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	runs, closeDB, err := r.runs()
	if err != nil {
		return err
	}
	defer closeDB()

	pipeline, err := r.newPipeline(runs)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, pipeline, r.exportOpts(""), urllist.New(seed...))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
