package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/desertthunder/txa/internal/services"
	"github.com/desertthunder/txa/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.DatabasePath()
	r.logger.Info("initializing database", "path", path)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		r.writePlain("✓ Rolled back latest migration in %s\n", path)
		return nil
	}

	r.logger.Infof("setup complete for database: %v", path)
	r.writePlain("✓ Database ready at %s\n", path)
	return nil
}

// SetupConfig writes the example configuration to --path or the XDG config directory.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		path = filepath.Join(shared.XDGConfigDir(), "config.toml")
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Edit [server] base_url to point at your analysis server.\n")
	return nil
}

// SetupCheck pings the configured analysis server.
func (r *Runner) SetupCheck(ctx context.Context, cmd *cli.Command) error {
	svc, err := services.NewAnalysisService(r.config.Server, r.httpClient, r.logger)
	if err != nil {
		return err
	}

	if err := svc.Ping(ctx); err != nil {
		r.writePlain("✗ %s is not reachable\n", r.config.Server.BaseURL)
		return err
	}

	r.writePlain("✓ Analysis server reachable at %s (POST %s)\n", r.config.Server.BaseURL, r.config.Server.AnalyzeURL())
	return nil
}
