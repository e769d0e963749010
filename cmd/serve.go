package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/txa/internal/server"
	"github.com/desertthunder/txa/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the report server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Serve
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", shared.ErrInvalidFlag, cfg.Port)
	}

	runs, closeDB, err := r.runs()
	if err != nil {
		return err
	}
	defer closeDB()

	logger := shared.WithLogger(r.logger, "component", "serve")
	srv := server.New(cfg.Addr(), server.NewReportRouter(runs, logger))

	r.writePlain("Serving run history at http://%s (ctrl+c to stop)\n", cfg.Addr())
	if cmd.Bool("open") {
		if err := shared.OpenBrowser("http://" + cfg.Addr()); err != nil {
			r.logger.Warn("could not open browser", "error", err)
		}
	}

	return server.Run(ctx, srv, logger)
}
