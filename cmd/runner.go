package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/txa/internal/repositories"
	"github.com/desertthunder/txa/internal/services"
	"github.com/desertthunder/txa/internal/shared"
	"github.com/desertthunder/txa/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	pinned     bool
	analyzer   services.Analyzer
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Analyzer   services.Analyzer
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// A Config passed here is kept as-is unless --config is given on the command line.
func NewRunner(opts RunnerOpts) *Runner {
	pinned := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		pinned:     pinned,
		analyzer:   opts.Analyzer,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, analyzeCommand, watchCommand, tuiCommand, historyCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads configuration and applies global flags ahead of every command.
//
// Lookup order: --config, ./config.toml, the XDG config file, embedded defaults.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	explicit := cmd.String("config")
	if r.pinned && explicit == "" {
		return ctx, nil
	}

	path := shared.ResolveConfigPath(explicit)
	if path == "" {
		r.logger.Debug("no config file found, using defaults")
		return ctx, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return ctx, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	r.config = config
	r.configPath = path
	r.logger.Debug("loaded config", "path", path)
	return ctx, nil
}

// SetLogger replaces the runner's logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openDatabase opens the configured database and applies pending migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	path := r.config.Database.DatabasePath()
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Debug("database ready", "path", path)
	return db, nil
}

// runs opens the run history.
func (r *Runner) runs() (*repositories.RunRepository, func() error, error) {
	db, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}
	return repositories.NewRunRepository(db), db.Close, nil
}

// newAnalyzer returns the injected analyzer or one built from the server config.
func (r *Runner) newAnalyzer() (services.Analyzer, error) {
	if r.analyzer != nil {
		return r.analyzer, nil
	}

	svc, err := services.NewAnalysisService(r.config.Server, r.httpClient, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis client: %w", err)
	}
	return svc, nil
}

// newPipeline wires the analyzer, optional history recorder and local validation.
func (r *Runner) newPipeline(recorder tasks.RunRecorder) (*tasks.Pipeline, error) {
	analyzer, err := r.newAnalyzer()
	if err != nil {
		return nil, err
	}

	opts := []tasks.Option{tasks.WithLocalValidation(r.config.Validation.Local)}
	if recorder != nil {
		opts = append(opts, tasks.WithRecorder(recorder))
	}

	return tasks.NewPipeline(analyzer, r.logger, opts...), nil
}

// exportOpts builds export options, preferring dir over the configured output directory.
func (r *Runner) exportOpts(dir string) tasks.ExportOpts {
	if dir == "" {
		dir = r.config.Report.OutputDir
	}
	return tasks.ExportOpts{OutputDir: dir, NumWorkers: r.config.Report.Workers}
}

// logProgress drains progress updates into the debug log until the channel closes.
func (r *Runner) logProgress(progress <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()
	return done
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
