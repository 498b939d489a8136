package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agbru/parfor/internal/config"
	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/logging"
	"github.com/agbru/parfor/internal/metrics"
	"github.com/agbru/parfor/internal/orchestration"
	"github.com/agbru/parfor/internal/ui"
)

// Application represents the parfor application instance.
type Application struct {
	Config    config.AppConfig
	Logger    logging.Logger
	Metrics   *metrics.Metrics
	ErrWriter io.Writer

	args       []string
	configFile string
	progress   orchestration.ProgressReporter
	exitCode   int
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithProgress replaces the spinner shown while workloads run.
func WithProgress(p orchestration.ProgressReporter) AppOption {
	return func(a *Application) { a.progress = p }
}

// WithMetrics makes the application report into m instead of a fresh
// registry.
func WithMetrics(m *metrics.Metrics) AppOption {
	return func(a *Application) { a.Metrics = m }
}

// New creates an Application for the given command line. args[0] is the
// program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) *Application {
	app := &Application{ErrWriter: errWriter, Logger: logging.Nop{}}
	if len(args) > 0 {
		app.args = args[1:]
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.Metrics == nil {
		app.Metrics = metrics.NewMetrics()
	}
	return app
}

// Run executes the command selected by the arguments and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	root := a.newRootCmd(out)
	root.SetArgs(a.args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	return a.exitCode
}

func (a *Application) newRootCmd(out io.Writer) *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "parfor",
		Short: "Run loops in parallel over worker threads and time them",
		Long: "parfor splits an index range into contiguous partitions, runs one per worker\n" +
			"thread plus one on the caller, and reports the execution time. Without a\n" +
			"subcommand it runs the demonstration workloads.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd, defaults)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.exitCode = a.runWorkloads(cmd.Context(), cmd.OutOrStdout())
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(a.ErrWriter)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.NewConfigError("%v", err)
	})

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(a.newRunCmd())
	cmd.AddCommand(a.newCalibrateCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func (a *Application) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the demonstration workloads and compare them with sequential references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.exitCode = a.runWorkloads(cmd.Context(), cmd.OutOrStdout())
			return nil
		},
	}
}

func (a *Application) loadConfig(cmd *cobra.Command, defaults config.AppConfig) error {
	cfg, err := config.Load(config.LoadOptions{
		Cmd:        cmd,
		ConfigFile: a.configFile,
		Defaults:   defaults,
	})
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.Config = cfg
	ui.InitTheme(cfg.NoColor)
	a.Logger = newLogger(a.ErrWriter, cfg)
	return nil
}

// newLogger builds the application logger and sets zerolog's global level.
// The configuration must have been validated.
func newLogger(w io.Writer, cfg config.AppConfig) logging.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "json" {
		return logging.NewLogger(w, "parfor")
	}
	return logging.NewConsoleLogger(w, "parfor")
}
