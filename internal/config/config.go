package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/parallel"
)

// EnvPrefix is the prefix of environment variable overrides, e.g.
// PARFOR_THREADS or PARFOR_MAX_THREADS.
const EnvPrefix = "PARFOR"

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Threads is the thread count passed to the loop executor. Zero selects
	// the calibrated or hardware thread count.
	Threads int `mapstructure:"threads"`
	// Size is the element count of the vector and checksum workloads.
	Size int `mapstructure:"size"`
	// Rows and Cols are the dimensions of the matrix workload.
	Rows int `mapstructure:"rows"`
	Cols int `mapstructure:"cols"`
	// Workload selects "vector", "matrix", "checksum" or "all".
	Workload string `mapstructure:"workload"`
	// MaxThreads bounds the concurrently running workers (0 = unbounded).
	MaxThreads  int    `mapstructure:"max-threads"`
	SpawnPolicy string `mapstructure:"spawn-policy"`
	OSThreads   bool   `mapstructure:"os-threads"`

	Quiet     bool   `mapstructure:"quiet"`
	NoColor   bool   `mapstructure:"no-color"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`

	// MetricsAddr, when set, serves Prometheus metrics after the run until
	// interrupted.
	MetricsAddr string `mapstructure:"metrics-addr"`
	// Profile is the path of the calibration profile.
	Profile string `mapstructure:"profile"`

	// CalibrateMax is the largest thread count tried by calibrate (0 = 2x
	// the CPU count).
	CalibrateMax int `mapstructure:"calibrate-max"`
	// Repeats is the number of timed runs per calibration point.
	Repeats int `mapstructure:"repeats"`
}

// LoadOptions controls where Load reads configuration from.
type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   AppConfig
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() AppConfig {
	return AppConfig{
		Threads:     0,
		Size:        1_000_000,
		Rows:        256,
		Cols:        256,
		Workload:    "all",
		SpawnPolicy: "inline",
		OSThreads:   true,
		LogLevel:    "info",
		LogFormat:   "console",
		Repeats:     3,
	}
}

// RegisterFlags declares one flag per configuration key on fs.
func RegisterFlags(fs *pflag.FlagSet, defaults AppConfig) {
	fs.IntP("threads", "t", defaults.Threads, "Thread count for each parallel loop (0 = calibrated or CPU count)")
	fs.IntP("size", "n", defaults.Size, "Element count of the vector and checksum workloads")
	fs.Int("rows", defaults.Rows, "Row count of the matrix workload")
	fs.Int("cols", defaults.Cols, "Column count of the matrix workload")
	fs.StringP("workload", "w", defaults.Workload, "Workload to run: vector, matrix, checksum or all")
	fs.Int("max-threads", defaults.MaxThreads, "Maximum concurrently running workers (0 = unbounded)")
	fs.String("spawn-policy", defaults.SpawnPolicy, "Behavior when a worker cannot start: inline or abort")
	fs.Bool("os-threads", defaults.OSThreads, "Lock each worker to its own OS thread")
	fs.BoolP("quiet", "q", defaults.Quiet, "Print only the summary table")
	fs.Bool("no-color", defaults.NoColor, "Disable colored output")
	fs.String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
	fs.String("log-format", defaults.LogFormat, "Log format: console or json")
	fs.String("metrics-addr", defaults.MetricsAddr, "Serve Prometheus metrics on this address after the run")
	fs.String("profile", defaults.Profile, "Path of the calibration profile")
	fs.Int("calibrate-max", defaults.CalibrateMax, "Largest thread count tried by calibrate (0 = twice the CPU count)")
	fs.Int("repeats", defaults.Repeats, "Timed runs per calibration point")
}

// Load resolves the configuration from, in decreasing priority: explicitly
// set flags, PARFOR_* environment variables, the config file, flag defaults.
// Without an explicit file, parfor.{yaml,toml,json} in the working directory
// is read when present.
func Load(opts LoadOptions) (AppConfig, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return AppConfig{}, apperrors.NewConfigError("bind flags: %v", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return AppConfig{}, apperrors.NewConfigError("read config file: %v", err)
		}
	} else {
		v.SetConfigName("parfor")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return AppConfig{}, apperrors.NewConfigError("read config file: %v", err)
			}
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return AppConfig{}, apperrors.NewConfigError("decode config: %v", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, c AppConfig) {
	v.SetDefault("threads", c.Threads)
	v.SetDefault("size", c.Size)
	v.SetDefault("rows", c.Rows)
	v.SetDefault("cols", c.Cols)
	v.SetDefault("workload", c.Workload)
	v.SetDefault("max-threads", c.MaxThreads)
	v.SetDefault("spawn-policy", c.SpawnPolicy)
	v.SetDefault("os-threads", c.OSThreads)
	v.SetDefault("quiet", c.Quiet)
	v.SetDefault("no-color", c.NoColor)
	v.SetDefault("log-level", c.LogLevel)
	v.SetDefault("log-format", c.LogFormat)
	v.SetDefault("metrics-addr", c.MetricsAddr)
	v.SetDefault("profile", c.Profile)
	v.SetDefault("calibrate-max", c.CalibrateMax)
	v.SetDefault("repeats", c.Repeats)
}

// Validate checks the configuration for semantic consistency.
func (c AppConfig) Validate() error {
	switch {
	case c.Threads < 0:
		return apperrors.NewConfigError("threads must not be negative, got %d", c.Threads)
	case c.Size <= 0:
		return apperrors.NewConfigError("size must be positive, got %d", c.Size)
	case c.Rows <= 0 || c.Cols <= 0:
		return apperrors.NewConfigError("matrix dimensions must be positive, got %dx%d", c.Rows, c.Cols)
	case c.MaxThreads < 0:
		return apperrors.NewConfigError("max-threads must not be negative, got %d", c.MaxThreads)
	case c.CalibrateMax < 0:
		return apperrors.NewConfigError("calibrate-max must not be negative, got %d", c.CalibrateMax)
	case c.Repeats < 1:
		return apperrors.NewConfigError("repeats must be at least 1, got %d", c.Repeats)
	case c.Workload == "":
		return apperrors.NewConfigError("workload must not be empty")
	}
	if _, err := parallel.ParseSpawnPolicy(c.SpawnPolicy); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil || c.LogLevel == "" {
		return apperrors.NewConfigError("unknown log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return apperrors.NewConfigError("unknown log format %q (want console or json)", c.LogFormat)
	}
	return nil
}

// ParallelOptions translates the loop executor settings into options.
// The configuration must have been validated.
func (c AppConfig) ParallelOptions() []parallel.Option {
	policy, _ := parallel.ParseSpawnPolicy(c.SpawnPolicy)
	return []parallel.Option{
		parallel.WithMaxThreads(c.MaxThreads),
		parallel.WithSpawnPolicy(policy),
		parallel.WithOSThreads(c.OSThreads),
	}
}

// ApplyAdaptiveThreads fills in a thread count of zero. A calibrated count
// greater than zero wins over the hardware estimate.
func ApplyAdaptiveThreads(cfg AppConfig, calibrated int) AppConfig {
	if cfg.Threads != 0 {
		return cfg
	}
	if calibrated > 0 {
		cfg.Threads = calibrated
	} else {
		cfg.Threads = runtime.NumCPU()
	}
	return cfg
}

// String renders the loop settings on one line for banners and logs.
func (c AppConfig) String() string {
	return fmt.Sprintf("threads=%d workload=%s size=%d matrix=%dx%d max-threads=%d spawn-policy=%s",
		c.Threads, c.Workload, c.Size, c.Rows, c.Cols, c.MaxThreads, c.SpawnPolicy)
}
