package app

import (
	"context"
	"fmt"
	"io"

	"github.com/agbru/parfor/internal/calibration"
	"github.com/agbru/parfor/internal/cli"
	"github.com/agbru/parfor/internal/config"
	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/logging"
	"github.com/agbru/parfor/internal/metrics"
	"github.com/agbru/parfor/internal/orchestration"
	"github.com/agbru/parfor/internal/parallel"
	"github.com/agbru/parfor/internal/sysmon"
	"github.com/agbru/parfor/internal/workload"
)

// runWorkloads orchestrates the default command: banners around the
// workload runs, the summary, then the optional metrics endpoint.
func (a *Application) runWorkloads(ctx context.Context, out io.Writer) int {
	workloads, err := workload.Select(a.Config.Workload)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	a.Config = a.resolveThreads(a.Config)

	if !a.Config.Quiet {
		cli.DisplayWelcome(out, a.Config, sysmon.Describe(ctx), workloads)
	}

	progress := a.progress
	if progress == nil {
		progress = cli.SpinnerProgressReporter{}
	}
	if a.Config.Quiet {
		progress = orchestration.NullProgressReporter{}
	}

	results := orchestration.ExecuteWorkloads(ctx, workloads, a.params(a.Config), progress, out)
	exitCode := orchestration.AnalyzeResults(results, cli.CLIResultPresenter{Quiet: a.Config.Quiet}, out)

	if !a.Config.Quiet {
		cli.DisplayResources(out, results)
		cli.DisplayGoodbye(out, exitCode)
	}

	if a.Config.MetricsAddr != "" && ctx.Err() == nil {
		if err := a.serveMetrics(ctx, a.Config.MetricsAddr); err != nil {
			a.Logger.Error("metrics server failed", err, logging.String("addr", a.Config.MetricsAddr))
			if exitCode == apperrors.ExitSuccess {
				exitCode = apperrors.ExitErrorGeneric
			}
		}
	}
	return exitCode
}

// resolveThreads fills in a zero thread count from a usable calibration
// profile, or from the CPU count.
func (a *Application) resolveThreads(cfg config.AppConfig) config.AppConfig {
	if cfg.Threads != 0 {
		return cfg
	}
	calibrated := 0
	path := calibration.ResolveProfilePath(cfg.Profile)
	if p := calibration.LoadUsable(path, calibration.DefaultMaxAge); p != nil {
		calibrated = p.OptimalThreads
		a.Logger.Debug("using calibration profile",
			logging.String("path", path),
			logging.Int("threads", calibrated),
		)
	}
	return config.ApplyAdaptiveThreads(cfg, calibrated)
}

// params builds the workload parameters. Every loop reports to the metrics
// registry, and to the log unless quiet.
func (a *Application) params(cfg config.AppConfig) workload.Params {
	reporters := parallel.MultiReporter{a.Metrics}
	if !cfg.Quiet {
		reporters = append(reporters, parallel.LogReporter{Logger: a.Logger})
	}
	return workload.Params{
		Threads:  cfg.Threads,
		Size:     cfg.Size,
		Rows:     cfg.Rows,
		Cols:     cfg.Cols,
		Options:  append(cfg.ParallelOptions(), parallel.WithLogger(a.Logger)),
		Reporter: reporters,
	}
}

func (a *Application) serveMetrics(ctx context.Context, addr string) error {
	a.Logger.Info("metrics available until interrupted", logging.String("url", "http://"+addr+"/metrics"))
	return metrics.NewServer(addr, a.Metrics, a.Logger).Serve(ctx)
}
