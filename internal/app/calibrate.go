package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agbru/parfor/internal/calibration"
	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/logging"
	"github.com/agbru/parfor/internal/workload"
)

func (a *Application) newCalibrateCmd() *cobra.Command {
	var (
		save  bool
		quick bool
	)
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Sweep thread counts for a workload and record the fastest",
		Long: "calibrate times one workload at increasing thread counts and keeps the\n" +
			"fastest. The result is saved as a profile that run uses when --threads is 0.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.exitCode = a.runCalibration(cmd.Context(), cmd.OutOrStdout(), save, quick)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", true, "Save the result to the calibration profile")
	cmd.Flags().BoolVar(&quick, "quick", false, "Try only a few thread counts around the CPU count")
	return cmd
}

// runCalibration sweeps the configured workload. With "all" the first
// registered workload is used.
func (a *Application) runCalibration(ctx context.Context, out io.Writer, save, quick bool) int {
	workloads, err := workload.Select(a.Config.Workload)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	w := workloads[0]

	counts := calibration.GenerateThreadCounts(a.Config.CalibrateMax)
	if quick {
		counts = calibration.GenerateQuickThreadCounts()
	}
	fmt.Fprintf(out, "Calibrating %s over thread counts %v (%d repeats each)...\n", w.Name(), counts, a.Config.Repeats)

	cfg := a.Config
	cfg.Quiet = true
	profile, err := calibration.Calibrate(ctx, calibration.Options{
		Workload: w,
		Params:   a.params(cfg),
		Counts:   counts,
		Repeats:  a.Config.Repeats,
		Logger:   a.Logger,
	}, out)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Calibration failed: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}

	if save {
		path := calibration.ResolveProfilePath(a.Config.Profile)
		if err := profile.SaveProfile(path); err != nil {
			a.Logger.Error("could not save calibration profile", err, logging.String("path", path))
			return apperrors.ExitErrorGeneric
		}
		fmt.Fprintf(out, "Profile saved to %s\n", path)
	}
	return apperrors.ExitSuccess
}
