package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agbru/parfor/internal/calibration"
	apperrors "github.com/agbru/parfor/internal/errors"
	"github.com/agbru/parfor/internal/orchestration"
)

var smallRun = []string{"--size", "500", "--rows", "6", "--cols", "5", "--threads", "3", "--no-color"}

// runApp runs the application in a scratch working directory so that no
// parfor.yaml of the developer is picked up.
func runApp(t *testing.T, args ...string) (app *Application, code int, stdout, stderr string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var out, errOut bytes.Buffer
	app = New(append([]string{"parfor"}, args...), &errOut, WithProgress(orchestration.NullProgressReporter{}))
	code = app.Run(context.Background(), &out)
	return app, code, out.String(), errOut.String()
}

func TestRunAllWorkloads(t *testing.T) {
	app, code, out, _ := runApp(t, smallRun...)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0\n%s", code, out)
	}
	for _, want := range []string{"parfor: parallel loop executor", "Summary", "vector", "matrix", "checksum", "Global Status: Success", "all workloads completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if app.Config.Threads != 3 {
		t.Errorf("Threads = %d, want 3", app.Config.Threads)
	}
}

func TestRunSubcommandQuiet(t *testing.T) {
	_, code, out, errOut := runApp(t, append([]string{"run", "--quiet", "--workload", "vector"}, smallRun...)...)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0\n%s", code, out)
	}
	if !strings.HasPrefix(out, "vector\t") {
		t.Errorf("quiet output = %q, want a vector line first", out)
	}
	if strings.Contains(out, "parfor: parallel loop executor") {
		t.Error("quiet run printed the welcome banner")
	}
	if strings.Contains(errOut, "execution time") {
		t.Errorf("quiet run logged the timing report:\n%s", errOut)
	}
}

func TestRunReportsToMetricsAndLog(t *testing.T) {
	app, code, _, errOut := runApp(t, append([]string{"--log-format", "json", "--workload", "matrix"}, smallRun...)...)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(errOut, `"message":"execution time"`) || !strings.Contains(errOut, `"dims":2`) {
		t.Errorf("log missing the 2D timing report:\n%s", errOut)
	}

	families, err := app.Metrics.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	var calls float64
	for _, f := range families {
		if f.GetName() != "parfor_calls_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			calls += m.GetCounter().GetValue()
		}
	}
	if calls != 1 {
		t.Errorf("parfor_calls_total = %v, want 1", calls)
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"negative threads", []string{"--threads", "-2"}, "threads must not be negative"},
		{"bad spawn policy", []string{"--spawn-policy", "retry"}, "spawn"},
		{"unknown workload", []string{"--workload", "fft"}, "unknown workload"},
		{"unknown flag", []string{"--bogus"}, "unknown flag"},
		{"missing config file", []string{"--config", "missing.yaml"}, "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, code, _, errOut := runApp(t, tt.args...)
			if code != apperrors.ExitErrorConfig {
				t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
			}
			if !strings.Contains(errOut, tt.wantErr) {
				t.Errorf("stderr = %q, want it to mention %q", errOut, tt.wantErr)
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parfor.yaml")
	content := "threads: 2\nworkload: checksum\nsize: 300\nquiet: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	app, code, out, _ := runApp(t, "--config", path)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, want 0\n%s", code, out)
	}
	if app.Config.Threads != 2 || app.Config.Workload != "checksum" {
		t.Errorf("Config = %+v", app.Config)
	}
	if !strings.HasPrefix(out, "checksum\t") {
		t.Errorf("output = %q", out)
	}
}

func TestCalibrateThenRunUsesProfile(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "profile.json")

	_, code, out, _ := runApp(t, "calibrate", "--quick", "--workload", "vector", "--size", "500",
		"--repeats", "1", "--profile", profile, "--no-color")
	if code != apperrors.ExitSuccess {
		t.Fatalf("calibrate exit code = %d\n%s", code, out)
	}
	if !strings.Contains(out, "(Optimal)") || !strings.Contains(out, "Profile saved to") {
		t.Errorf("calibrate output:\n%s", out)
	}

	saved, loaded := calibration.LoadOrCreateProfile(profile)
	if !loaded || saved.OptimalThreads <= 0 {
		t.Fatalf("profile not saved: loaded=%v %+v", loaded, saved)
	}

	app, code, _, _ := runApp(t, "--quiet", "--workload", "vector", "--size", "500", "--profile", profile)
	if code != apperrors.ExitSuccess {
		t.Fatalf("run exit code = %d", code)
	}
	if app.Config.Threads != saved.OptimalThreads {
		t.Errorf("Threads = %d, want calibrated %d", app.Config.Threads, saved.OptimalThreads)
	}
}

func TestCalibrateWithoutSave(t *testing.T) {
	profile := filepath.Join(t.TempDir(), "profile.json")
	_, code, _, _ := runApp(t, "calibrate", "--quick", "--save=false", "--workload", "checksum",
		"--size", "300", "--repeats", "1", "--profile", profile)
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if _, err := os.Stat(profile); !os.IsNotExist(err) {
		t.Errorf("profile written despite --save=false: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	_, code, out, _ := runApp(t, "version")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "parfor "+Version) || !strings.Contains(out, "go version") {
		t.Errorf("version output = %q", out)
	}
}

func TestHasVersionFlag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-t", "4", "-v"}, true},
		{[]string{"version"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
