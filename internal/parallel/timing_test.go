package parallel

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agbru/parfor/internal/logging"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		entries = append(entries, m)
	}
	return entries
}

func TestLogReporterWritesExecutionTime(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := For(0, 99, func(int) {}, 3, WithLogger(logging.NewLogger(&buf, "parallel")))
	if err != nil {
		t.Fatalf("For() error = %v", err)
	}

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1: %s", len(entries), buf.String())
	}
	e := entries[0]
	if e["message"] != "execution time" || e["level"] != "info" {
		t.Errorf("entry = %v", e)
	}
	if e["workers"] != float64(2) || e["chunk_size"] != float64(34) || e["dims"] != float64(1) {
		t.Errorf("plan fields = %v", e)
	}
	if s, ok := e["seconds"].(float64); !ok || s < 0 {
		t.Errorf("seconds = %v", e["seconds"])
	}
	if _, ok := e["run_id"].(string); !ok {
		t.Errorf("run_id missing: %v", e)
	}
}

func TestLogReporterLogsFailure(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	rep := LogReporter{Logger: logging.NewLogger(&buf, "parallel")}
	cause := errors.New("partition broke")
	rep.Report(Report{
		Dims:     1,
		Outcomes: []Outcome{{Status: StatusFailed, Err: cause}},
		Err:      cause,
		FirstErr: cause,
	})

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[1]["level"] != "error" || entries[1]["failed_partitions"] != float64(1) {
		t.Errorf("failure entry = %v", entries[1])
	}
}

func TestReporterAdapters(t *testing.T) {
	t.Parallel()
	var calls []string
	multi := MultiReporter{
		ReporterFunc(func(Report) { calls = append(calls, "a") }),
		NopReporter{},
		ReporterFunc(func(Report) { calls = append(calls, "b") }),
	}
	multi.Report(Report{})
	if strings.Join(calls, "") != "ab" {
		t.Errorf("calls = %v, want [a b]", calls)
	}
}

func TestReportHelpers(t *testing.T) {
	t.Parallel()
	r := Report{
		Elapsed: 1500 * time.Millisecond,
		Outcomes: []Outcome{
			{Status: StatusOK},
			{Status: StatusFailed, Fallback: true},
			{Status: StatusSkipped},
			{Status: StatusOK, Fallback: true},
		},
	}
	if r.Seconds() != 1.5 {
		t.Errorf("Seconds() = %v", r.Seconds())
	}
	if len(r.Failed()) != 1 || r.Fallbacks() != 2 {
		t.Errorf("Failed() = %d, Fallbacks() = %d", len(r.Failed()), r.Fallbacks())
	}
}

func TestStopwatchMeasuresCPU(t *testing.T) {
	t.Parallel()
	sw := startStopwatch()
	x := 0
	for i := 0; i < 5_000_000; i++ {
		x += i % 7
	}
	_ = x
	elapsed, cpu, known := sw.stop()
	if elapsed <= 0 {
		t.Errorf("elapsed = %v", elapsed)
	}
	if known && cpu < 0 {
		t.Errorf("cpu = %v", cpu)
	}
}

func TestStatusString(t *testing.T) {
	t.Parallel()
	for s, want := range map[Status]string{StatusOK: "ok", StatusFailed: "failed", StatusSkipped: "skipped", Status(9): "unknown"} {
		if s.String() != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}

func TestParseSpawnPolicy(t *testing.T) {
	t.Parallel()
	for name, want := range map[string]SpawnPolicy{"": SpawnFallbackInline, "inline": SpawnFallbackInline, "abort": SpawnAbort} {
		got, err := ParseSpawnPolicy(name)
		if err != nil || got != want {
			t.Errorf("ParseSpawnPolicy(%q) = %v, %v", name, got, err)
		}
		if name != "" && got.String() != name {
			t.Errorf("String() = %q, want %q", got.String(), name)
		}
	}
	if _, err := ParseSpawnPolicy("retry"); err == nil {
		t.Error("ParseSpawnPolicy(retry) succeeded")
	}
}
