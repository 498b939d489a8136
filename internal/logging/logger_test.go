package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestFieldHelpers tests the Field constructor functions.
func TestFieldHelpers(t *testing.T) {
	testErr := errors.New("partition failed")
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("run_id", "abc"), "run_id", "abc"},
		{"Int", Int("workers", 3), "workers", 3},
		{"Int64", Int64("low", -7), "low", int64(-7)},
		{"Uint64", Uint64("n", 12345678901234567890), "n", uint64(12345678901234567890)},
		{"Float64", Float64("seconds", 0.25), "seconds", 0.25},
		{"Bool", Bool("fallback", true), "fallback", true},
		{"Duration", Duration("elapsed", time.Second), "elapsed", time.Second},
		{"Err", Err(testErr), "error", testErr},
		{"Err nil", Err(nil), "error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

// TestNewZerologAdapter tests the ZerologAdapter constructor.
func TestNewZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewZerologAdapter(zerolog.New(&buf))

	if adapter == nil {
		t.Fatal("NewZerologAdapter returned nil")
	}

	adapter.Info("test message")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("NewZerologAdapter logger not working, output: %s", buf.String())
	}
}

// TestNewDefaultLogger tests the default logger constructor.
func TestNewDefaultLogger(t *testing.T) {
	if NewDefaultLogger() == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}
}

// TestNewLogger tests the component logger constructors.
func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, "parallel").Info("hello")
		output := buf.String()
		if !strings.Contains(output, `"component":"parallel"`) {
			t.Errorf("NewLogger should include component field, got: %s", output)
		}
		if !strings.Contains(output, "hello") {
			t.Errorf("NewLogger should include message, got: %s", output)
		}
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		NewConsoleLogger(&buf, "cli").Info("hello", Int("workers", 3))
		output := buf.String()
		for _, want := range []string{"hello", "component=cli", "workers=3"} {
			if !strings.Contains(output, want) {
				t.Errorf("console output should contain %q, got: %s", want, output)
			}
		}
	})
}

// TestZerologAdapter_Levels tests each leveled method.
func TestZerologAdapter_Levels(t *testing.T) {
	tests := []struct {
		name     string
		log      func(l Logger)
		contains []string
	}{
		{
			name:     "info with fields",
			log:      func(l Logger) { l.Info("execution time", Float64("seconds", 1.5), Int("workers", 3)) },
			contains: []string{"execution time", `"level":"info"`, "1.5", `"workers":3`},
		},
		{
			name:     "warn",
			log:      func(l Logger) { l.Warn("worker fallback", Int("partition", 2)) },
			contains: []string{"worker fallback", `"level":"warn"`, `"partition":2`},
		},
		{
			name:     "error with cause",
			log:      func(l Logger) { l.Error("loop failed", errors.New("boom"), String("run_id", "r1")) },
			contains: []string{"loop failed", "boom", `"level":"error"`, "r1"},
		},
		{
			name:     "error with nil cause",
			log:      func(l Logger) { l.Error("warning", nil) },
			contains: []string{"warning", "error"},
		},
		{
			name:     "debug",
			log:      func(l Logger) { l.Debug("partition done", Bool("inline", true)) },
			contains: []string{"partition done", `"level":"debug"`, `"inline":true`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))
			tt.log(logger)

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

// TestZerologAdapter_PrintfPrintln tests the printf-style methods.
func TestZerologAdapter_PrintfPrintln(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Printf("formatted %s %d", "message", 42)
	logger.Println("hello", "world")

	output := buf.String()
	if !strings.Contains(output, "formatted message 42") {
		t.Errorf("Printf should format message, got: %s", output)
	}
	if !strings.Contains(output, "hello world") {
		t.Errorf("Println should join arguments, got: %s", output)
	}
}

// TestZerologAdapter_applyFields tests field application with all supported types.
func TestZerologAdapter_applyFields(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		contains string
	}{
		{"string field", Field{Key: "str", Value: "hello"}, "hello"},
		{"int field", Field{Key: "num", Value: 42}, "42"},
		{"int64 field", Field{Key: "big", Value: int64(9223372036854775807)}, "9223372036854775807"},
		{"uint64 field", Field{Key: "huge", Value: uint64(18446744073709551615)}, "18446744073709551615"},
		{"float64 field", Field{Key: "pi", Value: 3.14}, "3.14"},
		{"error field", Field{Key: "err", Value: errors.New("oops")}, "oops"},
		{"bool field", Field{Key: "flag", Value: true}, "true"},
		{"interface field", Field{Key: "data", Value: struct{ X int }{X: 1}}, `{"X":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewLogger(&buf, "test").Info("test", tt.field)

			if output := buf.String(); !strings.Contains(output, tt.contains) {
				t.Errorf("applyFields should handle %s, output: %s", tt.name, output)
			}
		})
	}
}

// TestStdLoggerAdapter tests the standard library backend.
func TestStdLoggerAdapter(t *testing.T) {
	tests := []struct {
		name     string
		log      func(l Logger)
		contains []string
	}{
		{
			name:     "info no fields",
			log:      func(l Logger) { l.Info("info message") },
			contains: []string{"[INFO]", "info message"},
		},
		{
			name:     "info with fields",
			log:      func(l Logger) { l.Info("execution time", Float64("seconds", 0.5)) },
			contains: []string{"[INFO]", "execution time", "seconds=0.5"},
		},
		{
			name:     "warn",
			log:      func(l Logger) { l.Warn("fallback", Int("partition", 1)) },
			contains: []string{"[WARN]", "fallback", "partition=1"},
		},
		{
			name:     "error with fields",
			log:      func(l Logger) { l.Error("db failed", errors.New("timeout"), String("db", "mysql")) },
			contains: []string{"[ERROR]", "db failed", "error=timeout", "db=mysql"},
		},
		{
			name:     "debug",
			log:      func(l Logger) { l.Debug("trace", Int("line", 42)) },
			contains: []string{"[DEBUG]", "trace", "line=42"},
		},
		{
			name:     "printf",
			log:      func(l Logger) { l.Printf("value is %d", 123) },
			contains: []string{"value is 123"},
		},
		{
			name:     "println",
			log:      func(l Logger) { l.Println("a", "b", "c") },
			contains: []string{"a b c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewStdLoggerAdapter(log.New(&buf, "", 0)))

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

// TestLoggerInterface verifies all backends implement the Logger interface.
func TestLoggerInterface(t *testing.T) {
	var buf bytes.Buffer
	var _ Logger = NewLogger(&buf, "test")
	var _ Logger = NewStdLoggerAdapter(log.New(&buf, "", 0))
	var _ Logger = Nop{}
}
