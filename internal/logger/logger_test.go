package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

// newBuffered returns a logger writing to a buffer at level.
func newBuffered(t *testing.T, level Level) (*Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("STEPR_LOG_LEVEL", "")
	t.Setenv("STEPR_LOG_FILE", "")

	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(level)
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"Warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLevel_ZapMapping(t *testing.T) {
	tests := []struct {
		level Level
		name  string
		zap   zapcore.Level
	}{
		{LevelDebug, "DEBUG", zapcore.DebugLevel},
		{LevelInfo, "INFO", zapcore.InfoLevel},
		{LevelWarn, "WARN", zapcore.WarnLevel},
		{LevelError, "ERROR", zapcore.ErrorLevel},
		{Level(42), "UNKNOWN", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.String(); got != tt.name {
				t.Errorf("String() = %s, want %s", got, tt.name)
			}
			if got := tt.level.zapLevel(); got != tt.zap {
				t.Errorf("zapLevel() = %v, want %v", got, tt.zap)
			}
		})
	}
}

func TestLogger_SetLevelUpdatesAtomicLevel(t *testing.T) {
	l, buf := newBuffered(t, LevelWarn)

	if got := l.atom.Level(); got != zapcore.WarnLevel {
		t.Fatalf("atomic level = %v, want warn", got)
	}
	if l.atom.Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at WARN")
	}

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	if out := buf.String(); strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below WARN were written: %q", out)
	}
	if !strings.Contains(buf.String(), "warn message") {
		t.Error("warn message should be written at WARN")
	}

	// Lowering the level takes effect on the existing core.
	l.SetLevel(LevelDebug)
	if !l.atom.Enabled(zapcore.DebugLevel) {
		t.Error("debug should be enabled after SetLevel(LevelDebug)")
	}
	l.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Error("debug message should be written after lowering the level")
	}
}

func TestLogger_ConsoleEncoderLine(t *testing.T) {
	l, buf := newBuffered(t, LevelDebug)

	l.Warn("move %d -> %d blocked", 1, 3)

	// ISO8601 time, capital level and message, tab separated, no caller.
	line := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}(Z|[+-]\d{4})\tWARN\tmove 1 -> 3 blocked\n$`)
	if !line.MatchString(buf.String()) {
		t.Errorf("unexpected log line %q", buf.String())
	}
}

func TestLogger_SetOutputKeepsLevel(t *testing.T) {
	l, _ := newBuffered(t, LevelError)

	var next bytes.Buffer
	l.SetOutput(&next)
	l.Warn("dropped")
	l.Error("kept")
	if out := next.String(); strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("level not kept across SetOutput: %q", out)
	}
}

func TestLogger_EnvConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.log")
	t.Setenv("STEPR_LOG_LEVEL", "debug")
	t.Setenv("STEPR_LOG_FILE", path)

	l := New()
	if l.level != LevelDebug || l.atom.Level() != zapcore.DebugLevel {
		t.Errorf("level from env = %v / %v, want debug", l.level, l.atom.Level())
	}
	l.Debug("from env")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "DEBUG\tfrom env") {
		t.Errorf("log file = %q", string(content))
	}
}

func TestLogger_SetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepr.log")
	l, _ := newBuffered(t, LevelDebug)

	if err := l.SetFile(path); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	l.Debug("selection %d -> %d", 0, 1)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// A second close has nothing left to release.
	if err := l.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "selection 0 -> 1") {
		t.Errorf("log file missing message, got %q", string(content))
	}

	if err := l.SetFile(filepath.Join(t.TempDir(), "missing", "dir.log")); err == nil {
		t.Error("SetFile into a missing directory should fail")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	var buf bytes.Buffer
	Default.SetOutput(&buf)
	Default.SetLevel(LevelDebug)
	t.Cleanup(func() {
		Default.SetOutput(io.Discard)
		Default.SetLevel(LevelInfo)
	})

	Debug("debug %s", "test")
	Info("info %s", "test")
	Warn("warn %s", "test")
	Error("error %s", "test")

	for _, want := range []string{"DEBUG\tdebug test", "INFO\tinfo test", "WARN\twarn test", "ERROR\terror test"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}
