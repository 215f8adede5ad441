package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the global config at a temp dir and runs the test from an
// empty working directory.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp dir: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, key := range envKeys {
		name := "STEPR_" + strings.ToUpper(key)
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := GlobalPath(), "/custom/config/stepr/stepr.yml"; got != want {
		t.Errorf("GlobalPath() = %v, want %v", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	got := GlobalPath()
	if !filepath.IsAbs(got) {
		t.Errorf("GlobalPath() should return absolute path, got %v", got)
	}
	if filepath.Base(got) != "stepr.yml" {
		t.Errorf("GlobalPath() should end with stepr.yml, got %v", got)
	}
}

func TestProjectPath(t *testing.T) {
	if got, want := ProjectPath(), "stepr.yml"; got != want {
		t.Errorf("ProjectPath() = %v, want %v", got, want)
	}
}

func TestExists(t *testing.T) {
	isolate(t)

	if Exists() {
		t.Error("Exists() = true, want false when no config files exist")
	}

	if err := os.WriteFile(ProjectPath(), []byte("linear: true\n"), 0644); err != nil {
		t.Fatalf("Failed to write project config: %v", err)
	}
	if !Exists() {
		t.Error("Exists() = false, want true when project config exists")
	}
}

func TestLoad_NoConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Linear {
		t.Errorf("Load() default Linear = %v, want false", cfg.Linear)
	}
	if cfg.Orientation != "horizontal" {
		t.Errorf("Load() default Orientation = %v, want horizontal", cfg.Orientation)
	}
	if cfg.Direction != "ltr" {
		t.Errorf("Load() default Direction = %v, want ltr", cfg.Direction)
	}
	if cfg.ShowError != nil {
		t.Errorf("Load() default ShowError = %v, want unset", *cfg.ShowError)
	}
	if !cfg.DisplayDefaultIndicatorType {
		t.Error("Load() default DisplayDefaultIndicatorType = false, want true")
	}
	if cfg.DataDir != ".stepr" {
		t.Errorf("Load() default DataDir = %v, want .stepr", cfg.DataDir)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Load() default LogLevel = %v, want info", cfg.LogLevel)
	}
	if !cfg.Journal {
		t.Error("Load() default Journal = false, want true")
	}
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	showError := true
	global := &Config{
		Linear:      true,
		Orientation: "vertical",
		ShowError:   &showError,
		DataDir:     ".global",
		LogLevel:    "warn",
	}
	if err := WriteGlobal(global); err != nil {
		t.Fatalf("WriteGlobal() error = %v", err)
	}
	if err := WriteProject(&Config{Linear: true, Orientation: "horizontal", DataDir: ".project", LogLevel: "debug"}); err != nil {
		t.Fatalf("WriteProject() error = %v", err)
	}
	t.Setenv("STEPR_LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Linear {
		t.Error("Load() Linear = false, want true")
	}
	if cfg.Orientation != "horizontal" {
		t.Errorf("Load() Orientation = %v, want project value horizontal", cfg.Orientation)
	}
	if cfg.DataDir != ".project" {
		t.Errorf("Load() DataDir = %v, want .project", cfg.DataDir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("Load() LogLevel = %v, want env value error", cfg.LogLevel)
	}
	if cfg.ShowError == nil || !*cfg.ShowError {
		t.Error("Load() ShowError should come from the global config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "defaults", config: &Config{Orientation: "horizontal", Direction: "ltr", LogLevel: "info"}},
		{name: "empty", config: &Config{}},
		{name: "bad orientation", config: &Config{Orientation: "diagonal"}, wantErr: true},
		{name: "bad direction", config: &Config{Direction: "up"}, wantErr: true},
		{name: "bad log level", config: &Config{LogLevel: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGlobalOptions(t *testing.T) {
	cfg := &Config{DisplayDefaultIndicatorType: false}
	opts := cfg.GlobalOptions()
	if opts.ShowError != nil {
		t.Error("GlobalOptions() ShowError should stay unset")
	}
	if opts.DisplayDefaultIndicatorType == nil || *opts.DisplayDefaultIndicatorType {
		t.Error("GlobalOptions() DisplayDefaultIndicatorType should be false")
	}
}
