package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultUIState(t *testing.T) {
	state := DefaultUIState()

	if state == nil {
		t.Fatal("DefaultUIState returned nil")
	}
	if state.Layout.Orientation != "" || state.Layout.Direction != "" {
		t.Error("Expected layout to defer to configuration by default")
	}
	if state.Help.Expanded {
		t.Error("Expected help to be collapsed by default")
	}
}

func TestLoadNonExistent(t *testing.T) {
	state := Load(filepath.Join(t.TempDir(), "missing"))

	if state == nil {
		t.Fatal("Load returned nil for non-existent file")
	}
	if state.Help.Expanded {
		t.Error("Expected default help state")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "data")

	state := &UIState{
		Layout: LayoutState{Orientation: "vertical", Direction: "rtl"},
		Help:   HelpState{Expanded: true},
	}

	if err := Save(tmpDir, state); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	path := filepath.Join(tmpDir, "ui-state.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("State file was not created")
	}

	loaded := Load(tmpDir)
	if *loaded != *state {
		t.Errorf("Loaded state = %+v, want %+v", *loaded, *state)
	}
}

func TestLoadCorrupted(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "ui-state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	state := Load(tmpDir)
	if state == nil {
		t.Fatal("Load returned nil for corrupted file")
	}
	if state.Help.Expanded {
		t.Error("Expected default state for corrupted file")
	}
}
