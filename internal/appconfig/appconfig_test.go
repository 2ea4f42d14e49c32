package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.UploadDir != "uploads" {
		t.Fatalf("UploadDir=%q want uploads", cfg.UploadDir)
	}
	if cfg.OutputDir != "visualizations" {
		t.Fatalf("OutputDir=%q want visualizations", cfg.OutputDir)
	}
	if got := cfg.ListenAddr(); got != "0.0.0.0:5000" {
		t.Fatalf("ListenAddr=%q want 0.0.0.0:5000", got)
	}
	if cfg.MaxUploadBytes() != 100<<20 {
		t.Fatalf("MaxUploadBytes=%d want %d", cfg.MaxUploadBytes(), 100<<20)
	}
}

func TestLoadReadsFileAndFillsGaps(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	payload := `{"uploadDir":"incoming","port":8080,"debug":true}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.UploadDir != "incoming" {
		t.Fatalf("UploadDir=%q want incoming", cfg.UploadDir)
	}
	if cfg.Port != 8080 {
		t.Fatalf("Port=%d want 8080", cfg.Port)
	}
	if !cfg.Debug {
		t.Fatalf("Debug not carried over from file")
	}
	if cfg.OutputDir != "visualizations" {
		t.Fatalf("OutputDir default not applied: %q", cfg.OutputDir)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("ConfigPath=%q want %q", cfg.ConfigPath, path)
	}
}

func TestLoadRejectsBrokenJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
