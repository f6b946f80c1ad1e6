package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Resolution.MaxDepth != 175 {
		t.Errorf("expected MaxDepth=175, got %d", cfg.Resolution.MaxDepth)
	}
	if cfg.Resolution.StoreTree {
		t.Errorf("expected StoreTree=false by default")
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("expected default output format json, got %s", cfg.Output.Format)
	}
}

func TestConfigSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "modus.yaml")

	cfg := DefaultConfig()
	cfg.Resolution.MaxDepth = 42
	cfg.Output.Format = FormatASCIIProof

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Resolution.MaxDepth != 42 {
		t.Errorf("expected MaxDepth=42 after reload, got %d", loaded.Resolution.MaxDepth)
	}
	if loaded.Output.Format != FormatASCIIProof {
		t.Errorf("expected output format ascii-proof after reload, got %s", loaded.Output.Format)
	}
}

func TestConfigLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("expected no error for a missing config file, got %v", err)
	}
	if cfg.Resolution.MaxDepth != 175 {
		t.Errorf("expected default MaxDepth=175 for a missing file, got %d", cfg.Resolution.MaxDepth)
	}
}
