package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Store.Path == "" {
		t.Error("expected a default store path")
	}
	if !cfg.Store.AutosaveEnabled() {
		t.Error("autosave should default to on")
	}
	if cfg.Store.Archive != "" {
		t.Error("archive should default to off")
	}
	if cfg.Server.ListenAddr() != "127.0.0.1:8642" {
		t.Errorf("listen addr = %q", cfg.Server.ListenAddr())
	}
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg.Server.Port != 8642 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
store:
  path: /tmp/custom/memories.json
  autosave: false
  archive: /tmp/custom/tombstones.db
server:
  bind: 0.0.0.0
  port: 9000
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Path != "/tmp/custom/memories.json" {
		t.Errorf("path = %q", cfg.Store.Path)
	}
	if cfg.Store.AutosaveEnabled() {
		t.Error("autosave should be off")
	}
	if cfg.Store.Archive != "/tmp/custom/tombstones.db" {
		t.Errorf("archive = %q", cfg.Store.Archive)
	}
	if cfg.Server.ListenAddr() != "0.0.0.0:9000" {
		t.Errorf("listen addr = %q", cfg.Server.ListenAddr())
	}
}

func TestLoadPartialFileFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7000\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.Bind != "127.0.0.1" {
		t.Errorf("bind = %q", cfg.Server.Bind)
	}
	if cfg.Store.Path == "" {
		t.Error("store path should fall back to default")
	}
	if !cfg.Store.AutosaveEnabled() {
		t.Error("autosave should fall back to on")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("store: [not: a map"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}
