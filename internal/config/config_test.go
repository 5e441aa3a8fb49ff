package config

import (
	"os"
	"path/filepath"
	"testing"

	"fortio.org/log"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg := Default()
	err := Parse([]byte("db: /tmp/x.db\nmax_call_depth: 50\nno_stdlib: true\n"), &cfg)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.DB != "/tmp/x.db" {
		t.Errorf("expected db override, got %q", cfg.DB)
	}
	if cfg.MaxCallDepth != 50 {
		t.Errorf("expected max_call_depth 50, got %d", cfg.MaxCallDepth)
	}
	if !cfg.NoStdlib {
		t.Error("expected no_stdlib true")
	}
	if cfg.LogLevel != "warning" {
		t.Errorf("omitted log_level should keep default, got %q", cfg.LogLevel)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg := Default()
	if err := Parse(nil, &cfg); err != nil {
		t.Fatalf("empty document should parse: %v", err)
	}
	if cfg != Default() {
		t.Errorf("empty document changed settings: %+v", cfg)
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	cfg := Default()
	if err := Parse([]byte("colour: blue\n"), &cfg); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	for _, doc := range []string{
		"max_call_depth: -1\n",
		"log_level: loud\n",
		"max_call_depth: many\n",
	} {
		cfg := Default()
		if err := Parse([]byte(doc), &cfg); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goul.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\nhistory_file: h.txt\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.HistoryFile != "h.txt" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.DB != "goul.db" {
		t.Errorf("expected default db, got %q", cfg.DB)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadMissingDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if cfg.DB != "goul.db" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, FileName), []byte("db: home.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DB != "home.db" {
		t.Errorf("expected home.db, got %q", cfg.DB)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.Debug,
		"VERBOSE": log.Verbose,
		"info":    log.Info,
		"":        log.Warning,
		"warn":    log.Warning,
		"error":   log.Error,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestApplyLogLevel(t *testing.T) {
	prev := log.GetLogLevel()
	defer log.SetLogLevel(prev)

	cfg := Default()
	cfg.LogLevel = "error"
	if err := cfg.ApplyLogLevel(); err != nil {
		t.Fatal(err)
	}
	if log.GetLogLevel() != log.Error {
		t.Errorf("expected level error, got %v", log.GetLogLevel())
	}
}
