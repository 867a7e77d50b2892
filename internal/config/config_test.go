package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.DBus.Name != "org.gnome.Shell.WindowPositioner" {
		t.Fatalf("unexpected default bus name %q", cfg.DBus.Name)
	}
	if cfg.HTTP.Enabled {
		t.Fatalf("expected http mirror to be off by default")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
	if res.Config.LogLevel != "info" || !res.Config.Socket.Enabled {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogFormat != "auto" {
		t.Fatalf("expected log_format auto, got %q", res.Config.LogFormat)
	}
}

func TestLoadFromPath_PartialSectionKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"log_level: debug",
		"http:",
		"  enabled: true",
		"diagnostics:",
		"  suggest_closest: false",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level = %q", cfg.LogLevel)
	}
	if !cfg.HTTP.Enabled || cfg.HTTP.Listen != DefaultHTTPListen {
		t.Fatalf("http = %+v", cfg.HTTP)
	}
	if cfg.Diagnostics.SuggestClosest || !cfg.Diagnostics.ListWindowsOnMiss {
		t.Fatalf("diagnostics = %+v", cfg.Diagnostics)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "dbus:\n  bus_name: foo.bar\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "bus_name") {
		t.Fatalf("expected error to mention unknown key, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourcePosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log_level: info\nlog_format: fancy\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "log_format" || verr.Source.Line != 2 {
		t.Fatalf("unexpected error context: path=%q source=%+v", verr.Path, verr.Source)
	}
	if !strings.HasPrefix(err.Error(), path+":2:") {
		t.Fatalf("expected file:line prefix, got %v", err)
	}
}

func TestLoadFromPath_DropInsOverrideInNameOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "log_level: warn\nhttp:\n  listen: 127.0.0.1:9000\n")
	writeFile(t, filepath.Join(dir, "config.d", "20-debug.yaml"), "log_level: debug\n")
	writeFile(t, filepath.Join(dir, "config.d", "10-error.yaml"), "log_level: error\n")
	writeFile(t, filepath.Join(dir, "config.d", "notes.txt"), "ignored")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.LogLevel != "debug" {
		t.Fatalf("expected last drop-in to win, got %q", res.Config.LogLevel)
	}
	if res.Config.HTTP.Listen != "127.0.0.1:9000" {
		t.Fatalf("expected main file value to survive, got %q", res.Config.HTTP.Listen)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 files, got %v", res.Files)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bus name one element", func(c *Config) { c.DBus.Name = "winpos" }, "dbus.name"},
		{"bus name digit element", func(c *Config) { c.DBus.Name = "org.1gnome" }, "dbus.name"},
		{"unique bus name", func(c *Config) { c.DBus.Name = ":1.42" }, "dbus.name"},
		{"relative socket", func(c *Config) { c.Socket.Path = "winpos.sock" }, "socket.path"},
		{"bad listen", func(c *Config) { c.HTTP.Enabled = true; c.HTTP.Listen = "7878" }, "http.listen"},
		{"nothing enabled", func(c *Config) { c.DBus.Enabled = false; c.Socket.Enabled = false }, "dbus.enabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("path = %q, want %q", verr.Path, tt.path)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.DBus.Enabled = false
	cfg.DBus.Name = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled dbus should not validate its name: %v", err)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.HTTP.Enabled = true
	cfg.Socket.Path = "/tmp/winpos-test.sock"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !res.Config.HTTP.Enabled || res.Config.Socket.Path != "/tmp/winpos-test.sock" {
		t.Fatalf("round trip lost values: %+v", res.Config)
	}
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "http:\n  listen: 127.0.0.1:9999\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	value, src, err := Explain(res, "http.listen")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != "127.0.0.1:9999" || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("unexpected explain result: %v %+v", value, src)
	}

	value, src, err = Explain(res, "dbus.enabled")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if value != true || src.Kind != SourceDefault {
		t.Fatalf("unexpected explain result: %v %+v", value, src)
	}

	if _, _, err := Explain(res, "layouts.grid"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}
