package main

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/1broseidon/winpos/internal/config"
	"github.com/1broseidon/winpos/internal/platform"
	"github.com/1broseidon/winpos/internal/positioner"
)

func TestParseRect(t *testing.T) {
	got, err := parseRect([]string{"-1920", "0", "1024", "768"})
	if err != nil {
		t.Fatalf("parseRect: %v", err)
	}
	want := positioner.Args{X: -1920, Y: 0, Width: 1024, Height: 768}
	if got != want {
		t.Fatalf("parseRect = %+v, want %+v", got, want)
	}

	if _, err := parseRect([]string{"0", "0", "wide", "768"}); err == nil || !strings.Contains(err.Error(), "WIDTH") {
		t.Fatalf("expected WIDTH error, got %v", err)
	}
	if _, err := parseRect([]string{"0", "0"}); err == nil {
		t.Fatalf("expected count error")
	}
	if _, err := parseRect([]string{"2147483648", "0", "1", "1"}); err == nil || !strings.Contains(err.Error(), "32-bit") {
		t.Fatalf("expected X range error, got %v", err)
	}
	if _, err := parseRect([]string{"0", "-2147483649", "1", "1"}); err == nil || !strings.Contains(err.Error(), "Y") {
		t.Fatalf("expected Y range error, got %v", err)
	}
	if got, err := parseRect([]string{"-2147483648", "2147483647", "1", "1"}); err != nil || got.X != -2147483648 || got.Y != 2147483647 {
		t.Fatalf("int32 bounds must parse, got %+v, %v", got, err)
	}
}

func TestPositionCommands_NegativeCoordinates(t *testing.T) {
	t.Cleanup(func() {
		cfgFile = ""
		clientTransport = "dbus"
		rootCmd.SetArgs(nil)
	})
	configFile := filepath.Join(t.TempDir(), "config.yaml")

	tests := [][]string{
		{"position", "--config", configFile, "--transport", "bogus", "firefox", "-1920", "0", "800", "600"},
		{"position-class", "-t", "bogus", "--config", configFile, "firefox", "-1920", "-40", "800", "600"},
		{"position-class-title", "--config", configFile, "-t", "bogus", "firefox", "docs", "0", "-1080", "800", "600"},
	}
	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			rootCmd.SetArgs(args)
			rootCmd.SetOut(io.Discard)
			rootCmd.SetErr(io.Discard)

			err := rootCmd.Execute()
			if err == nil || !strings.Contains(err.Error(), `unknown transport "bogus"`) {
				t.Fatalf("expected the command to reach transport selection, got %v", err)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()
	v := viper.New()
	v.Set("log_level", "debug")
	v.Set("socket.path", "/run/custom.sock")
	v.Set("http.enabled", true)
	v.Set("display", "")

	applyOverrides(cfg, v)

	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level = %q", cfg.LogLevel)
	}
	if cfg.Socket.Path != "/run/custom.sock" {
		t.Fatalf("socket.path = %q", cfg.Socket.Path)
	}
	if !cfg.HTTP.Enabled {
		t.Fatalf("expected http.enabled override")
	}
	if cfg.DBus.Name != config.DefaultBusName {
		t.Fatalf("unset keys must keep their value, dbus.name = %q", cfg.DBus.Name)
	}
	if cfg.Display != "" {
		t.Fatalf("empty override must not clear display")
	}
}

func TestApplyOverrides_Environment(t *testing.T) {
	t.Setenv("WINPOS_DBUS_NAME", "org.example.Positioner")
	t.Setenv("WINPOS_SOCKET_ENABLED", "false")

	v := viper.New()
	v.SetEnvPrefix("WINPOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := config.DefaultConfig()
	applyOverrides(cfg, v)

	if cfg.DBus.Name != "org.example.Positioner" {
		t.Fatalf("dbus.name = %q", cfg.DBus.Name)
	}
	if cfg.Socket.Enabled {
		t.Fatalf("expected socket disabled from environment")
	}
}

func TestWriteDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := writeDocument(&buf, `{"error":"No active window found"}`, false); err != nil {
		t.Fatalf("writeDocument: %v", err)
	}
	if buf.String() != "{\"error\":\"No active window found\"}\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	buf.Reset()
	if err := writeDocument(&buf, `[{"index":0}]`, true); err != nil {
		t.Fatalf("writeDocument: %v", err)
	}
	if buf.String() != "[\n  {\n    \"index\": 0\n  }\n]\n" {
		t.Fatalf("unexpected pretty output %q", buf.String())
	}
}

func TestPrintWindows(t *testing.T) {
	windows := []platform.Window{
		{ID: 0x1a00003, Title: "Mozilla Firefox", WMClass: "firefox", Bounds: platform.Rect{X: -10, Y: 20, Width: 800, Height: 600}, Maximized: platform.MaxBoth, Type: platform.WindowNormal},
		{ID: 0x200001, Title: "panel", WMClass: "xfce4-panel", Type: platform.WindowOther},
	}

	var buf bytes.Buffer
	if err := printWindows(&buf, windows, "table"); err != nil {
		t.Fatalf("printWindows: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "0x1a00003") || !strings.Contains(out, "800x600-10+20") || !strings.Contains(out, "both") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if strings.Contains(out, "xfce4-panel") {
		t.Fatalf("table should only list normal windows:\n%s", out)
	}

	buf.Reset()
	if err := printWindows(&buf, windows, "json"); err != nil {
		t.Fatalf("printWindows: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(rows) != 2 || rows[0]["wmClass"] != "firefox" || rows[1]["normal"] != false {
		t.Fatalf("unexpected json rows: %v", rows)
	}

	if err := printWindows(&buf, windows, "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
