package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBusName    = "org.gnome.Shell.WindowPositioner"
	DefaultHTTPListen = "127.0.0.1:7878"
)

// Config is the effective daemon configuration.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Display overrides $DISPLAY for the X connection.
	Display string `yaml:"display,omitempty"`

	DBus        DBusConfig        `yaml:"dbus"`
	Socket      SocketConfig      `yaml:"socket"`
	HTTP        HTTPConfig        `yaml:"http"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

type DBusConfig struct {
	Enabled bool   `yaml:"enabled"`
	Name    string `yaml:"name"`
}

type SocketConfig struct {
	Enabled bool `yaml:"enabled"`
	// Path is empty for $XDG_RUNTIME_DIR/winpos.sock.
	Path string `yaml:"path"`
}

type HTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

type DiagnosticsConfig struct {
	ListWindowsOnMiss bool `yaml:"list_windows_on_miss"`
	SuggestClosest    bool `yaml:"suggest_closest"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "auto",
		DBus: DBusConfig{
			Enabled: true,
			Name:    DefaultBusName,
		},
		Socket: SocketConfig{
			Enabled: true,
		},
		HTTP: HTTPConfig{
			Enabled: false,
			Listen:  DefaultHTTPListen,
		},
		Diagnostics: DiagnosticsConfig{
			ListWindowsOnMiss: true,
			SuggestClosest:    true,
		},
	}
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	switch c.LogFormat {
	case "auto", "console", "json":
	default:
		return &ValidationError{Path: "log_format", Err: fmt.Errorf("log_format must be one of: auto, console, json")}
	}
	if c.DBus.Enabled && !validBusName(c.DBus.Name) {
		return &ValidationError{Path: "dbus.name", Err: fmt.Errorf("%q is not a valid well-known bus name", c.DBus.Name)}
	}
	if c.Socket.Path != "" && !filepath.IsAbs(c.Socket.Path) {
		return &ValidationError{Path: "socket.path", Err: fmt.Errorf("socket.path must be absolute")}
	}
	if c.HTTP.Enabled {
		if _, _, err := net.SplitHostPort(c.HTTP.Listen); err != nil {
			return &ValidationError{Path: "http.listen", Err: fmt.Errorf("invalid listen address: %w", err)}
		}
	}
	if !c.DBus.Enabled && !c.Socket.Enabled && !c.HTTP.Enabled {
		return &ValidationError{Path: "dbus.enabled", Err: fmt.Errorf("at least one of dbus, socket or http must be enabled")}
	}
	return nil
}

// validBusName checks the D-Bus well-known name rules: two or more
// dot-separated elements of [A-Za-z0-9_-], none starting with a digit.
func validBusName(name string) bool {
	if name == "" || len(name) > 255 || strings.HasPrefix(name, ":") {
		return false
	}
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return false
	}
	for _, part := range parts {
		if part == "" || (part[0] >= '0' && part[0] <= '9') {
			return false
		}
		for _, r := range part {
			ok := r == '_' || r == '-' ||
				(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
			if !ok {
				return false
			}
		}
	}
	return true
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the configuration to path, or to the standard location when
// path is empty.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
