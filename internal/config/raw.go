package config

import "fmt"

// RawConfig mirrors the YAML file. Pointers distinguish "absent" from the
// zero value so a file only overrides what it sets.
type RawConfig struct {
	LogLevel    *string         `yaml:"log_level"`
	LogFormat   *string         `yaml:"log_format"`
	Display     *string         `yaml:"display"`
	DBus        *RawDBus        `yaml:"dbus"`
	Socket      *RawSocket      `yaml:"socket"`
	HTTP        *RawHTTP        `yaml:"http"`
	Diagnostics *RawDiagnostics `yaml:"diagnostics"`
}

type RawDBus struct {
	Enabled *bool   `yaml:"enabled"`
	Name    *string `yaml:"name"`
}

type RawSocket struct {
	Enabled *bool   `yaml:"enabled"`
	Path    *string `yaml:"path"`
}

type RawHTTP struct {
	Enabled *bool   `yaml:"enabled"`
	Listen  *string `yaml:"listen"`
}

type RawDiagnostics struct {
	ListWindowsOnMiss *bool `yaml:"list_windows_on_miss"`
	SuggestClosest    *bool `yaml:"suggest_closest"`
}

// ValidationError ties a validation failure to its YAML path and, when
// known, the file position that set it.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// merge applies overlay on top of c. Set fields in overlay win.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	setPtr(&out.LogLevel, overlay.LogLevel)
	setPtr(&out.LogFormat, overlay.LogFormat)
	setPtr(&out.Display, overlay.Display)

	if overlay.DBus != nil {
		base := RawDBus{}
		if out.DBus != nil {
			base = *out.DBus
		}
		setPtr(&base.Enabled, overlay.DBus.Enabled)
		setPtr(&base.Name, overlay.DBus.Name)
		out.DBus = &base
	}
	if overlay.Socket != nil {
		base := RawSocket{}
		if out.Socket != nil {
			base = *out.Socket
		}
		setPtr(&base.Enabled, overlay.Socket.Enabled)
		setPtr(&base.Path, overlay.Socket.Path)
		out.Socket = &base
	}
	if overlay.HTTP != nil {
		base := RawHTTP{}
		if out.HTTP != nil {
			base = *out.HTTP
		}
		setPtr(&base.Enabled, overlay.HTTP.Enabled)
		setPtr(&base.Listen, overlay.HTTP.Listen)
		out.HTTP = &base
	}
	if overlay.Diagnostics != nil {
		base := RawDiagnostics{}
		if out.Diagnostics != nil {
			base = *out.Diagnostics
		}
		setPtr(&base.ListWindowsOnMiss, overlay.Diagnostics.ListWindowsOnMiss)
		setPtr(&base.SuggestClosest, overlay.Diagnostics.SuggestClosest)
		out.Diagnostics = &base
	}
	return out
}

func setPtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

func derefOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// BuildEffectiveConfig applies raw over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	cfg.LogLevel = derefOr(raw.LogLevel, cfg.LogLevel)
	cfg.LogFormat = derefOr(raw.LogFormat, cfg.LogFormat)
	cfg.Display = derefOr(raw.Display, cfg.Display)

	if raw.DBus != nil {
		cfg.DBus.Enabled = derefOr(raw.DBus.Enabled, cfg.DBus.Enabled)
		cfg.DBus.Name = derefOr(raw.DBus.Name, cfg.DBus.Name)
	}
	if raw.Socket != nil {
		cfg.Socket.Enabled = derefOr(raw.Socket.Enabled, cfg.Socket.Enabled)
		cfg.Socket.Path = derefOr(raw.Socket.Path, cfg.Socket.Path)
	}
	if raw.HTTP != nil {
		cfg.HTTP.Enabled = derefOr(raw.HTTP.Enabled, cfg.HTTP.Enabled)
		cfg.HTTP.Listen = derefOr(raw.HTTP.Listen, cfg.HTTP.Listen)
	}
	if raw.Diagnostics != nil {
		cfg.Diagnostics.ListWindowsOnMiss = derefOr(raw.Diagnostics.ListWindowsOnMiss, cfg.Diagnostics.ListWindowsOnMiss)
		cfg.Diagnostics.SuggestClosest = derefOr(raw.Diagnostics.SuggestClosest, cfg.Diagnostics.SuggestClosest)
	}
	return cfg
}
