package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at a YAML path (e.g. "http.listen")
// and where it came from.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	values := map[string]any{
		"log_level":                        cfg.LogLevel,
		"log_format":                       cfg.LogFormat,
		"display":                          cfg.Display,
		"dbus.enabled":                     cfg.DBus.Enabled,
		"dbus.name":                        cfg.DBus.Name,
		"socket.enabled":                   cfg.Socket.Enabled,
		"socket.path":                      cfg.Socket.Path,
		"http.enabled":                     cfg.HTTP.Enabled,
		"http.listen":                      cfg.HTTP.Listen,
		"diagnostics.list_windows_on_miss": cfg.Diagnostics.ListWindowsOnMiss,
		"diagnostics.suggest_closest":      cfg.Diagnostics.SuggestClosest,
	}
	if v, ok := values[strings.TrimSpace(path)]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
