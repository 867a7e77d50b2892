package positioner

import (
	"encoding/json"

	"github.com/1broseidon/winpos/internal/platform"
)

const unknownValue = "Unknown"

// WindowData is the serialized description of one window.
// Maximized carries the axis bit flags (0 none, 1 horizontal, 2 vertical, 3 both).
type WindowData struct {
	Title     string `json:"title"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Maximized int    `json:"maximized"`
	Minimized bool   `json:"minimized"`
	WMClass   string `json:"wmClass"`
}

// MonitorData is the serialized description of one monitor.
type MonitorData struct {
	Index     int  `json:"index"`
	X         int  `json:"x"`
	Y         int  `json:"y"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	IsPrimary bool `json:"isPrimary"`
}

// ErrorData is the payload returned in place of WindowData on failure.
type ErrorData struct {
	Error string `json:"error"`
}

// NewWindowData converts a window snapshot, substituting "Unknown" for an
// empty title or class.
func NewWindowData(w platform.Window) WindowData {
	title := w.Title
	if title == "" {
		title = unknownValue
	}
	class := w.WMClass
	if class == "" {
		class = unknownValue
	}
	return WindowData{
		Title:     title,
		X:         w.Bounds.X,
		Y:         w.Bounds.Y,
		Width:     w.Bounds.Width,
		Height:    w.Bounds.Height,
		Maximized: int(w.Maximized),
		Minimized: w.Minimized,
		WMClass:   class,
	}
}

// NewMonitorData converts displays, flagging exactly one entry as primary
// for a non-empty list. An out-of-range primary falls back to index 0.
func NewMonitorData(displays []platform.Display, primary int) []MonitorData {
	if primary < 0 || primary >= len(displays) {
		primary = 0
	}
	out := make([]MonitorData, 0, len(displays))
	for i, d := range displays {
		out = append(out, MonitorData{
			Index:     i,
			X:         d.Bounds.X,
			Y:         d.Bounds.Y,
			Width:     d.Bounds.Width,
			Height:    d.Bounds.Height,
			IsPrimary: i == primary,
		})
	}
	return out
}

// encode never fails for the shapes above; the fallback keeps the contract
// of always returning well-formed JSON.
func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `{"error":"failed to encode response"}`
	}
	return string(data)
}

func errorPayload(msg string) string {
	return encode(ErrorData{Error: msg})
}

// ParseWindowDocument splits a window document into its data or, for an
// error payload, its message.
func ParseWindowDocument(doc string) (*WindowData, string, error) {
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal([]byte(doc), &probe); err != nil {
		return nil, "", err
	}
	if probe.Error != nil {
		return nil, *probe.Error, nil
	}
	var data WindowData
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return nil, "", err
	}
	return &data, "", nil
}

// ParseMonitorDocument decodes a GetMonitorInfo document.
func ParseMonitorDocument(doc string) ([]MonitorData, error) {
	var out []MonitorData
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, err
	}
	return out, nil
}
