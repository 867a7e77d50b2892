package mcp

import "github.com/1broseidon/winpos/internal/positioner"

// PositionWindowInput is the input for the position_window tool.
type PositionWindowInput struct {
	Title  string `json:"title" jsonschema:"required,Case-insensitive substring of the window title. The first matching window in stacking order is moved."`
	X      int    `json:"x" jsonschema:"required,Left edge of the frame in root coordinates; may be negative"`
	Y      int    `json:"y" jsonschema:"required,Top edge of the frame in root coordinates; may be negative"`
	Width  int    `json:"width" jsonschema:"required,Frame width in pixels"`
	Height int    `json:"height" jsonschema:"required,Frame height in pixels"`
}

// PositionByClassInput is the input for the position_window_by_class tool.
type PositionByClassInput struct {
	WMClass string `json:"wm_class" jsonschema:"required,WM_CLASS to match exactly, ignoring case"`
	X       int    `json:"x" jsonschema:"required,Left edge of the frame"`
	Y       int    `json:"y" jsonschema:"required,Top edge of the frame"`
	Width   int    `json:"width" jsonschema:"required,Frame width in pixels"`
	Height  int    `json:"height" jsonschema:"required,Frame height in pixels"`
}

// PositionByClassAndTitleInput is the input for the
// position_window_by_class_and_title tool.
type PositionByClassAndTitleInput struct {
	WMClass      string `json:"wm_class" jsonschema:"required,WM_CLASS to match exactly, ignoring case"`
	TitlePattern string `json:"title_pattern" jsonschema:"required,Case-insensitive substring of the title"`
	X            int    `json:"x" jsonschema:"required,Left edge of the frame"`
	Y            int    `json:"y" jsonschema:"required,Top edge of the frame"`
	Width        int    `json:"width" jsonschema:"required,Frame width in pixels"`
	Height       int    `json:"height" jsonschema:"required,Frame height in pixels"`
}

// PositionOutput is the output of every positioning tool.
type PositionOutput struct {
	Success bool `json:"success"`
}

// ActiveWindowInput is the (empty) input for the get_active_window tool.
type ActiveWindowInput struct{}

// WindowInfoInput is the input for the get_window_info tool.
type WindowInfoInput struct {
	Title string `json:"title" jsonschema:"required,Case-insensitive substring of the window title"`
}

// WindowOutput carries either a window description or the reason there is none.
type WindowOutput struct {
	Window *positioner.WindowData `json:"window,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// MonitorsInput is the (empty) input for the get_monitors tool.
type MonitorsInput struct{}

// MonitorsOutput lists monitors in index order.
type MonitorsOutput struct {
	Monitors []positioner.MonitorData `json:"monitors"`
}
