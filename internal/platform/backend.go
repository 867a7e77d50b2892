package platform

import "errors"

// ErrNoWindow is returned by FocusedWindow when nothing has input focus.
var ErrNoWindow = errors.New("no focused window")

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// MaxState is the maximized axis state of a window. Values are bit flags:
// horizontal=1, vertical=2, both=3.
type MaxState int

const (
	MaxNone       MaxState = 0
	MaxHorizontal MaxState = 1
	MaxVertical   MaxState = 2
	MaxBoth       MaxState = MaxHorizontal | MaxVertical
)

func (m MaxState) String() string {
	switch m {
	case MaxNone:
		return "none"
	case MaxHorizontal:
		return "horizontal"
	case MaxVertical:
		return "vertical"
	case MaxBoth:
		return "both"
	default:
		return "unknown"
	}
}

// WindowType distinguishes ordinary application windows from docks,
// dialogs, menus and the like.
type WindowType int

const (
	WindowNormal WindowType = iota
	WindowOther
)

// Window is a read-only snapshot of a top-level window. Bounds is the frame
// rectangle, decorations included.
type Window struct {
	ID        WindowID
	Title     string
	WMClass   string
	Bounds    Rect
	Maximized MaxState
	Minimized bool
	Type      WindowType
}

// Display describes a physical monitor.
type Display struct {
	Index  int
	Name   string
	Bounds Rect
}

// Backend abstracts the window-management environment.
//
// Windows must return windows in a stable, backend-defined order; callers
// rely on that order for first-match selection.
type Backend interface {
	Windows() ([]Window, error)
	// FocusedWindow returns ErrNoWindow when no window has focus.
	FocusedWindow() (Window, error)
	Unmaximize(windowID WindowID) error
	MoveResizeFrame(windowID WindowID, bounds Rect) error
	// Displays returns monitors ordered by index and the primary index
	// (-1 when the display server does not report one).
	Displays() ([]Display, int, error)
}
