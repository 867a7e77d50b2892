package positioner

import (
	"fmt"

	"github.com/1broseidon/winpos/internal/platform"
)

// fakeBackend is an in-memory platform.Backend that records mutating calls.
type fakeBackend struct {
	windows    []platform.Window
	windowsErr error

	focused    *platform.Window
	focusedErr error

	displays    []platform.Display
	primary     int
	displaysErr error

	unmaximizeErr error
	moveErr       error

	calls []string
}

var _ platform.Backend = (*fakeBackend)(nil)

func (f *fakeBackend) Windows() ([]platform.Window, error) {
	if f.windowsErr != nil {
		return nil, f.windowsErr
	}
	out := make([]platform.Window, len(f.windows))
	copy(out, f.windows)
	return out, nil
}

func (f *fakeBackend) FocusedWindow() (platform.Window, error) {
	if f.focusedErr != nil {
		return platform.Window{}, f.focusedErr
	}
	if f.focused == nil {
		return platform.Window{}, platform.ErrNoWindow
	}
	return *f.focused, nil
}

func (f *fakeBackend) Unmaximize(id platform.WindowID) error {
	f.calls = append(f.calls, fmt.Sprintf("unmaximize %d", id))
	return f.unmaximizeErr
}

func (f *fakeBackend) MoveResizeFrame(id platform.WindowID, r platform.Rect) error {
	f.calls = append(f.calls, fmt.Sprintf("moveresize %d %d,%d %dx%d", id, r.X, r.Y, r.Width, r.Height))
	return f.moveErr
}

func (f *fakeBackend) Displays() ([]platform.Display, int, error) {
	if f.displaysErr != nil {
		return nil, -1, f.displaysErr
	}
	return f.displays, f.primary, nil
}

func win(id platform.WindowID, title, class string) platform.Window {
	return platform.Window{
		ID:      id,
		Title:   title,
		WMClass: class,
		Bounds:  platform.Rect{X: 0, Y: 0, Width: 800, Height: 600},
		Type:    platform.WindowNormal,
	}
}
