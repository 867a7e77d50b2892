//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/winpos/internal/logging"
	"github.com/1broseidon/winpos/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh
// X11 connection to display ("" for $DISPLAY).
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Windows lists managed top-level windows in stacking order, bottom first.
// Windows that disappear mid-enumeration are skipped.
func (b *LinuxBackend) Windows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}

	log := logging.WithComponent("x11")
	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		info, err := conn.DescribeWindow(windowID)
		if err != nil {
			log.Debug().Err(err).Uint32("window", uint32(windowID)).Msg("Skipping unreadable window")
			continue
		}
		windows = append(windows, windowFromInfo(info))
	}

	return windows, nil
}

// FocusedWindow returns the window named by _NET_ACTIVE_WINDOW.
func (b *LinuxBackend) FocusedWindow() (Window, error) {
	conn, err := b.connection()
	if err != nil {
		return Window{}, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil || wid == 0 || wid == conn.Root {
		// WMs without _NET_ACTIVE_WINDOW are treated as "no focus".
		return Window{}, ErrNoWindow
	}

	info, err := conn.DescribeWindow(wid)
	if err != nil {
		return Window{}, err
	}
	return windowFromInfo(info), nil
}

// Unmaximize drops maximized state on both axes.
func (b *LinuxBackend) Unmaximize(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Unmaximize(xproto.Window(windowID))
}

// MoveResizeFrame moves and resizes a window's frame to the specified bounds.
func (b *LinuxBackend) MoveResizeFrame(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeFrame(
		xproto.Window(windowID),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

// Displays returns all active monitors and the primary index. When RandR
// names no primary output the first monitor is reported as primary.
func (b *LinuxBackend) Displays() ([]Display, int, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, -1, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, -1, err
	}

	displays := make([]Display, 0, len(monitors))
	primary := -1
	for i, m := range monitors {
		displays = append(displays, Display{
			Index: i,
			Name:  m.Name,
			Bounds: Rect{
				X:      m.X,
				Y:      m.Y,
				Width:  m.Width,
				Height: m.Height,
			},
		})
		if m.Primary && primary < 0 {
			primary = i
		}
	}
	if primary < 0 && len(displays) > 0 {
		primary = 0
	}

	return displays, primary, nil
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func windowFromInfo(info x11.WindowInfo) Window {
	windowType := WindowOther
	if info.Normal {
		windowType = WindowNormal
	}
	return Window{
		ID:      WindowID(info.ID),
		Title:   info.Title,
		WMClass: info.Class,
		Bounds: Rect{
			X:      info.X,
			Y:      info.Y,
			Width:  info.Width,
			Height: info.Height,
		},
		Maximized: maxStateFromFlags(info.MaxFlags),
		Minimized: info.Hidden,
		Type:      windowType,
	}
}

func maxStateFromFlags(flags int) MaxState {
	var state MaxState
	if flags&x11.MaximizedHorizontal != 0 {
		state |= MaxHorizontal
	}
	if flags&x11.MaximizedVertical != 0 {
		state |= MaxVertical
	}
	return state
}
