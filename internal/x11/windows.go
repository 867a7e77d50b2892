package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Maximized axis bits. The numbering matches Mutter's MetaMaximizeFlags so
// that serialized window data is interchangeable with GNOME Shell consumers.
const (
	MaximizedHorizontal = 1 << 0
	MaximizedVertical   = 1 << 1
)

// sourcePager marks client messages as coming from a pager/direct user action.
const sourcePager = 2

// WindowInfo is a point-in-time read of a client window.
// X/Y/Width/Height describe the frame rectangle (decorations included).
type WindowInfo struct {
	ID       xproto.Window
	Title    string
	Class    string
	X        int
	Y        int
	Width    int
	Height   int
	MaxFlags int
	Hidden   bool
	Normal   bool
}

// ClientList returns managed client windows in stacking order (bottom to
// top), falling back to mapping order when the WM does not publish
// _NET_CLIENT_LIST_STACKING.
func (c *Connection) ClientList() ([]xproto.Window, error) {
	if clients, err := ewmh.ClientListStackingGet(c.XUtil); err == nil {
		return clients, nil
	}
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// DescribeWindow reads title, class, frame geometry and state of a window.
// Only a failed geometry read is an error; missing properties read as zero values.
func (c *Connection) DescribeWindow(windowID xproto.Window) (WindowInfo, error) {
	x, y, width, height, err := c.FrameRect(windowID)
	if err != nil {
		return WindowInfo{}, err
	}

	maxFlags, hidden := c.windowState(windowID)

	return WindowInfo{
		ID:       windowID,
		Title:    c.WindowTitle(windowID),
		Class:    c.WindowClass(windowID),
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		MaxFlags: maxFlags,
		Hidden:   hidden,
		Normal:   c.IsNormalWindow(windowID),
	}, nil
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// WindowClass returns the class part of WM_CLASS (not the instance).
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func (c *Connection) windowState(windowID xproto.Window) (maxFlags int, hidden bool) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return 0, false
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			maxFlags |= MaximizedHorizontal
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			maxFlags |= MaximizedVertical
		case "_NET_WM_STATE_HIDDEN":
			hidden = true
		}
	}
	return maxFlags, hidden
}

// FrameRect returns the on-screen frame rectangle of a window in root
// coordinates. Decoration sizes come from _NET_FRAME_EXTENTS when present.
func (c *Connection) FrameRect(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get geometry of window 0x%x: %w", uint32(windowID), err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate coordinates of window 0x%x: %w", uint32(windowID), err)
	}

	left, right, top, bottom := c.GetFrameExtents(windowID)

	return int(translate.DstX) - left,
		int(translate.DstY) - top,
		int(geom.Width) + left + right,
		int(geom.Height) + top + bottom,
		nil
}

// GetFrameExtents returns the window decoration sizes (zeros if unavailable)
func (c *Connection) GetFrameExtents(windowID xproto.Window) (left, right, top, bottom int) {
	extents, err := ewmh.FrameExtentsGet(c.XUtil, windowID)
	if err != nil {
		return 0, 0, 0, 0
	}

	return int(extents.Left), int(extents.Right), int(extents.Top), int(extents.Bottom)
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// Untyped windows are normal per EWMH.
		return true
	}

	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return true
		}
	}

	return len(types) == 0
}

// GetActiveWindow returns _NET_ACTIVE_WINDOW; 0 means nothing is focused.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// Unmaximize asks the window manager to drop maximized state on both axes.
// The request is sent regardless of the current state.
func (c *Connection) Unmaximize(windowID xproto.Window) error {
	err := ewmh.WmStateReqExtra(
		c.XUtil,
		windowID,
		ewmh.StateRemove,
		"_NET_WM_STATE_MAXIMIZED_VERT",
		"_NET_WM_STATE_MAXIMIZED_HORZ",
		sourcePager,
	)
	if err != nil {
		return fmt.Errorf("failed to unmaximize window 0x%x: %w", uint32(windowID), err)
	}
	return nil
}

// MoveResizeFrame places the window's frame (not its client area) at the
// given rectangle.
func (c *Connection) MoveResizeFrame(windowID xproto.Window, x, y, width, height int) error {
	// Also confirms the window still exists.
	if _, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply(); err != nil {
		return fmt.Errorf("failed to get geometry of window 0x%x: %w", uint32(windowID), err)
	}

	left, right, top, bottom := c.GetFrameExtents(windowID)
	clientW, clientH := clientSize(width, height, left, right, top, bottom)

	// NorthWest gravity makes x/y address the outer frame corner.
	// Width and height are always flagged since clientSize never returns 0.
	err := ewmh.MoveresizeWindowExtra(
		c.XUtil,
		windowID,
		x, y, clientW, clientH,
		xproto.GravityNorthWest,
		sourcePager,
		true, true,
	)
	if err == nil {
		return nil
	}

	// Fallback to direct window manipulation
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(int32(x)), uint32(int32(y)), uint32(clientW), uint32(clientH)}
	if cerr := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check(); cerr != nil {
		return fmt.Errorf("failed to move/resize window 0x%x: %w", uint32(windowID), cerr)
	}
	return nil
}

// clientSize converts a frame size to the client size the WM expects,
// never going below 1x1.
func clientSize(frameW, frameH, left, right, top, bottom int) (int, int) {
	return max(frameW-left-right, 1), max(frameH-top-bottom, 1)
}
