package positioner

import (
	"github.com/1broseidon/winpos/internal/platform"
	"github.com/rs/zerolog"
)

// Geometry is the subset of platform.Backend that changes window placement.
type Geometry interface {
	Unmaximize(windowID platform.WindowID) error
	MoveResizeFrame(windowID platform.WindowID, bounds platform.Rect) error
}

// Commander applies frame geometry to a resolved window.
type Commander struct {
	geom Geometry
	log  *zerolog.Logger
}

// NewCommander creates a Commander over the given backend.
func NewCommander(geom Geometry, log *zerolog.Logger) *Commander {
	return &Commander{geom: geom, log: log}
}

// Apply unmaximizes w on both axes and then moves/resizes its frame to r.
// It returns false if either step fails. A failed resize leaves the window
// unmaximized where it was; nothing is rolled back.
func (c *Commander) Apply(w platform.Window, r platform.Rect) bool {
	if err := c.geom.Unmaximize(w.ID); err != nil {
		c.log.Error().Err(err).Uint32("window", uint32(w.ID)).Msg("Error unmaximizing window")
		return false
	}

	if err := c.geom.MoveResizeFrame(w.ID, r); err != nil {
		c.log.Error().Err(err).Uint32("window", uint32(w.ID)).Msg("Error moving window")
		return false
	}

	c.log.Info().
		Str("title", w.Title).
		Str("wm_class", w.WMClass).
		Int("x", r.X).
		Int("y", r.Y).
		Int("width", r.Width).
		Int("height", r.Height).
		Msg("Positioned window")
	return true
}
