package positioner

import (
	"strings"

	"github.com/1broseidon/winpos/internal/platform"
	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"
)

// Diagnostics controls the debug-only output produced when a selector misses.
type Diagnostics struct {
	ListWindowsOnMiss bool
	SuggestClosest    bool
}

func (d Diagnostics) report(log *zerolog.Logger, windows []platform.Window, sel Selector) {
	// Title misses stay quiet; class selectors are the ones callers guess at.
	if d.ListWindowsOnMiss && sel.Kind != ByTitle && log.Debug().Enabled() {
		logAvailableWindows(log, windows)
	}
	if d.SuggestClosest && log.Debug().Enabled() {
		if w, dist, ok := closestWindow(windows, sel); ok {
			log.Debug().
				Str("title", w.Title).
				Str("wm_class", w.WMClass).
				Int("distance", dist).
				Msgf("No window with %s; closest candidate", sel)
		}
	}
}

func logAvailableWindows(log *zerolog.Logger, windows []platform.Window) {
	log.Debug().Msg("Available windows:")
	for i, w := range windows {
		if w.Type != platform.WindowNormal {
			continue
		}
		title := w.Title
		if title == "" {
			title = "No title"
		}
		class := w.WMClass
		if class == "" {
			class = "No class"
		}
		log.Debug().Msgf("  %d: %q - %q", i, class, title)
	}
}

// closestWindow picks the normal window whose class (for class selectors)
// or title (for title selectors) has the smallest edit distance to the
// query. Ties keep enumeration order.
func closestWindow(windows []platform.Window, sel Selector) (platform.Window, int, bool) {
	query := strings.ToLower(sel.Title)
	field := func(w platform.Window) string { return w.Title }
	if sel.Kind != ByTitle {
		query = strings.ToLower(sel.Class)
		field = func(w platform.Window) string { return w.WMClass }
	}
	if query == "" {
		return platform.Window{}, 0, false
	}

	best := -1
	var bestWin platform.Window
	for _, w := range windows {
		if w.Type != platform.WindowNormal {
			continue
		}
		value := field(w)
		if value == "" {
			continue
		}
		dist := levenshtein.ComputeDistance(query, strings.ToLower(value))
		if best < 0 || dist < best {
			best = dist
			bestWin = w
		}
	}
	if best < 0 {
		return platform.Window{}, 0, false
	}
	return bestWin, best, true
}
