package positioner

import (
	"errors"

	"github.com/1broseidon/winpos/internal/platform"
	"github.com/rs/zerolog"
)

// NoActiveWindowMessage is the error text when neither focus nor a normal
// window is available.
const NoActiveWindowMessage = "No active window found"

// WindowNotFoundMessage is the error text GetWindowInfo returns on a miss.
func WindowNotFoundMessage(titleQuery string) string {
	return `Window with title containing "` + titleQuery + `" not found`
}

// Responder answers the read-only introspection queries. Every method
// returns well-formed JSON, never an error.
type Responder struct {
	backend platform.Backend
	log     *zerolog.Logger
}

// NewResponder creates a Responder over the given backend.
func NewResponder(backend platform.Backend, log *zerolog.Logger) *Responder {
	return &Responder{backend: backend, log: log}
}

// ActiveWindow describes the focused window, or the first normal window in
// enumeration order when nothing has focus.
func (r *Responder) ActiveWindow() string {
	w, err := r.backend.FocusedWindow()
	if err == nil {
		return encode(NewWindowData(w))
	}
	if !errors.Is(err, platform.ErrNoWindow) {
		r.log.Warn().Err(err).Msg("Focused window unreadable, falling back to window list")
	}

	windows, err := r.backend.Windows()
	if err != nil {
		r.log.Error().Err(err).Msg("Error in GetActiveWindowInfo")
		return errorPayload(err.Error())
	}
	for _, w := range windows {
		if w.Type == platform.WindowNormal {
			return encode(NewWindowData(w))
		}
	}

	r.log.Info().Msg(NoActiveWindowMessage)
	return errorPayload(NoActiveWindowMessage)
}

// WindowInfo describes the first window whose title contains titleQuery.
func (r *Responder) WindowInfo(titleQuery string) string {
	windows, err := r.backend.Windows()
	if err != nil {
		r.log.Error().Err(err).Msg("Error in GetWindowInfo")
		return errorPayload(err.Error())
	}

	w, ok := Resolve(windows, TitleSubstring(titleQuery))
	if !ok {
		return errorPayload(WindowNotFoundMessage(titleQuery))
	}
	return encode(NewWindowData(w))
}

// MonitorInfo describes all monitors in index order. A backend failure is
// logged and reported as an empty list.
func (r *Responder) MonitorInfo() string {
	displays, primary, err := r.backend.Displays()
	if err != nil {
		r.log.Error().Err(err).Msg("Error in GetMonitorInfo")
		return "[]"
	}
	return encode(NewMonitorData(displays, primary))
}
