package positioner

import (
	"fmt"
	"sync"

	"github.com/1broseidon/winpos/internal/logging"
	"github.com/1broseidon/winpos/internal/platform"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Operation names a remote operation. The set is closed; names are part of
// the wire contract.
type Operation string

const (
	OpPositionWindow                Operation = "PositionWindow"
	OpPositionWindowByClass         Operation = "PositionWindowByClass"
	OpPositionWindowByClassAndTitle Operation = "PositionWindowByClassAndTitle"
	OpGetActiveWindowInfo           Operation = "GetActiveWindowInfo"
	OpGetMonitorInfo                Operation = "GetMonitorInfo"
	OpGetWindowInfo                 Operation = "GetWindowInfo"
)

// ArgType is the wire type of an argument, spelled as a D-Bus signature code.
type ArgType string

const (
	ArgString ArgType = "s"
	ArgInt    ArgType = "i"
	ArgBool   ArgType = "b"
)

// Arg is a named, typed argument or result.
type Arg struct {
	Name string
	Type ArgType
}

// OperationSpec declares the ordered inputs and the single output of an operation.
type OperationSpec struct {
	Op  Operation
	In  []Arg
	Out Arg
}

var rectArgs = []Arg{{"x", ArgInt}, {"y", ArgInt}, {"width", ArgInt}, {"height", ArgInt}}

// Specs lists every operation in interface order.
var Specs = []OperationSpec{
	{
		Op:  OpPositionWindow,
		In:  append([]Arg{{"windowTitle", ArgString}}, rectArgs...),
		Out: Arg{"success", ArgBool},
	},
	{
		Op:  OpPositionWindowByClass,
		In:  append([]Arg{{"wmClass", ArgString}}, rectArgs...),
		Out: Arg{"success", ArgBool},
	},
	{
		Op:  OpPositionWindowByClassAndTitle,
		In:  append([]Arg{{"wmClass", ArgString}, {"titlePattern", ArgString}}, rectArgs...),
		Out: Arg{"success", ArgBool},
	},
	{
		Op:  OpGetActiveWindowInfo,
		Out: Arg{"windowData", ArgString},
	},
	{
		Op:  OpGetMonitorInfo,
		Out: Arg{"monitorData", ArgString},
	},
	{
		Op:  OpGetWindowInfo,
		In:  []Arg{{"windowTitle", ArgString}},
		Out: Arg{"windowData", ArgString},
	},
}

// Args carries the primitive arguments of any operation. Fields an
// operation does not declare are ignored.
type Args struct {
	Title  string `json:"title,omitempty"`
	Class  string `json:"wm_class,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Result is either a boolean (positioning) or a JSON document (introspection).
type Result struct {
	Bool   bool
	JSON   string
	IsJSON bool
}

// Value returns the result as the operation's declared output type.
func (r Result) Value() any {
	if r.IsJSON {
		return r.JSON
	}
	return r.Bool
}

func boolResult(ok bool) Result   { return Result{Bool: ok} }
func jsonResult(doc string) Result { return Result{JSON: doc, IsJSON: true} }

type handler func(d *Dispatcher, a Args) Result

var handlers = map[Operation]handler{
	OpPositionWindow: func(d *Dispatcher, a Args) Result {
		return boolResult(d.PositionWindow(a.Title, a.X, a.Y, a.Width, a.Height))
	},
	OpPositionWindowByClass: func(d *Dispatcher, a Args) Result {
		return boolResult(d.PositionWindowByClass(a.Class, a.X, a.Y, a.Width, a.Height))
	},
	OpPositionWindowByClassAndTitle: func(d *Dispatcher, a Args) Result {
		return boolResult(d.PositionWindowByClassAndTitle(a.Class, a.Title, a.X, a.Y, a.Width, a.Height))
	},
	OpGetActiveWindowInfo: func(d *Dispatcher, _ Args) Result {
		return jsonResult(d.GetActiveWindowInfo())
	},
	OpGetMonitorInfo: func(d *Dispatcher, _ Args) Result {
		return jsonResult(d.GetMonitorInfo())
	},
	OpGetWindowInfo: func(d *Dispatcher, a Args) Result {
		return jsonResult(d.GetWindowInfo(a.Title))
	},
}

// LookupSpec returns the declaration of op.
func LookupSpec(op Operation) (OperationSpec, bool) {
	for _, spec := range Specs {
		if spec.Op == op {
			return spec, true
		}
	}
	return OperationSpec{}, false
}

// Invoker runs operations by name. The Dispatcher is the local
// implementation; transport clients implement it against a running daemon.
type Invoker interface {
	Invoke(op Operation, args Args) (Result, error)
}

var _ Invoker = (*Dispatcher)(nil)

// Dispatcher routes operations to the matcher, commander and responder.
// Operations run one at a time regardless of how many transports call in.
type Dispatcher struct {
	mu        sync.Mutex
	backend   platform.Backend
	commander *Commander
	responder *Responder
	diag      Diagnostics
	log       *zerolog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDiagnostics enables miss diagnostics.
func WithDiagnostics(diag Diagnostics) Option {
	return func(d *Dispatcher) { d.diag = diag }
}

// WithLogger overrides the component logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(d *Dispatcher) { d.log = log }
}

// NewDispatcher creates a dispatcher over an already-connected backend.
func NewDispatcher(backend platform.Backend, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		backend: backend,
		log:     logging.WithComponent("positioner"),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.commander = NewCommander(backend, d.log)
	d.responder = NewResponder(backend, d.log)
	return d
}

// Invoke runs op with args. The only error is an unknown operation.
func (d *Dispatcher) Invoke(op Operation, args Args) (Result, error) {
	h, ok := handlers[op]
	if !ok {
		return Result{}, fmt.Errorf("unknown operation: %s", op)
	}
	return h(d, args), nil
}

// PositionWindow moves the first window whose title contains titleQuery.
func (d *Dispatcher) PositionWindow(titleQuery string, x, y, width, height int) bool {
	return d.position(OpPositionWindow, TitleSubstring(titleQuery), platform.Rect{X: x, Y: y, Width: width, Height: height})
}

// PositionWindowByClass moves the first window whose WM_CLASS equals wmClass.
func (d *Dispatcher) PositionWindowByClass(wmClass string, x, y, width, height int) bool {
	return d.position(OpPositionWindowByClass, WMClass(wmClass), platform.Rect{X: x, Y: y, Width: width, Height: height})
}

// PositionWindowByClassAndTitle moves the first window matching both rules.
func (d *Dispatcher) PositionWindowByClassAndTitle(wmClass, titlePattern string, x, y, width, height int) bool {
	return d.position(OpPositionWindowByClassAndTitle, WMClassAndTitle(wmClass, titlePattern), platform.Rect{X: x, Y: y, Width: width, Height: height})
}

// GetActiveWindowInfo returns the active window as JSON or an error payload.
func (d *Dispatcher) GetActiveWindowInfo() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.requestLogger(OpGetActiveWindowInfo).Debug().Msg("GetActiveWindowInfo called")
	return d.responder.ActiveWindow()
}

// GetMonitorInfo returns the monitor layout as a JSON array.
func (d *Dispatcher) GetMonitorInfo() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.requestLogger(OpGetMonitorInfo).Debug().Msg("GetMonitorInfo called")
	return d.responder.MonitorInfo()
}

// GetWindowInfo returns the first window whose title contains titleQuery.
func (d *Dispatcher) GetWindowInfo(titleQuery string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.requestLogger(OpGetWindowInfo).Debug().Str("title", titleQuery).Msg("GetWindowInfo called")
	return d.responder.WindowInfo(titleQuery)
}

func (d *Dispatcher) position(op Operation, sel Selector, rect platform.Rect) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	log := d.requestLogger(op)
	log.Info().
		Str("selector", sel.String()).
		Int("x", rect.X).
		Int("y", rect.Y).
		Int("width", rect.Width).
		Int("height", rect.Height).
		Msg("Position request")

	windows, err := d.backend.Windows()
	if err != nil {
		log.Error().Err(err).Msgf("Error in %s", op)
		return false
	}

	target, ok := Resolve(windows, sel)
	if !ok {
		log.Info().Msgf("Window with %s not found", sel)
		d.diag.report(log, windows, sel)
		return false
	}

	return d.commander.Apply(target, rect)
}

func (d *Dispatcher) requestLogger(op Operation) *zerolog.Logger {
	l := d.log.With().
		Str("op", string(op)).
		Str("request_id", uuid.NewString()).
		Logger()
	return &l
}
