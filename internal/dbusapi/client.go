package dbusapi

import (
	"fmt"
	"math"

	"github.com/1broseidon/winpos/internal/positioner"
	"github.com/godbus/dbus/v5"
)

// Client calls a running positioner over the session bus.
type Client struct {
	conn    *dbus.Conn
	busName string
}

var _ positioner.Invoker = (*Client)(nil)

// NewClient connects to the session bus. busName defaults to DefaultBusName.
func NewClient(busName string) (*Client, error) {
	if busName == "" {
		busName = DefaultBusName
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{conn: conn, busName: busName}, nil
}

// Close closes the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Invoke calls op with the arguments it declares, in declaration order.
func (c *Client) Invoke(op positioner.Operation, args positioner.Args) (positioner.Result, error) {
	spec, ok := positioner.LookupSpec(op)
	if !ok {
		return positioner.Result{}, fmt.Errorf("unknown operation: %s", op)
	}

	callArgs, err := CallArgs(spec, args)
	if err != nil {
		return positioner.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	obj := c.conn.Object(c.busName, ObjectPath)
	call := obj.Call(Interface+"."+string(op), 0, callArgs...)
	if call.Err != nil {
		return positioner.Result{}, fmt.Errorf("%s failed: %w", op, call.Err)
	}

	if spec.Out.Type == positioner.ArgBool {
		var ok bool
		if err := call.Store(&ok); err != nil {
			return positioner.Result{}, fmt.Errorf("failed to read %s reply: %w", op, err)
		}
		return positioner.Result{Bool: ok}, nil
	}

	var doc string
	if err := call.Store(&doc); err != nil {
		return positioner.Result{}, fmt.Errorf("failed to read %s reply: %w", op, err)
	}
	return positioner.Result{JSON: doc, IsJSON: true}, nil
}

// CallArgs lays out args in the order the operation declares them on the
// wire. Integers that do not fit the int32 wire type are rejected.
func CallArgs(spec positioner.OperationSpec, args positioner.Args) ([]interface{}, error) {
	out := make([]interface{}, 0, len(spec.In))
	for _, in := range spec.In {
		switch in.Name {
		case "windowTitle", "titlePattern":
			out = append(out, args.Title)
		case "wmClass":
			out = append(out, args.Class)
		case "x", "y", "width", "height":
			v, err := toInt32(in.Name, intArg(in.Name, args))
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func intArg(name string, args positioner.Args) int {
	switch name {
	case "x":
		return args.X
	case "y":
		return args.Y
	case "width":
		return args.Width
	default:
		return args.Height
	}
}

func toInt32(name string, v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%s %d does not fit in int32", name, v)
	}
	return int32(v), nil
}
