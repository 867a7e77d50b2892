package ipc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/1broseidon/winpos/internal/positioner"
)

// CommandType represents different IPC command types. Every positioner
// operation is a command under its own name; PING is transport-only.
type CommandType string

const CommandPing CommandType = "PING"

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// PingData is returned by PING.
type PingData struct {
	UptimeSeconds int64 `json:"uptime_seconds"`
	Requests      int64 `json:"requests"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// payloadKey is the JSON field that carries a declared argument.
func payloadKey(in positioner.Arg) string {
	switch in.Name {
	case "windowTitle", "titlePattern":
		return "title"
	case "wmClass":
		return "wm_class"
	default:
		return in.Name
	}
}

// EncodeArgs builds the payload for an operation: exactly the fields it
// declares, empty strings included.
func EncodeArgs(spec positioner.OperationSpec, args positioner.Args) (json.RawMessage, error) {
	if len(spec.In) == 0 {
		return nil, nil
	}
	fields := make(map[string]interface{}, len(spec.In))
	for _, in := range spec.In {
		key := payloadKey(in)
		switch key {
		case "title":
			fields[key] = args.Title
		case "wm_class":
			fields[key] = args.Class
		case "x":
			fields[key] = args.X
		case "y":
			fields[key] = args.Y
		case "width":
			fields[key] = args.Width
		case "height":
			fields[key] = args.Height
		}
	}
	return json.Marshal(fields)
}

// ParseArgs decodes an operation payload. Every argument the operation
// declares must be present; undeclared fields and mistyped values are
// rejected.
func ParseArgs(spec positioner.OperationSpec, payload json.RawMessage) (positioner.Args, error) {
	var args positioner.Args

	var fields map[string]json.RawMessage
	if len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, &fields); err != nil {
			return args, err
		}
	}

	declared := make(map[string]bool, len(spec.In))
	for _, in := range spec.In {
		key := payloadKey(in)
		declared[key] = true
		if _, ok := fields[key]; !ok {
			return args, fmt.Errorf("missing argument %q", key)
		}
	}
	for key := range fields {
		if !declared[key] {
			return args, fmt.Errorf("unexpected argument %q", key)
		}
	}
	if len(fields) == 0 {
		return args, nil
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&args); err != nil {
		return args, err
	}
	return args, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
