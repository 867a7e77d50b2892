package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/winpos/internal/positioner"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

var _ positioner.Invoker = (*Client)(nil)

// NewClient creates a new IPC client for the socket at socketPath.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// Invoke runs op on the daemon and decodes the result by the operation's
// declared output type.
func (c *Client) Invoke(op positioner.Operation, args positioner.Args) (positioner.Result, error) {
	spec, ok := positioner.LookupSpec(op)
	if !ok {
		return positioner.Result{}, fmt.Errorf("unknown operation: %s", op)
	}

	payload, err := EncodeArgs(spec, args)
	if err != nil {
		return positioner.Result{}, fmt.Errorf("failed to marshal %s payload: %w", op, err)
	}

	resp, err := c.sendRequest(&Request{
		Command: CommandType(op),
		Payload: payload,
	})
	if err != nil {
		return positioner.Result{}, err
	}

	if spec.Out.Type == positioner.ArgBool {
		var ok bool
		if err := json.Unmarshal(resp.Data, &ok); err != nil {
			return positioner.Result{}, fmt.Errorf("failed to parse %s result: %w", op, err)
		}
		return positioner.Result{Bool: ok}, nil
	}

	var doc string
	if err := json.Unmarshal(resp.Data, &doc); err != nil {
		return positioner.Result{}, fmt.Errorf("failed to parse %s result: %w", op, err)
	}
	return positioner.Result{JSON: doc, IsJSON: true}, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() (*PingData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandPing})
	if err != nil {
		return nil, err
	}

	var data PingData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse ping data: %w", err)
	}
	return &data, nil
}
