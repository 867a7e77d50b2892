package ipc

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/winpos/internal/logging"
	"github.com/1broseidon/winpos/internal/positioner"
	"github.com/rs/zerolog"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	invoker      positioner.Invoker
	startTime    time.Time
	requests     atomic.Int64
	shuttingDown bool
	shutdownMu   sync.Mutex
	log          *zerolog.Logger
}

// NewServer creates a new IPC server bound to socketPath once started.
func NewServer(socketPath string, invoker positioner.Invoker) *Server {
	return &Server{
		socketPath: socketPath,
		invoker:    invoker,
		startTime:  time.Now(),
		log:        logging.WithComponent("ipc"),
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a crashed daemon
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info().Str("socket", s.socketPath).Msg("IPC server listening")

	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.log.Warn().Err(err).Msg("IPC accept error")
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection serves a single newline-delimited request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Warn().Err(err).Msg("IPC read error")
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	s.send(conn, s.handleCommand(req))
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.requests.Add(1)

	if req.Command == CommandPing {
		resp, _ := NewOKResponse(PingData{
			UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
			Requests:      s.requests.Load(),
		})
		return resp
	}

	op := positioner.Operation(req.Command)
	spec, ok := positioner.LookupSpec(op)
	if !ok {
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}

	args, err := ParseArgs(spec, req.Payload)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid %s payload: %v", op, err))
	}

	result, err := s.invoker.Invoke(op, args)
	if err != nil {
		return NewErrorResponse(err.Error())
	}

	resp, err := NewOKResponse(result.Value())
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to marshal response")
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.log.Warn().Err(err).Msg("Failed to send response")
	}
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
