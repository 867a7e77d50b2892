package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/1broseidon/winpos/internal/logging"
	"github.com/1broseidon/winpos/internal/positioner"
)

const (
	ServerName    = "winpos"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing window positioning as tools.
type Server struct {
	mcpServer *mcpsdk.Server
	invoker   positioner.Invoker
	log       *zerolog.Logger
}

// NewServer creates an MCP server that forwards every tool call to invoker,
// normally a client of the running daemon.
func NewServer(invoker positioner.Invoker) *Server {
	s := &Server{
		invoker: invoker,
		log:     logging.WithComponent("mcp"),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "position_window",
		Description: "Move and resize the first window whose title contains the given text (case-insensitive). The window is unmaximized first. Coordinates describe the outer frame including decorations. Returns success=false when no window matches or the window manager rejects the request.",
	}, s.handlePositionWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "position_window_by_class",
		Description: "Move and resize the first window whose WM_CLASS equals the given class (case-insensitive, exact). Use get_active_window or get_window_info to discover class names.",
	}, s.handlePositionByClass)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "position_window_by_class_and_title",
		Description: "Move and resize the first window whose WM_CLASS equals wm_class and whose title contains title_pattern. Useful when one application has several windows.",
	}, s.handlePositionByClassAndTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_active_window",
		Description: "Describe the focused window (title, frame geometry, maximized flags 0-3, minimized, wmClass). Falls back to the first normal window when nothing has focus.",
	}, s.handleActiveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window_info",
		Description: "Describe the first window whose title contains the given text (case-insensitive).",
	}, s.handleWindowInfo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_monitors",
		Description: "List monitors in index order with their geometry in root coordinates. Exactly one entry is primary.",
	}, s.handleMonitors)
}
