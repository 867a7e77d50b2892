package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winpos/internal/ipc"
	"github.com/1broseidon/winpos/internal/mcp"
	"github.com/1broseidon/winpos/internal/runtimepath"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve positioner tools over MCP on stdio",
	Long: `Run an MCP server on stdin/stdout whose tools forward to the running
daemon over its unix socket. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		path, err := runtimepath.SocketPath(res.Config.Socket.Path)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return mcp.NewServer(ipc.NewClient(path)).Run(ctx)
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
