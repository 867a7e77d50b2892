//go:build linux

package daemon

import (
	"context"
	"fmt"

	"github.com/1broseidon/winpos/internal/config"
	"github.com/1broseidon/winpos/internal/platform"
)

// Run acquires the X11 connection once and serves until ctx ends.
func Run(ctx context.Context, cfg *config.Config) error {
	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	return Serve(ctx, cfg, backend)
}
