// Package daemon wires the positioner to its transports and runs them until
// the context ends.
package daemon

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/winpos/internal/api"
	"github.com/1broseidon/winpos/internal/config"
	"github.com/1broseidon/winpos/internal/dbusapi"
	"github.com/1broseidon/winpos/internal/ipc"
	"github.com/1broseidon/winpos/internal/logging"
	"github.com/1broseidon/winpos/internal/platform"
	"github.com/1broseidon/winpos/internal/positioner"
	"github.com/1broseidon/winpos/internal/runtimepath"
)

const shutdownTimeout = 5 * time.Second

type transport struct {
	name  string
	start func() error
	stop  func()
}

// Serve runs the enabled transports over backend until ctx is cancelled or
// a transport fails to start. The backend stays owned by the caller.
func Serve(ctx context.Context, cfg *config.Config, backend platform.Backend) error {
	log := logging.WithComponent("daemon")

	dispatcher := positioner.NewDispatcher(backend, positioner.WithDiagnostics(positioner.Diagnostics{
		ListWindowsOnMiss: cfg.Diagnostics.ListWindowsOnMiss,
		SuggestClosest:    cfg.Diagnostics.SuggestClosest,
	}))

	transports, err := buildTransports(cfg, dispatcher)
	if err != nil {
		return err
	}
	if len(transports) == 0 {
		return fmt.Errorf("no transports enabled")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range transports {
		t := t
		g.Go(func() error {
			if err := t.start(); err != nil {
				return fmt.Errorf("%s: %w", t.name, err)
			}
			<-gctx.Done()
			t.stop()
			log.Debug().Str("transport", t.name).Msg("Transport stopped")
			return nil
		})
	}

	log.Info().Int("transports", len(transports)).Msg("winpos daemon started")
	err = g.Wait()
	log.Info().Msg("winpos daemon stopped")
	return err
}

func buildTransports(cfg *config.Config, dispatcher *positioner.Dispatcher) ([]transport, error) {
	var out []transport

	if cfg.DBus.Enabled {
		srv := dbusapi.NewServer(cfg.DBus.Name, dispatcher)
		out = append(out, transport{name: "dbus", start: srv.Start, stop: srv.Stop})
	}

	if cfg.Socket.Enabled {
		path, err := runtimepath.SocketPath(cfg.Socket.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		srv := ipc.NewServer(path, dispatcher)
		out = append(out, transport{name: "socket", start: srv.Start, stop: srv.Stop})
	}

	if cfg.HTTP.Enabled {
		srv := api.NewServer(cfg.HTTP.Listen, dispatcher)
		out = append(out, transport{
			name:  "http",
			start: srv.Start,
			stop: func() {
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				srv.Stop(ctx)
			},
		})
	}

	return out, nil
}
