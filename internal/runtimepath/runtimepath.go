package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// SocketName is the file name of the daemon socket inside Dir.
const SocketName = "winpos.sock"

// Dir returns the runtime directory holding the winpos socket. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) the xdg runtime directory (/run/user/<uid>) if present
// 3) /tmp/winpos-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	if info, err := os.Stat(xdg.RuntimeDir); err == nil && info.IsDir() {
		return xdg.RuntimeDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/winpos-runtime-%d", os.Getuid())
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path. A non-empty override
// (from config or flags) wins.
func SocketPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, SocketName), nil
}
