package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/1broseidon/winpos/internal/config"
	"github.com/1broseidon/winpos/internal/logging"
)

var (
	cfgFile string
	vp      = viper.New()

	rootCmd = &cobra.Command{
		Use:   "winpos",
		Short: "winpos - move, resize and inspect X11 windows over D-Bus",
		Long: `winpos runs a small daemon that lets other programs position top-level
windows and query window and monitor geometry.

The daemon exports org.gnome.Shell.WindowPositioner on the session bus at
/org/gnome/Shell/WindowPositioner, mirrors it on a unix socket, and can
optionally serve it over loopback HTTP. The client commands talk to a
running daemon.`,
		SilenceUsage: true,
	}
)

// Config keys that flags and WINPOS_* variables may set.
var (
	stringOverrides = []string{"log_level", "log_format", "display", "dbus.name", "socket.path", "http.listen"}
	boolOverrides   = []string{"dbus.enabled", "socket.enabled", "http.enabled"}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/winpos/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (auto, console, json)")
	rootCmd.PersistentFlags().String("display", "", "X display to connect to (default is $DISPLAY)")
	rootCmd.PersistentFlags().String("socket", "", "daemon socket path (default is $XDG_RUNTIME_DIR/winpos.sock)")
	rootCmd.PersistentFlags().String("bus-name", "", "well-known D-Bus name of the daemon")

	vp.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	vp.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	vp.BindPFlag("display", rootCmd.PersistentFlags().Lookup("display"))
	vp.BindPFlag("socket.path", rootCmd.PersistentFlags().Lookup("socket"))
	vp.BindPFlag("dbus.name", rootCmd.PersistentFlags().Lookup("bus-name"))

	vp.SetEnvPrefix("WINPOS")
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultConfigPath()
}

// loadConfig reads the config file, applies flag and environment overrides
// and initializes logging from the result.
func loadConfig() (*config.LoadResult, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}

	applyOverrides(res.Config, vp)
	if err := res.Config.Validate(); err != nil {
		return nil, err
	}

	logging.Init(res.Config.LogLevel, logging.Format(res.Config.LogFormat))
	return res, nil
}

func applyOverrides(cfg *config.Config, v *viper.Viper) {
	strs := map[string]*string{
		"log_level":   &cfg.LogLevel,
		"log_format":  &cfg.LogFormat,
		"display":     &cfg.Display,
		"dbus.name":   &cfg.DBus.Name,
		"socket.path": &cfg.Socket.Path,
		"http.listen": &cfg.HTTP.Listen,
	}
	for _, key := range stringOverrides {
		if v.IsSet(key) {
			if val := v.GetString(key); val != "" {
				*strs[key] = val
			}
		}
	}

	bools := map[string]*bool{
		"dbus.enabled":   &cfg.DBus.Enabled,
		"socket.enabled": &cfg.Socket.Enabled,
		"http.enabled":   &cfg.HTTP.Enabled,
	}
	for _, key := range boolOverrides {
		if v.IsSet(key) {
			*bools[key] = v.GetBool(key)
		}
	}
}
