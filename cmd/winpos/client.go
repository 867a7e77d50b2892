package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winpos/internal/config"
	"github.com/1broseidon/winpos/internal/dbusapi"
	"github.com/1broseidon/winpos/internal/ipc"
	"github.com/1broseidon/winpos/internal/positioner"
	"github.com/1broseidon/winpos/internal/runtimepath"
)

var (
	clientTransport string
	clientPretty    bool
)

var positionCmd = &cobra.Command{
	Use:   "position TITLE X Y WIDTH HEIGHT",
	Short: "Move the first window whose title contains TITLE",
	Example: `  # Put Firefox on the left half of a 1920x1080 screen
  winpos position firefox 0 0 960 1080`,
	Args: cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		rect, err := parseRect(args[1:])
		if err != nil {
			return err
		}
		rect.Title = args[0]
		return runPosition(cmd.OutOrStdout(), positioner.OpPositionWindow, rect)
	},
}

var positionClassCmd = &cobra.Command{
	Use:   "position-class CLASS X Y WIDTH HEIGHT",
	Short: "Move the first window whose WM_CLASS equals CLASS",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		rect, err := parseRect(args[1:])
		if err != nil {
			return err
		}
		rect.Class = args[0]
		return runPosition(cmd.OutOrStdout(), positioner.OpPositionWindowByClass, rect)
	},
}

var positionClassTitleCmd = &cobra.Command{
	Use:   "position-class-title CLASS TITLE X Y WIDTH HEIGHT",
	Short: "Move the first window matching both CLASS and TITLE",
	Args:  cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		rect, err := parseRect(args[2:])
		if err != nil {
			return err
		}
		rect.Class, rect.Title = args[0], args[1]
		return runPosition(cmd.OutOrStdout(), positioner.OpPositionWindowByClassAndTitle, rect)
	},
}

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "Describe the focused window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDocument(cmd.OutOrStdout(), positioner.OpGetActiveWindowInfo, positioner.Args{})
	},
}

var windowCmd = &cobra.Command{
	Use:   "window TITLE",
	Short: "Describe the first window whose title contains TITLE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDocument(cmd.OutOrStdout(), positioner.OpGetWindowInfo, positioner.Args{Title: args[0]})
	},
}

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "List monitors with their geometry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDocument(cmd.OutOrStdout(), positioner.OpGetMonitorInfo, positioner.Args{})
	},
}

func init() {
	for _, c := range []*cobra.Command{positionCmd, positionClassCmd, positionClassTitleCmd, activeCmd, windowCmd, monitorsCmd} {
		c.Flags().StringVarP(&clientTransport, "transport", "t", "dbus", "how to reach the daemon (dbus or socket)")
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{activeCmd, windowCmd, monitorsCmd} {
		c.Flags().BoolVarP(&clientPretty, "pretty", "p", false, "indent the JSON output")
	}
	// Flags must precede the positional arguments so that a negative X or Y
	// is not read as a shorthand flag.
	for _, c := range []*cobra.Command{positionCmd, positionClassCmd, positionClassTitleCmd} {
		c.Flags().SetInterspersed(false)
	}
}

// parseRect reads X Y WIDTH HEIGHT as 32-bit integers, the width of the
// D-Bus arguments. Negative coordinates are allowed.
func parseRect(args []string) (positioner.Args, error) {
	names := []string{"X", "Y", "WIDTH", "HEIGHT"}
	if len(args) != len(names) {
		return positioner.Args{}, fmt.Errorf("expected %d numbers, got %d", len(names), len(args))
	}
	vals := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return positioner.Args{}, fmt.Errorf("%s is out of the 32-bit range, got %s", names[i], a)
			}
			return positioner.Args{}, fmt.Errorf("%s must be an integer, got %q", names[i], a)
		}
		vals[i] = int(v)
	}
	return positioner.Args{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

func newInvoker(cfg *config.Config, transport string) (positioner.Invoker, func(), error) {
	switch transport {
	case "dbus":
		client, err := dbusapi.NewClient(cfg.DBus.Name)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	case "socket":
		path, err := runtimepath.SocketPath(cfg.Socket.Path)
		if err != nil {
			return nil, nil, err
		}
		return ipc.NewClient(path), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown transport %q (want dbus or socket)", transport)
	}
}

func invoke(op positioner.Operation, args positioner.Args) (positioner.Result, error) {
	res, err := loadConfig()
	if err != nil {
		return positioner.Result{}, err
	}
	inv, closeFn, err := newInvoker(res.Config, clientTransport)
	if err != nil {
		return positioner.Result{}, err
	}
	defer closeFn()
	return inv.Invoke(op, args)
}

func runPosition(w io.Writer, op positioner.Operation, args positioner.Args) error {
	res, err := invoke(op, args)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, res.Bool)
	if !res.Bool {
		return fmt.Errorf("%s did not position a window", op)
	}
	return nil
}

func runDocument(w io.Writer, op positioner.Operation, args positioner.Args) error {
	res, err := invoke(op, args)
	if err != nil {
		return err
	}
	return writeDocument(w, res.JSON, clientPretty)
}

func writeDocument(w io.Writer, doc string, pretty bool) error {
	if !pretty {
		_, err := fmt.Fprintln(w, doc)
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(doc), "", "  "); err != nil {
		return fmt.Errorf("daemon returned malformed JSON: %w", err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
