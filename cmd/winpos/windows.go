package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winpos/internal/platform"
	"github.com/1broseidon/winpos/internal/positioner"
)

var windowsFormat string

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List managed windows straight from the X server",
	Long: `List every managed top-level window in stacking order, bottom first.
This connects to the X server directly and does not need a running daemon.
The order is the order the positioner matches in.`,
	Example: `  # Table output
  winpos windows

  # JSON output
  winpos windows --format json`,
	Args: cobra.NoArgs,
	RunE: runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	windowsCmd.Flags().StringVarP(&windowsFormat, "format", "f", "table", "output format (table or json)")
}

type windowRow struct {
	ID     uint32 `json:"id"`
	Normal bool   `json:"normal"`
	positioner.WindowData
}

func runWindows(cmd *cobra.Command, args []string) error {
	res, err := loadConfig()
	if err != nil {
		return err
	}

	backend, err := platform.NewLinuxBackendFromDisplay(res.Config.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer backend.Disconnect()

	windows, err := backend.Windows()
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}
	return printWindows(cmd.OutOrStdout(), windows, windowsFormat)
}

func printWindows(w io.Writer, windows []platform.Window, format string) error {
	rows := make([]windowRow, 0, len(windows))
	for _, win := range windows {
		rows = append(rows, windowRow{
			ID:         uint32(win.ID),
			Normal:     win.Type == platform.WindowNormal,
			WindowData: positioner.NewWindowData(win),
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCLASS\tTITLE\tGEOMETRY\tMAX\tMIN")
		for _, r := range rows {
			if !r.Normal {
				continue
			}
			fmt.Fprintf(tw, "0x%x\t%s\t%s\t%dx%d%+d%+d\t%s\t%t\n",
				r.ID, r.WMClass, truncate(r.Title, 60), r.Width, r.Height, r.X, r.Y,
				platform.MaxState(r.Maximized), r.Minimized)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
