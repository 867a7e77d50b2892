package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winpos/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect winpos configuration",
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		data, err := res.Config.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration file and report the first problem",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		if len(res.Files) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "OK (no config file, using defaults)")
			return nil
		}
		for _, f := range res.Files {
			fmt.Fprintf(cmd.OutOrStdout(), "OK %s\n", f)
		}
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configExplainCmd = &cobra.Command{
	Use:     "explain KEY",
	Short:   "Show a configuration value and where it was set",
	Example: `  winpos config explain http.listen`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		value, src, err := config.Explain(res, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %v (%s)\n", args[0], value, src)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPrintCmd, configValidateCmd, configPathCmd, configExplainCmd)
	rootCmd.AddCommand(configCmd)
}
