package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"weasel/internal/config"
	"weasel/internal/logging"
)

var forceInit bool

// configCmd groups config file helpers
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or inspect the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (defaults, file, env and flags)",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configDiffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show how the effective configuration differs from the defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigDiff,
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	logging.Config("wrote defaults to %s", path)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigDiff(cmd *cobra.Command, args []string) error {
	out, err := config.Diff(config.DefaultConfig(), cfg)
	if err != nil {
		return err
	}
	if out == "" {
		out = "no changes from defaults\n"
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
