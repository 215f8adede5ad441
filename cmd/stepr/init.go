package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/stepr/internal/config"
	"github.com/spf13/cobra"
)

var initFlags struct {
	global bool
	force  bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Long: `Write the effective configuration to ./stepr.yml, or to the global
config file with --global. Existing files are kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.global, "global", false, "Write the global config instead of the project one")
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path, write := config.ProjectPath(), config.WriteProject
	if initFlags.global {
		path, write = config.GlobalPath(), config.WriteGlobal
	}
	if _, err := os.Stat(path); err == nil && !initFlags.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := write(cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
