package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"commithooks/internal/config"
)

//go:embed config_default.yaml
var defaultConfigYAML []byte

func newInitCmd(root *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a repo with .hooks/config.yaml",
		Long: `Write .hooks/config.yaml with the default rule table and generate agent
hook settings. Path defaults to the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}
			absTarget, err := filepath.Abs(target)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			configPath, err := writeDefaultConfig(absTarget, force)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "wrote", configPath)

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			root.logger().Debug("generating agent settings", "dir", absTarget)
			// Binaries are usually built after init.
			return genConfig(out, cfg, resolveGenPaths(cfg, configPath), true)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing .hooks/config.yaml")
	return cmd
}

func writeDefaultConfig(dir string, force bool) (string, error) {
	hooksDir := filepath.Join(dir, ".hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return "", err
	}
	configPath := filepath.Join(hooksDir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return configPath, fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, defaultConfigYAML, 0644); err != nil {
		return configPath, err
	}
	return configPath, nil
}
