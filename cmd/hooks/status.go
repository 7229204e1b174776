package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"commithooks/internal/commitmsg"
	"commithooks/internal/gitrepo"
)

func newStatusCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show config, rules and installed hooks for this repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			return runStatus(cmd.OutOrStdout(), root, cwd)
		},
	}
}

func runStatus(w io.Writer, root *rootOptions, dir string) error {
	fmt.Fprintln(w, "=== Config ===")
	cfg, path, err := root.loadConfig()
	if err != nil {
		fmt.Fprintf(w, "  Error loading config: %v\n", err)
	} else {
		workDir := dir
		if path == "" {
			fmt.Fprintln(w, "  (none found, using defaults)")
		} else {
			fmt.Fprintf(w, "  Config: %s\n", path)
			workDir = resolveGenPaths(cfg, path).workDir
		}
		if linter, err := cfg.Linter(); err != nil {
			fmt.Fprintf(w, "  Invalid rules: %v\n", err)
		} else {
			counts := make(map[commitmsg.Level]int)
			for _, e := range linter.Rules.Entries() {
				counts[e.Level]++
			}
			fmt.Fprintf(w, "  Rules: %d error, %d warning, %d disabled\n",
				counts[commitmsg.LevelError], counts[commitmsg.LevelWarning], counts[commitmsg.LevelDisabled])
		}
		for _, f := range []string{filepath.Join(".cursor", "hooks.json"), filepath.Join(".claude", "settings.json")} {
			if _, err := os.Stat(filepath.Join(workDir, f)); err == nil {
				fmt.Fprintf(w, "  Generated: %s\n", filepath.Join(workDir, f))
			}
		}
	}

	fmt.Fprintln(w, "\n=== Git hook ===")
	repo, err := gitrepo.Open(dir)
	if err != nil {
		fmt.Fprintln(w, "  (not a git repository)")
		return nil
	}
	hooksDir, err := repo.HooksDir()
	if err != nil {
		return err
	}
	state, err := gitrepo.InspectHook(hooksDir, hookName)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  %s (%s)\n", filepath.Join(hooksDir, hookName), state)
	return nil
}
