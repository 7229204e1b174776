package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"commithooks/internal/config"
	"commithooks/internal/hooks"
	"commithooks/internal/report"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	cfgFile string
	verbose bool
	output  string
	noColor bool
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "hooks",
		Short: "Commit message linting for ClickUp task ids",
		Long: `hooks lints commit messages of the form "[CU-abc123] My commit message".

Commands:
  init        Write .hooks/config.yaml and agent hook settings
  install     Install the git commit-msg hook
  lint        Lint a message, a message file or a commit range
  rules       Show the effective rule table (rules set changes one)
  status      Show config, rules and installed hooks
  gen-config  Generate Cursor and Claude hook settings from config`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.log = hooks.NewLogger(cmd.ErrOrStderr(), opts.verbose || hooks.DebugEnabled())
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "Config file (default: .hooks/config.yaml searched upward, or $HOOK_CONFIG)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format (json, table, yaml)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(
		newInitCmd(opts),
		newInstallCmd(opts),
		newLintCmd(opts),
		newRulesCmd(opts),
		newStatusCmd(opts),
		newGenConfigCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hooks:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration named by --config, $HOOK_CONFIG or
// the upward search. path is empty when the built-in defaults are used.
func (o *rootOptions) loadConfig() (cfg *config.Config, path string, err error) {
	cfg, path, err = config.Resolve(o.cfgFile)
	if err != nil {
		return nil, path, err
	}
	if path == "" {
		o.logger().Debug("no config file found, using defaults")
	} else {
		o.logger().Debug("loaded config", "path", path)
	}
	return cfg, path, nil
}

func (o *rootOptions) logger() *slog.Logger {
	if o.log == nil {
		o.log = hooks.NewLogger(io.Discard, false)
	}
	return o.log
}

// renderOptions returns report options for output written to w.
func (o *rootOptions) renderOptions(w io.Writer) report.Options {
	color := false
	if f, ok := w.(*os.File); ok {
		color = report.ColorEnabled(f, o.noColor)
	}
	return report.Options{Color: color, Verbose: o.verbose}
}
