// Command commit-msg is a git commit-msg hook. Git runs it with the path of
// the file holding the proposed message; a non-zero exit aborts the commit.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"commithooks/internal/config"
	"commithooks/internal/gitrepo"
	"commithooks/internal/hooks"
	"commithooks/internal/report"
)

func main() {
	opts := options{
		color:   report.ColorEnabled(os.Stderr, false),
		verbose: hooks.DebugEnabled(),
		log:     hooks.NewLogger(os.Stderr, hooks.DebugEnabled()),
	}
	os.Exit(run(os.Args[1:], os.Stderr, opts))
}

type options struct {
	color   bool
	verbose bool
	config  string
	log     *slog.Logger
}

func run(args []string, stderr io.Writer, opts options) int {
	if hooks.IsHookDisabled("commit-msg") {
		return 0
	}
	if len(args) < 1 {
		fmt.Fprintf(stderr, "usage: commit-msg <message-file>\n")
		return 1
	}
	if opts.log == nil {
		opts.log = hooks.NewLogger(stderr, false)
	}

	msg, err := gitrepo.ReadMessageFile(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "commit-msg: %v\n", err)
		return 1
	}

	cfg, path, err := config.Resolve(opts.config)
	if err != nil {
		fmt.Fprintf(stderr, "commit-msg: %v\n", err)
		return 1
	}
	linter, err := cfg.Linter()
	if err != nil {
		fmt.Fprintf(stderr, "commit-msg: %s: %v\n", path, err)
		return 1
	}
	opts.log.Debug("linting", "file", args[0], "config", path)

	res := linter.Lint(msg)
	if res.Failed() || len(res.Warnings()) > 0 || opts.verbose {
		report.Render(stderr, []report.Item{{Input: msg, Report: res}}, report.Options{Color: opts.color, Verbose: opts.verbose})
	}
	if res.Failed() {
		return 1
	}
	return 0
}
