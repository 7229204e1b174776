package main

import (
	"fmt"
	"log/slog"
	"os"

	"commithooks/internal/commitmsg"
	"commithooks/internal/config"
	"commithooks/internal/hooks"
)

func main() {
	log := hooks.NewLogger(os.Stderr, hooks.DebugEnabled())
	hooks.RunOrDisabled("commit-msg-lint", func(input hooks.HookInput) (hooks.HookResult, int) {
		linter, err := loadLinter(log, input.Cwd())
		if err != nil {
			// Fail open on config errors, but say why
			fmt.Fprintf(os.Stderr, "commit-msg-lint: %v\n", err)
			return hooks.Allow(), 0
		}
		result, code := hooks.CommitMsgLint(input, linter)
		log.Debug("commit-msg-lint", "tool", input.ToolName, "decision", result.Decision, "code", code)
		return result, code
	})
}

// loadLinter resolves config from the agent's working directory when the
// payload carries one.
func loadLinter(log *slog.Logger, cwd string) (*commitmsg.Linter, error) {
	cfg, path, err := config.ResolveIn(cwd, "")
	if err != nil {
		return nil, err
	}
	linter, err := cfg.Linter()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("loaded config", "path", path, "rules", len(linter.Rules.Entries()))
	return linter, nil
}
