package hooks

import (
	"regexp"
	"strings"

	"commithooks/internal/commitmsg"
	"commithooks/internal/report"
)

var (
	commitMsgRe       = regexp.MustCompile(`\bgit\s+commit\s+(?:.*?\s)?(?:-[a-zA-Z]*m|--message)(?:\s+|=)"([^"]*)"`)
	commitMsgSingleRe = regexp.MustCompile(`\bgit\s+commit\s+(?:.*?\s)?(?:-[a-zA-Z]*m|--message)(?:\s+|=)'([^']*)'`)
	heredocRe         = regexp.MustCompile(`\$\(cat\s+<<`)
)

// CommitMessage extracts the -m/--message text from a git commit shell
// command. ok is false when cmd is not a git commit with an inline message.
func CommitMessage(cmd string) (msg string, ok bool) {
	if heredocRe.MatchString(cmd) {
		return "", false
	}
	if matches := commitMsgRe.FindStringSubmatch(cmd); len(matches) > 1 {
		return matches[1], true
	}
	if matches := commitMsgSingleRe.FindStringSubmatch(cmd); len(matches) > 1 {
		return matches[1], true
	}
	return "", false
}

// CommitMsgLint is a preToolUse hook that validates task references in
// commit messages passed with git commit -m.
func CommitMsgLint(input HookInput, linter *commitmsg.Linter) (HookResult, int) {
	if input.ToolName != "Shell" {
		return Allow(), 0
	}

	cmd := input.Command()
	if cmd == "" {
		return Allow(), 0
	}

	msg, ok := CommitMessage(cmd)
	if !ok {
		// Not a git commit with -m, or uses heredoc; the commit-msg git hook covers those
		return Allow(), 0
	}

	res := linter.Lint(msg)
	if res.Failed() {
		return Deny("Blocked: " + report.Summary(res) +
			`. Expected: "[CU-abc123] My commit message"`), 2
	}

	if warns := res.Warnings(); len(warns) > 0 {
		msgs := make([]string, 0, len(warns))
		for _, w := range warns {
			msgs = append(msgs, w.Message)
		}
		return AllowMsg("Warning: " + strings.Join(msgs, "; ")), 0
	}
	return Allow(), 0
}
