package hooks

import (
	"strings"
	"testing"

	"commithooks/internal/commitmsg"
)

func defaultLinter(t *testing.T) *commitmsg.Linter {
	t.Helper()
	ig, err := commitmsg.NewIgnorer(true)
	if err != nil {
		t.Fatal(err)
	}
	return commitmsg.NewLinter(nil, ig)
}

func TestCommitMsgLint_BlocksBadMessages(t *testing.T) {
	tests := []struct {
		name   string
		cmd    string
		reason string
	}{
		{"no task id", `git commit -m "fixed the bug"`, "clickup case"},
		{"lower case prefix", `git commit -m "[cu-ab,CU-xy] fix"`, "cu-ab taskId"},
		{"no footer", `git commit -m "[CU-abc]"`, "single space"},
		{"no separator", `git commit -m "[CUabc123] no separator"`, `separated with "-"`},
		{"empty message", `git commit -m ""`, commitmsg.EmptyMessage},
		{"single quotes", `git commit -m 'fix the thing'`, "clickup case"},
		{"combined flags", `git commit -am "nothing here"`, "clickup case"},
		{"long flag", `git commit --message="[CU-abcdefghijklmnop] too long"`, "longer than 15"},
	}

	linter := defaultLinter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, code := CommitMsgLint(shellInput(tt.cmd), linter)
			if code != 2 {
				t.Errorf("expected block (exit 2), got %d for %q", code, tt.cmd)
			}
			if result.Decision != "deny" {
				t.Errorf("expected deny, got %q", result.Decision)
			}
			if !strings.Contains(result.Reason, tt.reason) {
				t.Errorf("expected reason to contain %q, got %q", tt.reason, result.Reason)
			}
		})
	}
}

func TestCommitMsgLint_AllowsGoodMessages(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
	}{
		{"single task", `git commit -m "[CU-abc123] Fix login bug"`},
		{"two tasks", `git commit -m "[CU-abc,CU-def] Fix login bug"`},
		{"branch style", `git commit -m "[feature/CU-abc] Add auth"`},
		{"single quotes", `git commit -m '[CU-abc123] Fix login bug'`},
		{"amend", `git commit --amend -m "[CU-abc123] Fix login bug"`},
		{"first -m is the subject", `git commit -m "[CU-abc123] Fix login bug" -m "body without task"`},
		{"merge message ignored", `git commit -m "Merge branch 'feature' into main"`},
		{"chained", `git add . && git commit -m "[CU-abc123] Fix login bug"`},
		{"non-commit command", "git status"},
		{"git add", "git add ."},
		{"commit without -m", "git commit"},
	}

	linter := defaultLinter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, code := CommitMsgLint(shellInput(tt.cmd), linter)
			if code != 0 {
				t.Errorf("expected allow (exit 0), got %d for %q; reason: %s", code, tt.cmd, result.Reason)
			}
			if result.Decision != "allow" {
				t.Errorf("expected allow, got %q", result.Decision)
			}
		})
	}
}

func TestCommitMsgLint_Warnings(t *testing.T) {
	linter := commitmsg.NewLinter(commitmsg.NewRuleSet(
		commitmsg.Entry{Rule: commitmsg.NewTaskIDCase(commitmsg.CaseConfig{}), Level: commitmsg.LevelWarning},
	), nil)
	result, code := CommitMsgLint(shellInput(`git commit -m "[PR-abc] x"`), linter)
	if code != 0 || result.Decision != "allow" {
		t.Fatalf("warning must not block, got %d %q", code, result.Decision)
	}
	if !strings.HasPrefix(result.Message, "Warning: PR-abc taskId") {
		t.Errorf("expected warning message, got %q", result.Message)
	}
}

func TestCommitMsgLint_PassthroughNonShell(t *testing.T) {
	result, code := CommitMsgLint(writeInput("main.go", "package main"), defaultLinter(t))
	if code != 0 || result.Decision != "allow" {
		t.Error("should passthrough non-Shell tools")
	}
}

func TestCommitMsgLint_HeredocIgnored(t *testing.T) {
	result, code := CommitMsgLint(shellInput(`git commit -m "$(cat <<'EOF'
no task here

Detailed description here.
EOF
)"`), defaultLinter(t))
	if code != 0 {
		t.Errorf("heredoc commits are left to the commit-msg hook, got block: %s", result.Reason)
	}
}

func TestCommitMessage(t *testing.T) {
	tests := []struct {
		cmd string
		msg string
		ok  bool
	}{
		{`git commit -m "[CU-abc] x"`, "[CU-abc] x", true},
		{`git commit -m '[CU-abc] x'`, "[CU-abc] x", true},
		{`git commit --message "[CU-abc] x"`, "[CU-abc] x", true},
		{`git commit -S -m "[CU-abc] x" -m "second"`, "[CU-abc] x", true},
		{`git commit`, "", false},
		{`git log -m "x"`, "", false},
	}
	for _, tt := range tests {
		msg, ok := CommitMessage(tt.cmd)
		if ok != tt.ok || msg != tt.msg {
			t.Errorf("CommitMessage(%q) = %q, %v; expected %q, %v", tt.cmd, msg, ok, tt.msg, tt.ok)
		}
	}
}
