package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"commithooks/internal/hooks"
)

func TestLoadLinter_FromCwd(t *testing.T) {
	t.Setenv("HOOK_CONFIG", "")
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".hooks"), 0755); err != nil {
		t.Fatal(err)
	}
	cfg := "commitMsg:\n  rules:\n    clickup-task-id-case-rule: [2, always, [PR]]\n"
	if err := os.WriteFile(filepath.Join(dir, ".hooks", "config.yaml"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	linter, err := loadLinter(hooks.NewLogger(io.Discard, false), dir)
	if err != nil {
		t.Fatal(err)
	}
	if linter.Lint("[PR-abc] Fix").Failed() {
		t.Error("expected PR prefix from the payload cwd config to pass")
	}
	if !linter.Lint("[CU-abc] Fix").Failed() {
		t.Error("expected CU prefix to fail under the PR-only config")
	}
}

func TestLoadLinter_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("commitMsg:\n  rules:\n    clickup-task-id-min-length-rule: [2, sometimes]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOOK_CONFIG", path)
	if _, err := loadLinter(hooks.NewLogger(io.Discard, false), ""); err == nil {
		t.Error("expected error for invalid when")
	}
}
