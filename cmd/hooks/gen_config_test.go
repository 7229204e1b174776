package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"commithooks/internal/config"
)

func boolPtr(b bool) *bool { return &b }

func TestResolveGenPaths(t *testing.T) {
	t.Setenv("HOOK_CONFIG_CURSOR_DIR", "")
	t.Setenv("HOOK_CONFIG_CLAUDE_DIR", "")

	tests := []struct {
		name      string
		path      string
		output    *config.Output
		workDir   string
		binPrefix string
	}{
		{"dot hooks", "/repo/.hooks/config.yaml", nil, "/repo", "./.hooks/bin/"},
		{"hooks", "/repo/hooks/config.toml", nil, "/repo", "./hooks/bin/"},
		{"bare", "/repo/config.yaml", nil, "/repo", "./bin/"},
		{"binDir", "/repo/.hooks/config.yaml", &config.Output{BinDir: "/opt/hooks"}, "/repo", "/opt/hooks/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := resolveGenPaths(&config.Config{Output: tt.output}, tt.path)
			if p.workDir != tt.workDir {
				t.Errorf("expected workDir %q, got %q", tt.workDir, p.workDir)
			}
			if p.binPrefix != tt.binPrefix {
				t.Errorf("expected binPrefix %q, got %q", tt.binPrefix, p.binPrefix)
			}
		})
	}
}

func TestResolveGenPaths_EnvOverrides(t *testing.T) {
	t.Setenv("HOOK_CONFIG_CURSOR_DIR", "/tmp/cursor")
	t.Setenv("HOOK_CONFIG_CLAUDE_DIR", "")
	p := resolveGenPaths(&config.Config{Output: &config.Output{CursorDir: "c", ClaudeDir: "cl"}}, "/repo/.hooks/config.yaml")
	if p.cursorDir != "/tmp/cursor" {
		t.Errorf("expected env to win, got %q", p.cursorDir)
	}
	if p.claudeDir != "cl" {
		t.Errorf("expected config claudeDir, got %q", p.claudeDir)
	}
}

func TestClaudePreToolUse_GroupsByMatcher(t *testing.T) {
	entries := []config.HookEntry{
		{Name: "commit-msg-lint", Matcher: "Shell"},
		{Name: "other"},
		{Name: "second-shell", Matcher: "Shell"},
	}
	out := claudePreToolUse(entries, "./bin/")
	if len(out) != 2 {
		t.Fatalf("expected 2 matcher groups, got %d", len(out))
	}
	if out[0]["matcher"] != "Shell" || out[1]["matcher"] != ".*" {
		t.Errorf("expected groups in first-seen order, got %v", out)
	}
	hooks := out[0]["hooks"].([]map[string]interface{})
	if len(hooks) != 2 || hooks[0]["command"] != "./bin/commit-msg-lint" {
		t.Errorf("unexpected shell hooks %v", hooks)
	}
}

func TestFilterEntries(t *testing.T) {
	entries := []config.HookEntry{
		{Name: "a"},
		{Name: "b", Enabled: boolPtr(false)},
		{Name: "c", Enabled: boolPtr(true)},
	}
	out := filterEntries(entries)
	if len(out) != 2 || out[0].Name != "a" || out[1].Name != "c" {
		t.Errorf("expected a and c, got %v", out)
	}
}

func TestWantBackend(t *testing.T) {
	if !wantBackend(nil, "cursor") {
		t.Error("empty backends should want every backend")
	}
	if wantBackend([]string{"claude"}, "cursor") {
		t.Error("cursor not listed")
	}
	if !wantBackend([]string{"claude"}, "claude") {
		t.Error("claude listed")
	}
}

func TestGenConfig_WritesSettings(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Env = map[string]string{"B": "2", "A": "1"}
	p := resolveGenPaths(cfg, filepath.Join(dir, ".hooks", "config.yaml"))
	p.cursorDir, p.claudeDir = ".cursor", ".claude"

	var out bytes.Buffer
	if err := genConfig(&out, cfg, p, true); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".cursor", "hooks.json"))
	if err != nil {
		t.Fatal(err)
	}
	var cursor struct {
		Hooks struct {
			PreToolUse []map[string]string `json:"preToolUse"`
		} `json:"hooks"`
	}
	if err := json.Unmarshal(data, &cursor); err != nil {
		t.Fatal(err)
	}
	if len(cursor.Hooks.PreToolUse) != 1 || cursor.Hooks.PreToolUse[0]["command"] != "./.hooks/bin/commit-msg-lint" {
		t.Errorf("unexpected cursor hooks %s", data)
	}

	data, err = os.ReadFile(filepath.Join(dir, ".claude", "settings.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"matcher": "Shell"`) {
		t.Errorf("expected Shell matcher in claude settings, got %s", data)
	}

	env, err := os.ReadFile(filepath.Join(dir, ".cursor", "hooks.env"))
	if err != nil {
		t.Fatal(err)
	}
	if string(env) != "A=1\nB=2\n" {
		t.Errorf("expected sorted env file, got %q", env)
	}
	if strings.Count(out.String(), "wrote") != 3 {
		t.Errorf("expected three files reported, got:\n%s", out.String())
	}
}

func TestGenConfig_ValidatesBinaries(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	p := resolveGenPaths(cfg, filepath.Join(dir, ".hooks", "config.yaml"))

	err := genConfig(&bytes.Buffer{}, cfg, p, false)
	if err == nil || !strings.Contains(err.Error(), "commit-msg-lint") {
		t.Fatalf("expected missing binary error, got %v", err)
	}

	bin := filepath.Join(dir, ".hooks", "bin")
	if err := os.MkdirAll(bin, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(bin, "commit-msg-lint"), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := genConfig(&bytes.Buffer{}, cfg, p, false); err != nil {
		t.Errorf("expected binaries to validate, got %v", err)
	}
}

func TestInit(t *testing.T) {
	t.Setenv("HOOK_CONFIG_CURSOR_DIR", "")
	t.Setenv("HOOK_CONFIG_CLAUDE_DIR", "")
	dir := t.TempDir()

	out, err := execute(t, "", "init", dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{".hooks/config.yaml", ".cursor/hooks.json", ".claude/settings.json"} {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("expected %s: %v", f, err)
		}
	}
	if !strings.Contains(out, "config.yaml") {
		t.Errorf("expected config path in output, got %q", out)
	}

	if _, err := execute(t, "", "init", dir); err == nil {
		t.Error("expected init to refuse overwriting config")
	}
	if _, err := execute(t, "", "init", dir, "--force"); err != nil {
		t.Errorf("expected --force to overwrite, got %v", err)
	}
}
