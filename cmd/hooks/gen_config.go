package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"commithooks/internal/config"
)

// genPaths says where gen-config reads binaries from and writes settings to.
// Paths are relative to workDir, the directory holding the hooks directory.
type genPaths struct {
	workDir   string
	binPrefix string // command prefix written into settings
	binDir    string // directory checked for hook binaries
	cursorDir string
	claudeDir string
}

func newGenConfigCmd(root *rootOptions) *cobra.Command {
	var skipValidate bool
	cmd := &cobra.Command{
		Use:   "gen-config",
		Short: "Generate Cursor and Claude hook settings from config",
		Long: `Generate .cursor/hooks.json and .claude/settings.json so agents run
commit-msg-lint before shell commands.

Output directories come from output.cursorDir / output.claudeDir, overridden
by HOOK_CONFIG_CURSOR_DIR / HOOK_CONFIG_CLAUDE_DIR.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := root.loadConfig()
			if err != nil {
				return err
			}
			if path == "" {
				return fmt.Errorf("%w: run hooks init first", config.ErrNotFound)
			}
			return genConfig(cmd.OutOrStdout(), cfg, resolveGenPaths(cfg, path), skipValidate)
		},
	}
	cmd.Flags().BoolVar(&skipValidate, "skip-validate", false, "skip hook binary existence check (e.g. for init before bins installed)")
	return cmd
}

func resolveGenPaths(cfg *config.Config, configPath string) genPaths {
	hooksDir := filepath.Dir(configPath)
	p := genPaths{
		workDir:   hooksDir,
		binPrefix: "./bin/",
		binDir:    "bin",
		cursorDir: ".cursor",
		claudeDir: ".claude",
	}
	// .hooks/config.yaml and hooks/config.yaml live one level below the repo.
	if base := filepath.Base(hooksDir); base == ".hooks" || base == "hooks" {
		p.workDir = filepath.Dir(hooksDir)
		p.binPrefix = "./" + base + "/bin/"
		p.binDir = filepath.Join(base, "bin")
	}
	if out := cfg.Output; out != nil {
		if out.BinDir != "" {
			bp := config.ExpandHome(out.BinDir)
			p.binDir = bp
			if !strings.HasSuffix(bp, "/") {
				bp += "/"
			}
			p.binPrefix = bp
		}
		if out.CursorDir != "" {
			p.cursorDir = out.CursorDir
		}
		if out.ClaudeDir != "" {
			p.claudeDir = out.ClaudeDir
		}
	}
	if d := os.Getenv("HOOK_CONFIG_CURSOR_DIR"); d != "" {
		p.cursorDir = d
	}
	if d := os.Getenv("HOOK_CONFIG_CLAUDE_DIR"); d != "" {
		p.claudeDir = d
	}
	return p
}

func (p genPaths) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.workDir, path)
}

func genConfig(w io.Writer, cfg *config.Config, p genPaths, skipValidate bool) error {
	if !skipValidate {
		if err := validateHookBinaries(cfg, p.abs(p.binDir)); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	var backends []string
	if cfg.Output != nil {
		backends = cfg.Output.Backends
	}
	if wantBackend(backends, "cursor") {
		if err := writeJSON(w, p.abs(filepath.Join(p.cursorDir, "hooks.json")), cursorConfig(cfg, p.binPrefix)); err != nil {
			return err
		}
	}
	if wantBackend(backends, "claude") {
		if err := writeJSON(w, p.abs(filepath.Join(p.claudeDir, "settings.json")), claudeConfig(cfg, p.binPrefix)); err != nil {
			return err
		}
	}

	// Optional .cursor/hooks.env from config.env
	if len(cfg.Env) > 0 {
		envPath := p.abs(filepath.Join(p.cursorDir, "hooks.env"))
		if err := os.MkdirAll(filepath.Dir(envPath), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(envPath, envFile(cfg.Env), 0644); err != nil {
			return fmt.Errorf("write %s: %w", envPath, err)
		}
		fmt.Fprintln(w, "wrote", envPath)
	}
	return nil
}

func writeJSON(w io.Writer, path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintln(w, "wrote", path)
	return nil
}

func envFile(env map[string]string) []byte {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k + "=" + env[k] + "\n")
	}
	return []byte(sb.String())
}

func filterEntries(entries []config.HookEntry) []config.HookEntry {
	var out []config.HookEntry
	for _, e := range entries {
		if e.Included() {
			out = append(out, e)
		}
	}
	return out
}

func validateHookBinaries(cfg *config.Config, binDir string) error {
	seen := make(map[string]bool)
	for _, e := range filterEntries(cfg.PreToolUse) {
		if e.Name == "" || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		path := filepath.Join(binDir, e.Name)
		if info, err := os.Stat(path); err != nil {
			return fmt.Errorf("hook %q: binary not found at %s (build it with: go build -o %s ./cmd/%s)", e.Name, path, path, e.Name)
		} else if info.IsDir() {
			return fmt.Errorf("hook %q: %s is a directory, expected binary", e.Name, path)
		}
	}
	return nil
}

// wantBackend returns true if backends is empty (all) or contains name.
func wantBackend(backends []string, name string) bool {
	if len(backends) == 0 {
		return true
	}
	for _, b := range backends {
		if b == name {
			return true
		}
	}
	return false
}

func cursorConfig(cfg *config.Config, binPrefix string) map[string]interface{} {
	entries := filterEntries(cfg.PreToolUse)
	hooks := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		m := map[string]interface{}{"command": binPrefix + e.Name}
		if e.Matcher != "" {
			m["matcher"] = e.Matcher
		}
		hooks = append(hooks, m)
	}
	return map[string]interface{}{
		"version": cfg.Version,
		"hooks": map[string]interface{}{
			"preToolUse": hooks,
		},
	}
}

func claudeConfig(cfg *config.Config, binPrefix string) map[string]interface{} {
	return map[string]interface{}{
		"hooks": map[string]interface{}{
			"PreToolUse": claudePreToolUse(filterEntries(cfg.PreToolUse), binPrefix),
		},
	}
}

// claudePreToolUse groups entries by matcher; entries without one match
// every tool.
func claudePreToolUse(entries []config.HookEntry, binPrefix string) []map[string]interface{} {
	var order []string
	groups := make(map[string][]config.HookEntry)
	for _, e := range entries {
		m := e.Matcher
		if m == "" {
			m = ".*"
		}
		if _, ok := groups[m]; !ok {
			order = append(order, m)
		}
		groups[m] = append(groups[m], e)
	}
	var out []map[string]interface{}
	for _, m := range order {
		out = append(out, map[string]interface{}{"matcher": m, "hooks": hookList(groups[m], binPrefix)})
	}
	return out
}

func hookList(entries []config.HookEntry, binPrefix string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		out = append(out, map[string]interface{}{"type": "command", "command": binPrefix + e.Name})
	}
	return out
}
