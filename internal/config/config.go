package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"commithooks/internal/commitmsg"
)

// ErrNotFound is returned when no configuration file exists.
var ErrNotFound = errors.New("config not found")

// candidates are tried in each directory, in order, while searching upward.
var candidates = []string{
	filepath.Join(".hooks", "config.yaml"),
	filepath.Join(".hooks", "config.toml"),
	filepath.Join("hooks", "config.yaml"),
	filepath.Join("hooks", "config.toml"),
}

type HookEntry struct {
	Name    string `yaml:"name" toml:"name"`
	Matcher string `yaml:"matcher,omitempty" toml:"matcher,omitempty"`
	Enabled *bool  `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
}

func (h *HookEntry) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		h.Name = s
		return nil
	}
	var m struct {
		Name    string `yaml:"name"`
		Matcher string `yaml:"matcher"`
		Enabled *bool  `yaml:"enabled"`
	}
	if err := unmarshal(&m); err != nil {
		return err
	}
	h.Name = m.Name
	h.Matcher = m.Matcher
	h.Enabled = m.Enabled
	return nil
}

func (h HookEntry) Included() bool {
	return h.Enabled == nil || *h.Enabled
}

// Output controls where gen-config writes agent settings.
type Output struct {
	BinDir    string   `yaml:"binDir,omitempty" toml:"binDir,omitempty"`
	CursorDir string   `yaml:"cursorDir,omitempty" toml:"cursorDir,omitempty"`
	ClaudeDir string   `yaml:"claudeDir,omitempty" toml:"claudeDir,omitempty"`
	Backends  []string `yaml:"backends,omitempty" toml:"backends,omitempty"`
}

// CommitMsg configures commit message linting. Rules overlay the default
// rule table; a rule missing here keeps its default entry.
type CommitMsg struct {
	DefaultIgnores *bool                  `yaml:"defaultIgnores,omitempty" toml:"defaultIgnores,omitempty"`
	Ignores        []string               `yaml:"ignores,omitempty" toml:"ignores,omitempty"`
	Rules          map[string]RuleSetting `yaml:"rules,omitempty" toml:"rules,omitempty"`
}

type Config struct {
	Version    int               `yaml:"version" toml:"version"`
	Env        map[string]string `yaml:"env,omitempty" toml:"env,omitempty"`
	CommitMsg  *CommitMsg        `yaml:"commitMsg,omitempty" toml:"commitMsg,omitempty"`
	PreToolUse []HookEntry       `yaml:"preToolUse" toml:"preToolUse"`
	Output     *Output           `yaml:"output,omitempty" toml:"output,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	rules := make(map[string]RuleSetting)
	for _, e := range commitmsg.DefaultEntries() {
		rules[e.Rule.ID().String()] = SettingFor(e)
	}
	return &Config{
		Version:    1,
		CommitMsg:  &CommitMsg{Rules: rules},
		PreToolUse: []HookEntry{{Name: "commit-msg-lint", Matcher: "Shell"}},
	}
}

// Linter builds the commit message linter described by c.
func (c *Config) Linter() (*commitmsg.Linter, error) {
	cm := c.CommitMsg
	if cm == nil {
		cm = &CommitMsg{}
	}

	entries := commitmsg.DefaultEntries()
	for name, s := range cm.Rules {
		id, ok := commitmsg.ParseRuleID(name)
		if !ok {
			return nil, fmt.Errorf("commitMsg.rules: unknown rule %q", name)
		}
		e, err := s.entry(id)
		if err != nil {
			return nil, fmt.Errorf("commitMsg.rules.%s: %w", name, err)
		}
		entries = append(entries, e)
	}

	withDefaults := cm.DefaultIgnores == nil || *cm.DefaultIgnores
	ignores, err := commitmsg.NewIgnorer(withDefaults, cm.Ignores...)
	if err != nil {
		return nil, fmt.Errorf("commitMsg.ignores: %w", err)
	}
	return commitmsg.NewLinter(commitmsg.NewRuleSet(entries...), ignores), nil
}

// FindConfigPath searches upward from the current working directory for a
// configuration file and returns the file path and the directory that
// contains the hooks directory. It returns ErrNotFound when the search
// reaches the filesystem root.
func FindConfigPath() (configPath, workDir string, err error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", "", err
	}
	return findFrom(dir)
}

func findFrom(dir string) (configPath, workDir string, err error) {
	startDir := dir
	for {
		for _, c := range candidates {
			p := filepath.Join(dir, c)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p, dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("%w: no .hooks/config.yaml or hooks/config.yaml (searched up from %s)", ErrNotFound, startDir)
		}
		dir = parent
	}
}

// Resolve picks the configuration file: explicit path, then HOOK_CONFIG,
// then an upward search. It returns the default configuration and an empty
// path when nothing is found.
func Resolve(explicit string) (*Config, string, error) {
	return ResolveIn("", explicit)
}

// ResolveIn is Resolve with the upward search starting at dir instead of the
// working directory. An empty dir means the working directory.
func ResolveIn(dir, explicit string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv("HOOK_CONFIG")
	}
	if path == "" {
		var (
			p   string
			err error
		)
		if dir == "" {
			p, _, err = FindConfigPath()
		} else {
			p, _, err = findFrom(dir)
		}
		if errors.Is(err, ErrNotFound) {
			return Default(), "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Load reads a YAML or TOML (by extension) configuration file from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if isTOML(path) {
		cfg, err := decodeTOML(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return cfg, nil
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save marshals cfg to YAML or TOML (by extension) and writes it to path.
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = encodeTOML(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
