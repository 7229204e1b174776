package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// TOML has no hook for custom array decoding, so rule settings travel as
// untyped values and are normalised by ruleSettingFrom.
type tomlCommitMsg struct {
	DefaultIgnores *bool                  `toml:"defaultIgnores,omitempty"`
	Ignores        []string               `toml:"ignores,omitempty"`
	Rules          map[string]interface{} `toml:"rules,omitempty"`
}

type tomlConfig struct {
	Version    int               `toml:"version"`
	Env        map[string]string `toml:"env,omitempty"`
	CommitMsg  *tomlCommitMsg    `toml:"commitMsg,omitempty"`
	PreToolUse []HookEntry       `toml:"preToolUse"`
	Output     *Output           `toml:"output,omitempty"`
}

func decodeTOML(data []byte) (*Config, error) {
	var raw tomlConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	cfg := &Config{
		Version:    raw.Version,
		Env:        raw.Env,
		PreToolUse: raw.PreToolUse,
		Output:     raw.Output,
	}
	if raw.CommitMsg != nil {
		cm := &CommitMsg{
			DefaultIgnores: raw.CommitMsg.DefaultIgnores,
			Ignores:        raw.CommitMsg.Ignores,
		}
		if len(raw.CommitMsg.Rules) > 0 {
			cm.Rules = make(map[string]RuleSetting, len(raw.CommitMsg.Rules))
		}
		for name, v := range raw.CommitMsg.Rules {
			s, err := ruleSettingFrom(v)
			if err != nil {
				return nil, fmt.Errorf("commitMsg.rules.%s: %w", name, err)
			}
			cm.Rules[name] = s
		}
		cfg.CommitMsg = cm
	}
	return cfg, nil
}

func encodeTOML(cfg *Config) ([]byte, error) {
	raw := tomlConfig{
		Version:    cfg.Version,
		Env:        cfg.Env,
		PreToolUse: cfg.PreToolUse,
		Output:     cfg.Output,
	}
	if cm := cfg.CommitMsg; cm != nil {
		raw.CommitMsg = &tomlCommitMsg{DefaultIgnores: cm.DefaultIgnores, Ignores: cm.Ignores}
		if len(cm.Rules) > 0 {
			raw.CommitMsg.Rules = make(map[string]interface{}, len(cm.Rules))
		}
		for name, s := range cm.Rules {
			raw.CommitMsg.Rules[name] = s.tuple()
		}
	}
	return toml.Marshal(raw)
}
