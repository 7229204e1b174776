package config

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"commithooks/internal/commitmsg"
)

// RuleSetting is one rule's configuration: level (0 off, 1 warn, 2 error),
// applicability ("always" or "never") and an optional rule value.
//
// In YAML it is written either as a tuple or as a map:
//
//	clickup-task-id-max-length-rule: [2, always, 15]
//	clickup-task-id-max-length-rule: {level: 2, when: always, value: 15}
type RuleSetting struct {
	Level int
	When  string
	Value interface{}
}

func (s *RuleSetting) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v interface{}
	if err := unmarshal(&v); err != nil {
		return err
	}
	parsed, err := ruleSettingFrom(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s RuleSetting) MarshalYAML() (interface{}, error) {
	var n yaml.Node
	if err := n.Encode(s.tuple()); err != nil {
		return nil, err
	}
	n.Style = yaml.FlowStyle
	return &n, nil
}

func (s RuleSetting) tuple() []interface{} {
	when := s.When
	if when == "" {
		when = string(commitmsg.Always)
	}
	out := []interface{}{s.Level, when}
	if s.Value != nil {
		out = append(out, s.Value)
	}
	return out
}

// ruleSettingFrom accepts the decoded forms of a rule setting: a bare level,
// a [level, when, value] sequence, or a {level, when, value} map.
func ruleSettingFrom(v interface{}) (RuleSetting, error) {
	var (
		s        RuleSetting
		level    interface{}
		when     interface{}
		hasLevel bool
	)
	switch t := v.(type) {
	case []interface{}:
		if len(t) == 0 || len(t) > 3 {
			return s, fmt.Errorf("expected [level, when, value], got %d items", len(t))
		}
		level, hasLevel = t[0], true
		if len(t) > 1 {
			when = t[1]
		}
		if len(t) > 2 {
			s.Value = t[2]
		}
	case map[string]interface{}:
		for k, item := range t {
			switch k {
			case "level":
				level, hasLevel = item, true
			case "when":
				when = item
			case "value":
				s.Value = item
			default:
				return s, fmt.Errorf("unknown rule setting key %q", k)
			}
		}
	default:
		level, hasLevel = v, true
	}
	if !hasLevel {
		return s, fmt.Errorf("rule setting has no level")
	}

	l, err := toLevel(level)
	if err != nil {
		return s, err
	}
	s.Level = int(l)
	if when != nil {
		w, ok := when.(string)
		if !ok {
			return s, fmt.Errorf("when: expected string, got %T", when)
		}
		s.When = w
	}
	return s, nil
}

func (s RuleSetting) entry(id commitmsg.RuleID) (commitmsg.Entry, error) {
	if s.Level < int(commitmsg.LevelDisabled) || s.Level > int(commitmsg.LevelError) {
		return commitmsg.Entry{}, fmt.Errorf("level must be 0, 1 or 2, got %d", s.Level)
	}
	when := commitmsg.When(s.When)
	switch when {
	case "":
		when = commitmsg.Always
	case commitmsg.Always, commitmsg.Never:
	default:
		return commitmsg.Entry{}, fmt.Errorf("when must be %q or %q, got %q", commitmsg.Always, commitmsg.Never, s.When)
	}
	rule, err := buildRule(id, s.Value)
	if err != nil {
		return commitmsg.Entry{}, err
	}
	return commitmsg.Entry{Rule: rule, Level: commitmsg.Level(s.Level), When: when}, nil
}

// buildRule constructs the rule for id. A nil value leaves the rule's own
// default in place, so the max length rule falls back to 9, not the table's 15.
func buildRule(id commitmsg.RuleID, value interface{}) (commitmsg.Rule, error) {
	switch id {
	case commitmsg.TaskIDEmpty:
		return commitmsg.TaskIDEmptyRule{}, nil
	case commitmsg.MessageSeparator:
		return commitmsg.MessageSeparatorRule{}, nil
	case commitmsg.TaskIDMinLength:
		n, err := optionalLength(value)
		if err != nil {
			return nil, err
		}
		return commitmsg.NewTaskIDMinLength(commitmsg.MinLengthConfig{MinLength: n}), nil
	case commitmsg.TaskIDMaxLength:
		n, err := optionalLength(value)
		if err != nil {
			return nil, err
		}
		return commitmsg.NewTaskIDMaxLength(commitmsg.MaxLengthConfig{MaxLength: n}), nil
	case commitmsg.TaskIDCase:
		var prefixes []string
		if value != nil {
			p, err := toStrings(value)
			if err != nil {
				return nil, fmt.Errorf("value: %w", err)
			}
			prefixes = p
		}
		return commitmsg.NewTaskIDCase(commitmsg.CaseConfig{AllowedPrefixes: prefixes}), nil
	case commitmsg.TaskIDSeparator:
		var sep string
		if value != nil {
			s, ok := value.(string)
			if !ok || utf8.RuneCountInString(s) != 1 {
				return nil, fmt.Errorf("value: separator must be a single character, got %v", value)
			}
			sep = s
		}
		return commitmsg.NewTaskIDSeparator(commitmsg.SeparatorConfig{Separator: sep}), nil
	}
	return nil, fmt.Errorf("unknown rule %s", id)
}

// SettingFor returns the setting that reproduces e.
func SettingFor(e commitmsg.Entry) RuleSetting {
	s := RuleSetting{Level: int(e.Level), When: string(e.When)}
	switch r := e.Rule.(type) {
	case commitmsg.TaskIDMinLengthRule:
		s.Value = r.Config().MinLength
	case commitmsg.TaskIDMaxLengthRule:
		s.Value = r.Config().MaxLength
	case commitmsg.TaskIDCaseRule:
		s.Value = r.Config().AllowedPrefixes
	case commitmsg.TaskIDSeparatorRule:
		s.Value = r.Config().Separator
	}
	return s
}

func optionalLength(v interface{}) (int, error) {
	if v == nil {
		return 0, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("value: %w", err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("value: length must be positive, got %d", n)
	}
	return n, nil
}

func toLevel(v interface{}) (commitmsg.Level, error) {
	if s, ok := v.(string); ok {
		return commitmsg.ParseLevel(s)
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("level: %w", err)
	}
	return commitmsg.ParseLevel(strconv.Itoa(n))
}

// toInt converts the integer types YAML and TOML decoders produce.
func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("expected integer, got %T", v)
}

func toStrings(v interface{}) ([]string, error) {
	switch t := v.(type) {
	case string:
		return []string{t}, nil
	case []string:
		return t, nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected list of strings, got %T", v)
}
