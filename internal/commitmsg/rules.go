package commitmsg

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// EmptyMessage is the verdict message of every rule for an empty commit message.
const EmptyMessage = "Commit message should not be empty"

// Rule defaults. The max length rule has its own default (9) that differs from
// the value the default rule table configures (15); both are independent.
const (
	DefaultMinLength       = 3
	DefaultMaxLength       = 9
	TableMaxLength         = 15
	DefaultTaskIDSeparator = "-"
)

// DefaultPrefixes are the task ID prefixes accepted by the case rule.
var DefaultPrefixes = []string{"CU"}

// RuleID identifies a rule. The string form is the rule's configuration key.
type RuleID int

const (
	TaskIDEmpty RuleID = iota + 1
	TaskIDMinLength
	TaskIDMaxLength
	TaskIDCase
	TaskIDSeparator
	MessageSeparator
)

var ruleNames = map[RuleID]string{
	TaskIDEmpty:      "clickup-task-is-empty-rule",
	TaskIDMinLength:  "clickup-task-id-min-length-rule",
	TaskIDMaxLength:  "clickup-task-id-max-length-rule",
	TaskIDCase:       "clickup-task-id-case-rule",
	TaskIDSeparator:  "clickup-task-id-separator-rule",
	MessageSeparator: "clickup-commit-message-separator-rule",
}

// RuleIDs returns every known rule in evaluation order.
func RuleIDs() []RuleID {
	return []RuleID{TaskIDEmpty, TaskIDMinLength, TaskIDMaxLength, TaskIDCase, TaskIDSeparator, MessageSeparator}
}

func (id RuleID) String() string {
	if name, ok := ruleNames[id]; ok {
		return name
	}
	return fmt.Sprintf("rule(%d)", int(id))
}

// ParseRuleID resolves a configuration key to a RuleID.
func ParseRuleID(name string) (RuleID, bool) {
	for id, n := range ruleNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

func (id RuleID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *RuleID) UnmarshalText(text []byte) error {
	parsed, ok := ParseRuleID(string(text))
	if !ok {
		return fmt.Errorf("unknown rule %q", text)
	}
	*id = parsed
	return nil
}

// Verdict is the outcome of one rule: pass or fail plus an explanation.
type Verdict struct {
	Pass    bool   `json:"pass" yaml:"pass"`
	Message string `json:"message" yaml:"message"`
}

// Rule is a check over a raw commit message. Implementations are pure and
// never panic; an empty message always fails with EmptyMessage.
type Rule interface {
	ID() RuleID
	Evaluate(raw string) Verdict
}

var emptyVerdict = Verdict{Pass: false, Message: EmptyMessage}

// TaskIDEmptyRule passes when the header carries at least one task ID.
type TaskIDEmptyRule struct{}

func (TaskIDEmptyRule) ID() RuleID { return TaskIDEmpty }

func (TaskIDEmptyRule) Evaluate(raw string) Verdict {
	if raw == "" {
		return emptyVerdict
	}
	msg := Parse(raw)
	return Verdict{
		Pass: len(msg.TaskIDs) > 0,
		Message: `the commit message must provide at least one task id, ` +
			`if the task has no id use a conventional task id e.g: "[CU-xxxxxx] My commit message"`,
	}
}

// MinLengthConfig configures TaskIDMinLengthRule. A non-positive MinLength
// means DefaultMinLength. Lengths count characters, not bytes.
type MinLengthConfig struct {
	MinLength int
}

// TaskIDMinLengthRule passes when no task ID is shorter than MinLength.
type TaskIDMinLengthRule struct {
	cfg MinLengthConfig
}

func NewTaskIDMinLength(cfg MinLengthConfig) TaskIDMinLengthRule {
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultMinLength
	}
	return TaskIDMinLengthRule{cfg: cfg}
}

func (r TaskIDMinLengthRule) Config() MinLengthConfig { return r.cfg }

func (TaskIDMinLengthRule) ID() RuleID { return TaskIDMinLength }

func (r TaskIDMinLengthRule) Evaluate(raw string) Verdict {
	if raw == "" {
		return emptyVerdict
	}
	limit := r.cfg.MinLength
	if limit <= 0 {
		limit = DefaultMinLength
	}
	bad, found := findTaskID(Parse(raw).TaskIDs, func(id string) bool { return utf8.RuneCountInString(id) < limit })
	if !found {
		return Verdict{Pass: true, Message: fmt.Sprintf("taskId must not be shorter than %d characters", limit)}
	}
	return Verdict{Message: fmt.Sprintf("%s taskId must not be shorter than %d characters", bad, limit)}
}

// MaxLengthConfig configures TaskIDMaxLengthRule. A non-positive MaxLength
// means DefaultMaxLength. Lengths count characters, not bytes.
type MaxLengthConfig struct {
	MaxLength int
}

// TaskIDMaxLengthRule passes when no task ID is longer than MaxLength.
type TaskIDMaxLengthRule struct {
	cfg MaxLengthConfig
}

func NewTaskIDMaxLength(cfg MaxLengthConfig) TaskIDMaxLengthRule {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	return TaskIDMaxLengthRule{cfg: cfg}
}

func (r TaskIDMaxLengthRule) Config() MaxLengthConfig { return r.cfg }

func (TaskIDMaxLengthRule) ID() RuleID { return TaskIDMaxLength }

func (r TaskIDMaxLengthRule) Evaluate(raw string) Verdict {
	if raw == "" {
		return emptyVerdict
	}
	limit := r.cfg.MaxLength
	if limit <= 0 {
		limit = DefaultMaxLength
	}
	bad, found := findTaskID(Parse(raw).TaskIDs, func(id string) bool { return utf8.RuneCountInString(id) > limit })
	if !found {
		return Verdict{Pass: true, Message: fmt.Sprintf("taskId must not be longer than %d characters", limit)}
	}
	return Verdict{Message: fmt.Sprintf("%s taskId must not be longer than %d characters", bad, limit)}
}

// CaseConfig configures TaskIDCaseRule. Nil AllowedPrefixes means DefaultPrefixes.
type CaseConfig struct {
	AllowedPrefixes []string
}

// TaskIDCaseRule passes when every task ID is "<PREFIX>-<suffix>" with an
// allowed upper case prefix and a lower case suffix.
type TaskIDCaseRule struct {
	cfg CaseConfig
}

func NewTaskIDCase(cfg CaseConfig) TaskIDCaseRule {
	if cfg.AllowedPrefixes == nil {
		cfg.AllowedPrefixes = DefaultPrefixes
	}
	cfg.AllowedPrefixes = slices.Clone(cfg.AllowedPrefixes)
	return TaskIDCaseRule{cfg: cfg}
}

func (r TaskIDCaseRule) Config() CaseConfig {
	return CaseConfig{AllowedPrefixes: slices.Clone(r.cfg.AllowedPrefixes)}
}

func (TaskIDCaseRule) ID() RuleID { return TaskIDCase }

func (r TaskIDCaseRule) Evaluate(raw string) Verdict {
	if raw == "" {
		return emptyVerdict
	}
	allowed := r.cfg.AllowedPrefixes
	if allowed == nil {
		allowed = DefaultPrefixes
	}
	bad, found := findTaskID(Parse(raw).TaskIDs, func(id string) bool {
		parts := strings.Split(id, DefaultTaskIDSeparator)
		prefix, suffix := parts[0], ""
		if len(parts) > 1 {
			suffix = parts[1]
		}
		return prefix != strings.ToUpper(prefix) ||
			!slices.Contains(allowed, prefix) ||
			suffix != strings.ToLower(suffix)
	})
	if !found {
		return Verdict{Pass: true, Message: "taskId must be clickup case e.g: CU-abc123"}
	}
	return Verdict{Message: fmt.Sprintf("%s taskId must be clickup case e.g: CU-abc123", bad)}
}

// SeparatorConfig configures TaskIDSeparatorRule. Empty means DefaultTaskIDSeparator.
type SeparatorConfig struct {
	Separator string
}

// TaskIDSeparatorRule passes when every task ID contains the separator.
type TaskIDSeparatorRule struct {
	cfg SeparatorConfig
}

func NewTaskIDSeparator(cfg SeparatorConfig) TaskIDSeparatorRule {
	if cfg.Separator == "" {
		cfg.Separator = DefaultTaskIDSeparator
	}
	return TaskIDSeparatorRule{cfg: cfg}
}

func (r TaskIDSeparatorRule) Config() SeparatorConfig { return r.cfg }

func (TaskIDSeparatorRule) ID() RuleID { return TaskIDSeparator }

func (r TaskIDSeparatorRule) Evaluate(raw string) Verdict {
	if raw == "" {
		return emptyVerdict
	}
	sep := r.cfg.Separator
	if sep == "" {
		sep = DefaultTaskIDSeparator
	}
	msg := fmt.Sprintf(`taskId header and footer must be separated with "%s" e.g: CU-abc123`, sep)
	bad, found := findTaskID(Parse(raw).TaskIDs, func(id string) bool { return !strings.Contains(id, sep) })
	if !found {
		return Verdict{Pass: true, Message: msg}
	}
	return Verdict{Message: bad + " " + msg}
}

// MessageSeparatorRule passes when the first line has both a header and a footer.
type MessageSeparatorRule struct{}

func (MessageSeparatorRule) ID() RuleID { return MessageSeparator }

func (MessageSeparatorRule) Evaluate(raw string) Verdict {
	if raw == "" {
		return emptyVerdict
	}
	msg := Parse(raw)
	return Verdict{
		Pass:    msg.Header != "" && msg.Footer != "",
		Message: "Commit message parts must be separated with a single space character e.g: [CU-abc123] My commit message body",
	}
}

func findTaskID(ids []string, invalid func(string) bool) (string, bool) {
	for _, id := range ids {
		if invalid(id) {
			return id, true
		}
	}
	return "", false
}
