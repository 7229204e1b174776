package commitmsg

import (
	"fmt"
	"slices"
	"strings"
)

// Level is the severity of a rule: 0 disabled, 1 warning, 2 error.
type Level int

const (
	LevelDisabled Level = iota
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDisabled:
		return "disabled"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLevel accepts "0".."2" or the level names.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "off", "disabled":
		return LevelDisabled, nil
	case "1", "warn", "warning":
		return LevelWarning, nil
	case "2", "error":
		return LevelError, nil
	}
	return 0, fmt.Errorf("invalid rule level %q", s)
}

// When selects whether a rule's verdict is used as-is or inverted.
type When string

const (
	Always When = "always"
	Never  When = "never"
)

// Entry binds a rule to its severity and applicability in a RuleSet.
type Entry struct {
	Rule  Rule
	Level Level
	When  When
}

// Result is the verdict of one rule within a RuleSet evaluation.
type Result struct {
	Rule    RuleID `json:"rule" yaml:"rule"`
	Level   Level  `json:"level" yaml:"level"`
	Verdict `yaml:",inline"`
}

// Report is every rule's result for one message. Ignored is set when the
// message matched an ignore pattern and no rule ran.
type Report struct {
	Ignored bool     `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Results []Result `json:"results" yaml:"results"`
}

// Errors returns failing results at error level.
func (r Report) Errors() []Result {
	return r.failing(LevelError)
}

// Warnings returns failing results at warning level.
func (r Report) Warnings() []Result {
	return r.failing(LevelWarning)
}

// Failed reports whether any error-level rule failed.
func (r Report) Failed() bool {
	return len(r.Errors()) > 0
}

func (r Report) failing(level Level) []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Pass && res.Level == level {
			out = append(out, res)
		}
	}
	return out
}

// RuleSet is an immutable table of rules keyed by RuleID. It is safe for
// concurrent use.
type RuleSet struct {
	entries map[RuleID]Entry
}

// NewRuleSet builds a RuleSet; a later entry for the same rule replaces an
// earlier one. An empty When means Always.
func NewRuleSet(entries ...Entry) *RuleSet {
	s := &RuleSet{entries: make(map[RuleID]Entry, len(entries))}
	for _, e := range entries {
		if e.Rule == nil {
			continue
		}
		if e.When == "" {
			e.When = Always
		}
		s.entries[e.Rule.ID()] = e
	}
	return s
}

// DefaultRuleSet returns the standard rule table: every rule at error level,
// min length 3, max length 15, prefixes ["CU"], separator "-".
func DefaultRuleSet() *RuleSet {
	return NewRuleSet(DefaultEntries()...)
}

// DefaultEntries returns the entries of DefaultRuleSet.
func DefaultEntries() []Entry {
	return []Entry{
		{Rule: TaskIDEmptyRule{}, Level: LevelError, When: Always},
		{Rule: NewTaskIDMinLength(MinLengthConfig{MinLength: DefaultMinLength}), Level: LevelError, When: Always},
		{Rule: NewTaskIDMaxLength(MaxLengthConfig{MaxLength: TableMaxLength}), Level: LevelError, When: Always},
		{Rule: NewTaskIDCase(CaseConfig{AllowedPrefixes: DefaultPrefixes}), Level: LevelError, When: Always},
		{Rule: NewTaskIDSeparator(SeparatorConfig{Separator: DefaultTaskIDSeparator}), Level: LevelError, When: Always},
		{Rule: MessageSeparatorRule{}, Level: LevelError, When: Always},
	}
}

// Entry returns the entry configured for id.
func (s *RuleSet) Entry(id RuleID) (Entry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// Entries returns all entries ordered by RuleID.
func (s *RuleSet) Entries() []Entry {
	ids := make([]RuleID, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.entries[id])
	}
	return out
}

// Evaluate runs every enabled rule against raw, in RuleID order.
func (s *RuleSet) Evaluate(raw string) Report {
	var report Report
	for _, e := range s.Entries() {
		if e.Level == LevelDisabled {
			continue
		}
		v := e.Rule.Evaluate(raw)
		// An empty message fails regardless of applicability.
		if e.When == Never && raw != "" {
			v.Pass = !v.Pass
		}
		report.Results = append(report.Results, Result{Rule: e.Rule.ID(), Level: e.Level, Verdict: v})
	}
	return report
}

// Linter evaluates messages against a RuleSet, skipping ignored messages.
type Linter struct {
	Rules   *RuleSet
	Ignores *Ignorer
}

// NewLinter returns a Linter; a nil rules uses DefaultRuleSet and a nil
// ignores ignores nothing.
func NewLinter(rules *RuleSet, ignores *Ignorer) *Linter {
	if rules == nil {
		rules = DefaultRuleSet()
	}
	return &Linter{Rules: rules, Ignores: ignores}
}

// Lint evaluates raw. An ignored message yields a passing, empty Report.
func (l *Linter) Lint(raw string) Report {
	if l.Ignores != nil && raw != "" && l.Ignores.Match(raw) {
		return Report{Ignored: true}
	}
	return l.Rules.Evaluate(raw)
}
