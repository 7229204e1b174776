package commitmsg

import (
	"fmt"
	"regexp"
)

// DefaultIgnorePatterns match generated messages (merges, reverts, autosquash
// markers) that carry no task reference.
var DefaultIgnorePatterns = []string{
	`^Merge pull request\b`,
	`^Merge (.*?) into (.*?)$`,
	`^Merge branch (.*?)$`,
	`^Merge tag (.*?)$`,
	`^Merge remote-tracking branch\b`,
	`^Merged (.*?)(in|into) (.*)`,
	`^Merged PR (.*): (.*)`,
	`^Automatic merge\b`,
	`^Auto-merged (.*?) into (.*)`,
	`^[Rr]evert (.*)`,
	`^(fixup|squash|amend)! `,
}

// Ignorer decides whether a message is exempt from linting. Patterns are
// matched against the first non-empty line.
type Ignorer struct {
	patterns []*regexp.Regexp
}

// NewIgnorer compiles patterns, prepending DefaultIgnorePatterns when
// withDefaults is set.
func NewIgnorer(withDefaults bool, patterns ...string) (*Ignorer, error) {
	var all []string
	if withDefaults {
		all = append(all, DefaultIgnorePatterns...)
	}
	all = append(all, patterns...)

	ig := &Ignorer{patterns: make([]*regexp.Regexp, 0, len(all))}
	for _, p := range all {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("ignore pattern %q: %w", p, err)
		}
		ig.patterns = append(ig.patterns, re)
	}
	return ig, nil
}

// Match reports whether raw should be skipped.
func (ig *Ignorer) Match(raw string) bool {
	if ig == nil {
		return false
	}
	line := firstLine(raw)
	if line == "" {
		return false
	}
	for _, re := range ig.patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
