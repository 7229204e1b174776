package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"commithooks/internal/commitmsg"
	"commithooks/internal/config"
)

// ruleRow is one line of the effective rule table.
type ruleRow struct {
	Rule  string      `json:"rule" yaml:"rule"`
	Level string      `json:"level" yaml:"level"`
	When  string      `json:"when" yaml:"when"`
	Value interface{} `json:"value,omitempty" yaml:"value,omitempty"`
}

func newRulesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the effective rule table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.loadConfig()
			if err != nil {
				return err
			}
			linter, err := cfg.Linter()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return writeRules(out, root.output, ruleRows(linter.Rules), root.renderOptions(out).Color)
		},
	}
	cmd.AddCommand(newRulesSetCmd(root))
	return cmd
}

func newRulesSetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <rule> <level> [when] [value]",
		Short: "Change one rule in the config file",
		Long: `Change one rule in the config file and save it.

Level is 0/off, 1/warning or 2/error. When is "always" or "never". The value
is a length for the length rules, a comma separated prefix list for the case
rule and a single character for the separator rule.

Example:
  hooks rules set clickup-task-id-max-length-rule error always 20
  hooks rules set clickup-task-id-case-rule 2 always CU,PR`,
		Args: cobra.RangeArgs(2, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := root.loadConfig()
			if err != nil {
				return err
			}
			if path == "" {
				return fmt.Errorf("%w: run hooks init first", config.ErrNotFound)
			}
			e, err := setRule(cfg, args)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "saved", path)
			fmt.Fprintf(out, "%s: %s, %s, %s\n", e.Rule.ID(), e.Level, e.When, formatValue(config.SettingFor(e).Value))
			return nil
		},
	}
}

// setRule applies "<rule> <level> [when] [value]" to cfg, checks that the
// result still builds a linter and returns the rule's effective entry.
func setRule(cfg *config.Config, args []string) (commitmsg.Entry, error) {
	id, ok := commitmsg.ParseRuleID(args[0])
	if !ok {
		return commitmsg.Entry{}, fmt.Errorf("unknown rule %q", args[0])
	}
	level, err := commitmsg.ParseLevel(args[1])
	if err != nil {
		return commitmsg.Entry{}, err
	}
	s := config.RuleSetting{Level: int(level), When: string(commitmsg.Always)}
	if len(args) > 2 {
		s.When = args[2]
	}
	if len(args) > 3 {
		if s.Value, err = parseRuleValue(id, args[3]); err != nil {
			return commitmsg.Entry{}, err
		}
	}

	if cfg.CommitMsg == nil {
		cfg.CommitMsg = &config.CommitMsg{}
	}
	if cfg.CommitMsg.Rules == nil {
		cfg.CommitMsg.Rules = make(map[string]config.RuleSetting)
	}
	prev, had := cfg.CommitMsg.Rules[id.String()]
	cfg.CommitMsg.Rules[id.String()] = s
	linter, err := cfg.Linter()
	if err != nil {
		if had {
			cfg.CommitMsg.Rules[id.String()] = prev
		} else {
			delete(cfg.CommitMsg.Rules, id.String())
		}
		return commitmsg.Entry{}, err
	}
	e, _ := linter.Rules.Entry(id)
	return e, nil
}

func parseRuleValue(id commitmsg.RuleID, v string) (interface{}, error) {
	switch id {
	case commitmsg.TaskIDMinLength, commitmsg.TaskIDMaxLength:
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: value must be a number, got %q", id, v)
		}
		return n, nil
	case commitmsg.TaskIDCase:
		var prefixes []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				prefixes = append(prefixes, p)
			}
		}
		return prefixes, nil
	case commitmsg.TaskIDSeparator:
		return v, nil
	}
	return nil, fmt.Errorf("%s takes no value", id)
}

func ruleRows(rs *commitmsg.RuleSet) []ruleRow {
	entries := rs.Entries()
	rows := make([]ruleRow, 0, len(entries))
	for _, e := range entries {
		s := config.SettingFor(e)
		rows = append(rows, ruleRow{
			Rule:  e.Rule.ID().String(),
			Level: e.Level.String(),
			When:  string(e.When),
			Value: s.Value,
		})
	}
	return rows
}

func writeRules(w io.Writer, format string, rows []ruleRow, color bool) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "", "table":
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}

	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.Ascii)
	if color {
		r.SetColorProfile(termenv.ANSI)
	}
	header := r.NewStyle().Bold(true).Padding(0, 1)
	cell := r.NewStyle().Padding(0, 1)
	off := cell.Foreground(lipgloss.Color("8"))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("RULE", "LEVEL", "WHEN", "VALUE").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row >= 0 && row < len(rows) && rows[row].Level == commitmsg.LevelDisabled.String():
				return off
			}
			return cell
		})
	for _, row := range rows {
		t.Row(row.Rule, row.Level, row.When, formatValue(row.Value))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case []string:
		return strings.Join(v, ", ")
	case string:
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprint(v)
}
