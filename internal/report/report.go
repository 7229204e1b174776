// Package report renders commit message lint results for terminals and
// machine consumers.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"commithooks/internal/commitmsg"
)

// Item is one linted message. Source names where it came from: a commit
// hash, a file path, or "stdin".
type Item struct {
	Source string           `json:"source" yaml:"source"`
	Input  string           `json:"input" yaml:"input"`
	Report commitmsg.Report `json:"report" yaml:"report"`
}

// Options control table rendering.
type Options struct {
	Color bool
	// Verbose also lists passing rules.
	Verbose bool
}

// ColorEnabled reports whether output to f should be coloured: f must be a
// terminal, NO_COLOR unset and noColor false.
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

type styles struct {
	input, fail, warn, pass, rule lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		input: r.NewStyle().Bold(true),
		fail:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		pass:  r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		rule:  r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Render writes a human-readable report for each item followed by a summary.
func Render(w io.Writer, items []Item, opts Options) {
	s := newStyles(w, opts.Color)
	for _, it := range items {
		renderItem(w, s, it, opts)
	}
}

func renderItem(w io.Writer, s styles, it Item, opts Options) {
	subject := firstLine(it.Input)
	if it.Source != "" {
		subject = it.Source + "  " + subject
	}
	fmt.Fprintf(w, "%s   input: %s\n", s.input.Render("⧗"), subject)

	if it.Report.Ignored {
		fmt.Fprintf(w, "%s   ignored\n\n", s.rule.Render("-"))
		return
	}

	errs, warns := it.Report.Errors(), it.Report.Warnings()
	for _, res := range it.Report.Results {
		switch {
		case !res.Pass && res.Level == commitmsg.LevelError:
			fmt.Fprintf(w, "%s   %s %s\n", s.fail.Render("✖"), res.Message, s.rule.Render("["+res.Rule.String()+"]"))
		case !res.Pass && res.Level == commitmsg.LevelWarning:
			fmt.Fprintf(w, "%s   %s %s\n", s.warn.Render("⚠"), res.Message, s.rule.Render("["+res.Rule.String()+"]"))
		case opts.Verbose:
			fmt.Fprintf(w, "%s   %s\n", s.pass.Render("✔"), s.rule.Render(res.Rule.String()))
		}
	}

	mark := s.pass.Render("✔")
	if len(errs) > 0 {
		mark = s.fail.Render("✖")
	} else if len(warns) > 0 {
		mark = s.warn.Render("⚠")
	}
	fmt.Fprintf(w, "\n%s   found %d problems, %d warnings\n\n", mark, len(errs), len(warns))
}

// Encode writes items in format: "json", "yaml", or "table" (Render).
func Encode(w io.Writer, format string, items []Item, opts Options) error {
	switch strings.ToLower(format) {
	case "", "table":
		Render(w, items, opts)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
}

// Failed reports whether any item has an error-level failure.
func Failed(items []Item) bool {
	for _, it := range items {
		if it.Report.Failed() {
			return true
		}
	}
	return false
}

// Summary is a one-line description of failures, suitable for a hook reason.
func Summary(r commitmsg.Report) string {
	var msgs []string
	for _, res := range r.Errors() {
		msgs = append(msgs, res.Message)
	}
	return strings.Join(msgs, "; ")
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
