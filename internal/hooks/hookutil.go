package hooks

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// HookInput is the JSON payload piped to hooks via stdin.
type HookInput struct {
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
}

// Command extracts the "command" field from tool_input (Shell tool).
func (h *HookInput) Command() string {
	return h.stringField("command")
}

// Cwd extracts the "cwd" field from tool_input.
func (h *HookInput) Cwd() string {
	return h.stringField("cwd")
}

func (h *HookInput) stringField(name string) string {
	var m map[string]interface{}
	if err := json.Unmarshal(h.ToolInput, &m); err != nil {
		return ""
	}
	if v, ok := m[name].(string); ok {
		return v
	}
	return ""
}

// HookResult is the JSON output from a hook.
type HookResult struct {
	Decision string `json:"decision,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Message  string `json:"message,omitempty"`
}

func Allow() HookResult {
	return HookResult{Decision: "allow"}
}

func AllowMsg(msg string) HookResult {
	return HookResult{Decision: "allow", Message: msg}
}

func Deny(reason string) HookResult {
	return HookResult{Decision: "deny", Reason: reason}
}

// ReadInput reads and parses HookInput from the given reader.
func ReadInput(r io.Reader) (HookInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return HookInput{}, fmt.Errorf("reading stdin: %w", err)
	}
	var input HookInput
	if err := json.Unmarshal(data, &input); err != nil {
		return HookInput{}, fmt.Errorf("parsing input: %w", err)
	}
	return input, nil
}

// IsHookDisabled returns true if name is listed in HOOK_DISABLED (comma-separated, trimmed).
func IsHookDisabled(name string) bool {
	v := os.Getenv("HOOK_DISABLED")
	if v == "" {
		return false
	}
	for _, s := range strings.Split(v, ",") {
		if strings.TrimSpace(s) == name {
			return true
		}
	}
	return false
}

// DebugEnabled reports whether HOOK_DEBUG is set to a true value.
func DebugEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("HOOK_DEBUG")))
	return v == "1" || v == "true" || v == "yes"
}

// NewLogger returns a text logger on w at debug level when debug is set, and
// a logger that drops everything otherwise. Hook stdout carries the JSON
// result, so w is normally stderr.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Process reads a HookInput from r, calls hookFn, writes the JSON result to w
// and returns the exit code. Unparseable input fails open.
func Process(r io.Reader, w io.Writer, hookFn func(HookInput) (HookResult, int)) int {
	input, err := ReadInput(r)
	if err != nil {
		fmt.Fprintln(w, `{"decision": "allow"}`)
		return 0
	}

	result, exitCode := hookFn(input)
	out, _ := json.Marshal(result)
	fmt.Fprintln(w, string(out))
	return exitCode
}

// Run is the standard entrypoint for a hook binary.
// It reads stdin, calls the hook function, writes the JSON result to stdout,
// and exits with the appropriate code.
func Run(hookFn func(HookInput) (HookResult, int)) {
	os.Exit(Process(os.Stdin, os.Stdout, hookFn))
}

// RunOrDisabled runs the hook unless its name is in HOOK_DISABLED; then outputs allow and exits 0.
func RunOrDisabled(name string, hookFn func(HookInput) (HookResult, int)) {
	if IsHookDisabled(name) {
		fmt.Println(`{"decision": "allow"}`)
		os.Exit(0)
	}
	Run(hookFn)
}
