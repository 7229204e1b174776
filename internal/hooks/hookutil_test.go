package hooks

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func shellInput(cmd string) HookInput {
	ti, _ := json.Marshal(map[string]string{"command": cmd})
	return HookInput{ToolName: "Shell", ToolInput: ti}
}

func writeInput(path, contents string) HookInput {
	ti, _ := json.Marshal(map[string]string{"path": path, "contents": contents})
	return HookInput{ToolName: "Write", ToolInput: ti}
}

func TestIsHookDisabled_Unset(t *testing.T) {
	os.Unsetenv("HOOK_DISABLED")
	if IsHookDisabled("commit-msg-lint") {
		t.Error("expected false when HOOK_DISABLED unset")
	}
}

func TestIsHookDisabled_Single(t *testing.T) {
	t.Setenv("HOOK_DISABLED", "commit-msg-lint")
	if !IsHookDisabled("commit-msg-lint") {
		t.Error("expected true when hook in HOOK_DISABLED")
	}
	if IsHookDisabled("commit-msg") {
		t.Error("expected false for other hook")
	}
}

func TestIsHookDisabled_List(t *testing.T) {
	t.Setenv("HOOK_DISABLED", "audit, commit-msg ,commit-msg-lint")
	if !IsHookDisabled("commit-msg") {
		t.Error("expected true for commit-msg")
	}
	if !IsHookDisabled("commit-msg-lint") {
		t.Error("expected true for commit-msg-lint")
	}
	if IsHookDisabled("validate-shell") {
		t.Error("expected false for validate-shell")
	}
}

func TestIsHookDisabled_Empty(t *testing.T) {
	t.Setenv("HOOK_DISABLED", "")
	if IsHookDisabled("commit-msg") {
		t.Error("expected false when HOOK_DISABLED empty")
	}
}

func TestDebugEnabled(t *testing.T) {
	t.Setenv("HOOK_DEBUG", "true")
	if !DebugEnabled() {
		t.Error("expected debug enabled")
	}
	t.Setenv("HOOK_DEBUG", "0")
	if DebugEnabled() {
		t.Error("expected debug disabled")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
	NewLogger(&buf, true).Debug("shown", "rule", "x")
	if !strings.Contains(buf.String(), "msg=shown") || !strings.Contains(buf.String(), "rule=x") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}

func TestProcess(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader(`{"tool_name":"Shell","tool_input":{"command":"git status"}}`)
	code := Process(in, &out, func(h HookInput) (HookResult, int) {
		if h.Command() != "git status" {
			t.Errorf("expected command, got %q", h.Command())
		}
		return Deny("no"), 2
	})
	if code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
	var res HookResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Decision != "deny" || res.Reason != "no" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestProcess_FailsOpen(t *testing.T) {
	var out bytes.Buffer
	called := false
	code := Process(strings.NewReader("not json"), &out, func(HookInput) (HookResult, int) {
		called = true
		return Deny("no"), 2
	})
	if code != 0 || called {
		t.Errorf("expected fail-open without calling hook, got code %d called %v", code, called)
	}
	if !strings.Contains(out.String(), `"allow"`) {
		t.Errorf("expected allow output, got %q", out.String())
	}
}

func TestHookInput_MissingFields(t *testing.T) {
	h := HookInput{ToolName: "Shell", ToolInput: json.RawMessage(`{"command": 42}`)}
	if h.Command() != "" || h.Cwd() != "" {
		t.Error("expected empty strings for missing or non-string fields")
	}
}
