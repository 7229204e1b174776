// Package gitrepo reads commit messages from git repositories and installs
// the commit-msg hook.
package gitrepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// ErrHookExists is returned by InstallHook when a foreign hook is in the way.
var ErrHookExists = errors.New("hook already exists")

// hookMarker identifies hook scripts written by InstallHook.
const hookMarker = "# installed by commithooks"

// Repo wraps a go-git repository.
type Repo struct {
	repo *git.Repository
}

// New wraps an already opened repository.
func New(r *git.Repository) *Repo {
	return &Repo{repo: r}
}

// Open opens the repository containing path, searching parent directories.
func Open(path string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}
	return New(r), nil
}

// Root returns the top directory of the working tree.
func (r *Repo) Root() (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

// HooksDir returns the directory git runs hooks from: core.hooksPath when set
// (relative paths resolve against the working tree), else <gitdir>/hooks.
func (r *Repo) HooksDir() (string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return "", fmt.Errorf("read git config: %w", err)
	}
	if p := strings.TrimSpace(cfg.Raw.Section("core").Option("hooksPath")); p != "" {
		if filepath.IsAbs(p) {
			return p, nil
		}
		root, err := r.Root()
		if err != nil {
			return "", err
		}
		return filepath.Join(root, p), nil
	}

	fs, ok := r.repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", errors.New("repository is not stored on disk")
	}
	return filepath.Join(fs.Filesystem().Root(), "hooks"), nil
}

// HookScript returns the commit-msg hook body that runs bin on the message file.
func HookScript(bin string) string {
	return "#!/bin/sh\n" + hookMarker + "\nexec " + shellQuote(bin) + " \"$1\"\n"
}

// HookState describes what occupies a hook slot.
type HookState int

const (
	HookMissing HookState = iota
	HookInstalled
	HookForeign
)

func (s HookState) String() string {
	switch s {
	case HookInstalled:
		return "installed"
	case HookForeign:
		return "foreign hook"
	}
	return "not installed"
}

// InspectHook reports whether the hook called name in dir is absent, was
// written by InstallHook, or belongs to something else.
func InspectHook(dir, name string) (HookState, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		return HookMissing, nil
	}
	if err != nil {
		return HookMissing, err
	}
	if strings.Contains(string(data), hookMarker) {
		return HookInstalled, nil
	}
	return HookForeign, nil
}

// InstallHook writes an executable hook called name into dir. An existing
// hook not written by InstallHook is only replaced when force is set.
func InstallHook(dir, name, script string, force bool) (string, error) {
	path := filepath.Join(dir, name)
	state, err := InspectHook(dir, name)
	if err != nil {
		return path, err
	}
	if state == HookForeign && !force {
		return path, fmt.Errorf("%w: %s (use --force to replace)", ErrHookExists, path)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return path, err
	}
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		return path, err
	}
	// WriteFile keeps the mode of an existing file.
	return path, os.Chmod(path, 0755)
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`;&|<>()*?[]#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
