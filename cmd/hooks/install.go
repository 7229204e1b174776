package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"commithooks/internal/gitrepo"
)

const hookName = "commit-msg"

type installOptions struct {
	bin   string
	force bool
}

func newInstallCmd(root *rootOptions) *cobra.Command {
	opts := &installOptions{}
	cmd := &cobra.Command{
		Use:   "install [repo]",
		Short: "Install the git commit-msg hook",
		Long: `Install a commit-msg hook that runs the commit-msg binary on every commit.

The hook goes to core.hooksPath when set, else .git/hooks. An existing hook
not written by this command is kept unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}
			bin, err := opts.resolveBin()
			if err != nil {
				return err
			}
			path, err := installHook(target, bin, opts.force)
			if err != nil {
				return err
			}
			root.logger().Debug("installed hook", "path", path, "bin", bin)
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.bin, "bin", "", "commit-msg binary the hook runs (default: next to hooks, else $PATH)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Replace an existing commit-msg hook")
	return cmd
}

// resolveBin finds the commit-msg binary: --bin, then the directory holding
// this executable, then $PATH.
func (o *installOptions) resolveBin() (string, error) {
	if o.bin != "" {
		return filepath.Abs(o.bin)
	}
	name := hookName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s binary not found next to hooks or in $PATH (use --bin)", name)
	}
	return filepath.Abs(p)
}

func installHook(target, bin string, force bool) (string, error) {
	repo, err := gitrepo.Open(target)
	if err != nil {
		return "", err
	}
	dir, err := repo.HooksDir()
	if err != nil {
		return "", err
	}
	return gitrepo.InstallHook(dir, hookName, gitrepo.HookScript(bin), force)
}
