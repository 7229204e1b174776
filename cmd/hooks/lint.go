package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"commithooks/internal/gitrepo"
	"commithooks/internal/report"
)

var errLintFailed = errors.New("commit message lint failed")

type lintOptions struct {
	message     string
	file        string
	from        string
	to          string
	commentChar string
}

func newLintCmd(root *rootOptions) *cobra.Command {
	opts := &lintOptions{}
	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Lint commit messages",
		Long: `Lint a commit message against the configured rules.

The message comes from --message, --file (a commit message file, cleaned the
way git cleans it), a commit range (--from/--to), or stdin.

Examples:
  hooks lint -m "[CU-abc123] Fix login bug"
  hooks lint --file .git/COMMIT_EDITMSG
  hooks lint --from origin/main
  git log -1 --format=%B | hooks lint`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "Message to lint")
	cmd.Flags().StringVar(&opts.file, "file", "", "Commit message file to lint")
	cmd.Flags().StringVar(&opts.from, "from", "", "Lint commits reachable from --to but not from this revision")
	cmd.Flags().StringVar(&opts.to, "to", "", "Last commit of the range (default HEAD)")
	cmd.Flags().StringVar(&opts.commentChar, "comment-char", gitrepo.DefaultCommentChar, "Comment character stripped from --file and stdin input")
	cmd.MarkFlagsMutuallyExclusive("message", "file", "from")
	cmd.MarkFlagsMutuallyExclusive("message", "file", "to")
	return cmd
}

func runLint(cmd *cobra.Command, root *rootOptions, opts *lintOptions) error {
	cfg, path, err := root.loadConfig()
	if err != nil {
		return err
	}
	linter, err := cfg.Linter()
	if err != nil {
		if path != "" {
			return fmt.Errorf("%s: %w", path, err)
		}
		return err
	}

	items, err := opts.collect(cmd.InOrStdin())
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Report = linter.Lint(items[i].Input)
		root.logger().Debug("linted", "source", items[i].Source, "failed", items[i].Report.Failed())
	}

	out := cmd.OutOrStdout()
	if err := report.Encode(out, root.output, items, root.renderOptions(out)); err != nil {
		return err
	}
	if report.Failed(items) {
		return errLintFailed
	}
	return nil
}

// collect gathers the messages to lint from whichever source was given.
func (o *lintOptions) collect(stdin io.Reader) ([]report.Item, error) {
	switch {
	case o.message != "":
		return []report.Item{{Source: "message", Input: o.message}}, nil
	case o.file != "":
		data, err := os.ReadFile(o.file)
		if err != nil {
			return nil, err
		}
		return []report.Item{{Source: o.file, Input: gitrepo.CleanMessage(string(data), o.commentChar)}}, nil
	case o.from != "" || o.to != "":
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		repo, err := gitrepo.Open(cwd)
		if err != nil {
			return nil, err
		}
		commits, err := repo.Commits(o.from, o.to)
		if err != nil {
			return nil, err
		}
		items := make([]report.Item, 0, len(commits))
		for _, c := range commits {
			items = append(items, report.Item{Source: c.Hash, Input: c.Message})
		}
		return items, nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return []report.Item{{Source: "stdin", Input: gitrepo.CleanMessage(string(data), o.commentChar)}}, nil
}
