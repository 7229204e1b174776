package gitrepo

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RevisionError reports a revision that could not be resolved.
type RevisionError struct {
	Revision string
	Err      error
}

func (e *RevisionError) Error() string {
	return fmt.Sprintf("resolve revision %q: %v", e.Revision, e.Err)
}

func (e *RevisionError) Unwrap() error { return e.Err }

// Commit is a commit's short hash and full message.
type Commit struct {
	Hash    string `json:"hash" yaml:"hash"`
	Message string `json:"message" yaml:"message"`
}

// Commits returns the commits reachable from to but not from from, newest
// first. An empty from returns only the commit at to; an empty to means HEAD.
func (r *Repo) Commits(from, to string) ([]Commit, error) {
	if to == "" {
		to = "HEAD"
	}
	toHash, err := r.resolve(to)
	if err != nil {
		return nil, err
	}

	if from == "" {
		c, err := r.repo.CommitObject(toHash)
		if err != nil {
			return nil, err
		}
		return []Commit{newCommit(c)}, nil
	}

	fromHash, err := r.resolve(from)
	if err != nil {
		return nil, err
	}

	// Build set of commits reachable from base
	excluded := make(map[plumbing.Hash]bool)
	fromIter, err := r.repo.Log(&git.LogOptions{From: fromHash})
	if err != nil {
		return nil, err
	}
	if err := fromIter.ForEach(func(c *object.Commit) error {
		excluded[c.Hash] = true
		return nil
	}); err != nil {
		return nil, err
	}

	toIter, err := r.repo.Log(&git.LogOptions{From: toHash})
	if err != nil {
		return nil, err
	}
	var commits []Commit
	err = toIter.ForEach(func(c *object.Commit) error {
		// Keep walking: merge commits reach feature commits through other parents.
		if excluded[c.Hash] {
			return nil
		}
		excluded[c.Hash] = true
		commits = append(commits, newCommit(c))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

func (r *Repo) resolve(rev string) (plumbing.Hash, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, &RevisionError{Revision: rev, Err: err}
	}
	return *h, nil
}

func newCommit(c *object.Commit) Commit {
	return Commit{Hash: c.Hash.String()[:7], Message: c.Message}
}
