// Package git shells out to the git command-line tool for repository
// inspection and diff retrieval.
package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kdlbs/kandev/pkg/executil"
)

// Executor runs git commands against a repository.
type Executor struct {
	gitPath string
	exec    executil.Executor
}

// NewExecutor creates a git executor using the specified git binary path.
func NewExecutor(gitPath string, exec executil.Executor) *Executor {
	return &Executor{gitPath: gitPath, exec: exec}
}

// RepoRoot returns the top-level directory of the repository containing dir.
func (e *Executor) RepoRoot(ctx context.Context, dir string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Branch returns the current branch name, or the short commit SHA when
// HEAD is detached.
func (e *Executor) Branch(ctx context.Context, dir string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("git branch: %w", err)
	}

	branch := strings.TrimSpace(string(out))
	if branch != "" {
		return branch, nil
	}

	out, err = e.exec.RunDir(ctx, dir, e.gitPath, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

// DefaultBranch returns the name of the remote default branch (e.g. "main").
func (e *Executor) DefaultBranch(ctx context.Context, dir string) (string, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "rev-parse", "--abbrev-ref", "origin/HEAD")
	if err != nil {
		return "", fmt.Errorf("resolve default branch: %w", err)
	}
	return strings.TrimPrefix(strings.TrimSpace(string(out)), "origin/"), nil
}

// IsClean reports whether the working tree has no uncommitted changes.
func (e *Executor) IsClean(ctx context.Context, dir string) (bool, error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}
	return len(strings.TrimSpace(string(out))) == 0, nil
}

// DiffStats returns the total insertions and deletions for uncommitted
// changes, as shown by git diff --shortstat.
func (e *Executor) DiffStats(ctx context.Context, dir string) (additions, deletions int, err error) {
	out, err := e.exec.RunDir(ctx, dir, e.gitPath, "diff", "--shortstat", "HEAD")
	if err != nil {
		return 0, 0, fmt.Errorf("git diff: %w", err)
	}

	return parseDiffStats(string(out))
}

// parseDiffStats parses git diff --shortstat output, e.g.
// " 3 files changed, 10 insertions(+), 5 deletions(-)".
func parseDiffStats(output string) (additions, deletions int, err error) {
	fields := strings.Fields(output)
	for i, f := range fields {
		if i == 0 {
			continue
		}
		var n int
		n, err = strconv.Atoi(fields[i-1])
		if err != nil {
			err = nil
			continue
		}
		switch {
		case strings.HasPrefix(f, "insertion"):
			additions = n
		case strings.HasPrefix(f, "deletion"):
			deletions = n
		}
	}
	return additions, deletions, nil
}
