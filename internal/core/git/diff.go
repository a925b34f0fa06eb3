package git

import (
	"context"
	"fmt"

	"github.com/kdlbs/kandev/internal/core/config"
)

// DiffMode specifies the type of diff to retrieve.
type DiffMode int

const (
	// DiffUncommitted covers all uncommitted changes (working directory + staged).
	DiffUncommitted DiffMode = iota
	// DiffStaged covers only staged changes.
	DiffStaged
	// DiffBranch covers changes between a base branch and HEAD.
	DiffBranch
)

// ModeFromString maps a configured diff context name to a DiffMode.
func ModeFromString(s string) (DiffMode, error) {
	switch s {
	case config.DiffUncommitted:
		return DiffUncommitted, nil
	case config.DiffStaged:
		return DiffStaged, nil
	case config.DiffBranch:
		return DiffBranch, nil
	default:
		return 0, fmt.Errorf("unknown diff context %q", s)
	}
}

// DiffOptions specifies options for retrieving a git diff.
type DiffOptions struct {
	Mode       DiffMode
	BaseBranch string // required for DiffBranch mode
}

// GetDiff retrieves a unified diff for the given mode.
func (e *Executor) GetDiff(ctx context.Context, dir string, opts DiffOptions) (string, error) {
	var args []string

	switch opts.Mode {
	case DiffUncommitted:
		args = []string{"diff", "HEAD"}

	case DiffStaged:
		args = []string{"diff", "--staged"}

	case DiffBranch:
		if opts.BaseBranch == "" {
			return "", fmt.Errorf("base branch required for branch diffs")
		}
		// Three-dot notation compares against the merge base.
		args = []string{"diff", opts.BaseBranch + "...HEAD"}

	default:
		return "", fmt.Errorf("unknown diff mode: %d", opts.Mode)
	}

	out, err := e.exec.RunDir(ctx, dir, e.gitPath, args...)
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}

	return string(out), nil
}

// DescribeDiffMode returns a human-readable description of the diff mode.
func DescribeDiffMode(opts DiffOptions) string {
	switch opts.Mode {
	case DiffUncommitted:
		return "uncommitted changes"
	case DiffStaged:
		return "staged changes"
	case DiffBranch:
		return fmt.Sprintf("changes vs %s", opts.BaseBranch)
	default:
		return "unknown"
	}
}
