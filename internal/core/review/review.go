// Package review defines the domain model for diff review sessions and
// their inline comments.
package review

import (
	"time"

	"github.com/kdlbs/kandev/internal/core/diffmap"
)

// Session is an active review of one diff context. ContentHash pins the
// session to the exact diff content it was opened against; stale sessions
// are cleaned up when the content changes underneath them.
type Session struct {
	ID          string
	Name        string // human-readable, e.g. "feat-auth-vs-main"
	DiffContext string // git context, e.g. "main...HEAD", "staged", "uncommitted"
	ContentHash string // SHA256 of the diff text
	CreatedAt   time.Time
	FinalizedAt *time.Time // nil while the review is open
}

// IsFinalized reports whether the session has been finalized.
func (s Session) IsFinalized() bool {
	return s.FinalizedAt != nil
}

// Comment is inline feedback anchored to a line range on one side of a
// file's diff.
type Comment struct {
	ID          string
	SessionID   string
	FilePath    string
	Side        diffmap.Side
	StartLine   int // 1-indexed
	EndLine     int // inclusive
	ContextText string // quoted lines from the diff
	CommentText string
	CreatedAt   time.Time
}

// Ref returns the compositor's view of the comment.
func (c Comment) Ref() diffmap.CommentRef {
	return diffmap.CommentRef{
		ID:        c.ID,
		Side:      c.Side,
		StartLine: c.StartLine,
		EndLine:   c.EndLine,
	}
}

// RefsForFile converts the comments belonging to filePath into compositor
// references, preserving order.
func RefsForFile(comments []Comment, filePath string) []diffmap.CommentRef {
	var refs []diffmap.CommentRef
	for _, c := range comments {
		if c.FilePath != filePath {
			continue
		}
		refs = append(refs, c.Ref())
	}
	return refs
}
