// Package diffmap turns parsed unified-diff hunks into line-addressable
// view-model structures: a line → change-block index for hover lookups, a
// change-block → revert record map, and an ordered list of annotations
// (comments, draft markers, block action markers) for the diff viewer.
//
// Everything here is a pure derivation over in-memory inputs. Results are
// rebuilt wholesale on each relevant change; callers treat returned maps as
// immutable snapshots.
package diffmap

// Side identifies which half of a diff a line or annotation belongs to.
type Side string

const (
	// SideAdditions is the new-file half of the diff ("+" lines).
	SideAdditions Side = "additions"
	// SideDeletions is the old-file half of the diff ("-" lines).
	SideDeletions Side = "deletions"
)

// LineKey addresses a single line on one side of a diff. It is a struct key
// rather than a formatted string so lookups cannot collide on delimiters.
type LineKey struct {
	Side Side
	Line int
}

// Segment is one run of lines within a hunk: either unchanged context or a
// change carrying parallel addition/deletion line sets.
type Segment struct {
	Context   []string // context segment lines; nil for change segments
	Additions []string // added lines, raw with trailing newline
	Deletions []string // deleted lines, raw with trailing newline
}

// IsContext reports whether the segment is a run of unchanged lines.
func (s Segment) IsContext() bool {
	return s.Context != nil
}

// Hunk is one contiguous region of a file diff, pre-segmented into context
// and change runs.
type Hunk struct {
	AdditionStart int // 1-based first line on the additions side
	AdditionCount int
	DeletionStart int // 1-based first line on the deletions side
	DeletionCount int
	Segments      []Segment
}

// RevertInfo describes how to undo one change block against the new file
// content: replace AddCount lines starting at AddStart with OldLines.
type RevertInfo struct {
	AddStart int
	AddCount int
	OldLines []string // pre-change lines, trailing newline stripped
}

// AnnotationKind discriminates the metadata attached to an annotation.
type AnnotationKind int

const (
	// KindComment wraps a persisted review comment.
	KindComment AnnotationKind = iota
	// KindNewCommentForm marks the active selection awaiting a draft.
	KindNewCommentForm
	// KindHunkActions carries a change-block id for revert/undo controls.
	KindHunkActions
)

// String returns the kind name used in logs and tests.
func (k AnnotationKind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindNewCommentForm:
		return "new-comment-form"
	case KindHunkActions:
		return "hunk-actions"
	default:
		return "unknown"
	}
}

// Annotation is the unit handed to the rendering surface: a marker pinned to
// one line on one side of the diff. Annotations are not deduplicated; several
// may target the same line and the renderer stacks them.
type Annotation struct {
	Side Side
	Line int
	Kind AnnotationKind

	// KindComment fields.
	CommentID string
	IsEditing bool

	// KindHunkActions field.
	BlockID string
}
