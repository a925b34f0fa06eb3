package diffmap

import (
	"fmt"
	"strings"
)

// WalkResult carries the per-derivation indexes produced by Walk.
type WalkResult struct {
	// Lines maps every changed line (both sides) to its change-block id, so
	// hovering any line of a multi-line block resolves to one revert control.
	Lines map[LineKey]string
	// Reverts maps change-block ids to the information needed to undo them.
	Reverts map[string]RevertInfo
	// Actions holds one hunk-actions annotation per change block, in
	// traversal order.
	Actions []Annotation
}

// Walk traverses hunks in order and assigns each contiguous change segment a
// synthetic block id ("cb-0", "cb-1", ...), monotonic across hunks. Ids are
// stable only within one derivation; nothing persists them.
//
// Each block's action annotation anchors on the last context line seen before
// the block on the block's own side, falling back to the hunk's start line
// when the block opens the hunk. The walker trusts its input: malformed hunk
// metadata yields a best-effort map, never a panic.
func Walk(hunks []Hunk) WalkResult {
	res := WalkResult{
		Lines:   make(map[LineKey]string),
		Reverts: make(map[string]RevertInfo),
	}

	seq := 0
	for _, h := range hunks {
		if h.AdditionCount == 0 && h.DeletionCount == 0 {
			continue
		}

		addLine := h.AdditionStart
		delLine := h.DeletionStart

		// Anchor trackers. A block with no preceding context still needs a
		// valid anchor, so both seed to the hunk's own start line.
		lastAddCtx := addLine
		lastDelCtx := delLine

		for _, seg := range h.Segments {
			if seg.IsContext() {
				// Context lines are identical on both sides, so one count
				// advances both cursors.
				n := len(seg.Context)
				addLine += n
				delLine += n
				lastAddCtx = addLine - 1
				lastDelCtx = delLine - 1
				continue
			}

			// Should not occur from a well-formed diff.
			if len(seg.Additions) == 0 && len(seg.Deletions) == 0 {
				continue
			}

			id := fmt.Sprintf("cb-%d", seq)
			seq++

			// The anchor annotation renders on the additions side when the
			// block inserts anything, otherwise on the deletions side.
			side := SideDeletions
			anchor := lastDelCtx
			if len(seg.Additions) > 0 {
				side = SideAdditions
				anchor = lastAddCtx
			}

			res.Actions = append(res.Actions, Annotation{
				Side:    side,
				Line:    anchor,
				Kind:    KindHunkActions,
				BlockID: id,
			})

			for i := range seg.Additions {
				res.Lines[LineKey{Side: SideAdditions, Line: addLine + i}] = id
			}
			for i := range seg.Deletions {
				res.Lines[LineKey{Side: SideDeletions, Line: delLine + i}] = id
			}

			res.Reverts[id] = RevertInfo{
				AddStart: addLine,
				AddCount: len(seg.Additions),
				OldLines: stripLineEndings(seg.Deletions),
			}

			addLine += len(seg.Additions)
			delLine += len(seg.Deletions)
		}
	}

	return res
}

// stripLineEndings removes one trailing \r?\n from each line.
func stripLineEndings(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		l = strings.TrimSuffix(l, "\n")
		l = strings.TrimSuffix(l, "\r")
		out[i] = l
	}
	return out
}
