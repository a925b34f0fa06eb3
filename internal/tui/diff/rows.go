package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/kdlbs/kandev/internal/core/diffmap"
)

// RowKind identifies what a display row holds.
type RowKind int

const (
	// RowHunkHeader is an @@ ... @@ marker row.
	RowHunkHeader RowKind = iota
	// RowLine is a diff content line (context, addition, or deletion).
	RowLine
	// RowAnnotation is an inline overlay row: a saved comment, the comment
	// draft marker, or a hunk action bar.
	RowAnnotation
)

// Row is one display line of the annotated diff.
type Row struct {
	Kind    RowKind
	Text    string         // content without the +/- prefix
	Op      gitdiff.LineOp // valid for RowLine
	OldLine int            // old-file line number, 0 when absent
	NewLine int            // new-file line number, 0 when absent

	// Annotation is set for RowAnnotation rows.
	Annotation diffmap.Annotation
}

// Selectable reports whether the cursor can rest on this row for commenting.
func (r Row) Selectable() bool {
	return r.Kind == RowLine
}

// SideLine returns the line key for this row on the side comments attach to.
// Additions and context use the new-file number, deletions the old-file one.
func (r Row) SideLine() (diffmap.Side, int) {
	if r.Op == gitdiff.OpDelete {
		return diffmap.SideDeletions, r.OldLine
	}
	return diffmap.SideAdditions, r.NewLine
}

// BuildRows interleaves a file's diff lines with annotation rows. Annotations
// anchored to a line appear immediately after it, preserving their order in
// the composition.
func BuildRows(file *gitdiff.File, annotations []diffmap.Annotation) []Row {
	if file == nil {
		return nil
	}

	// Group annotations by anchor, preserving order within each anchor.
	byAnchor := make(map[diffmap.LineKey][]diffmap.Annotation)
	for _, a := range annotations {
		key := diffmap.LineKey{Side: a.Side, Line: a.Line}
		byAnchor[key] = append(byAnchor[key], a)
	}

	var rows []Row
	appendAnchored := func(side diffmap.Side, line int) {
		key := diffmap.LineKey{Side: side, Line: line}
		for _, a := range byAnchor[key] {
			rows = append(rows, Row{Kind: RowAnnotation, Annotation: a})
		}
		delete(byAnchor, key)
	}

	for _, frag := range file.TextFragments {
		rows = append(rows, Row{
			Kind: RowHunkHeader,
			Text: formatHunkHeader(frag),
		})

		oldLine := int(frag.OldPosition)
		newLine := int(frag.NewPosition)

		for _, line := range frag.Lines {
			text := strings.TrimRight(line.Line, "\n")
			switch line.Op {
			case gitdiff.OpAdd:
				rows = append(rows, Row{Kind: RowLine, Text: text, Op: line.Op, NewLine: newLine})
				appendAnchored(diffmap.SideAdditions, newLine)
				newLine++

			case gitdiff.OpDelete:
				rows = append(rows, Row{Kind: RowLine, Text: text, Op: line.Op, OldLine: oldLine})
				appendAnchored(diffmap.SideDeletions, oldLine)
				oldLine++

			case gitdiff.OpContext:
				rows = append(rows, Row{Kind: RowLine, Text: text, Op: line.Op, OldLine: oldLine, NewLine: newLine})
				// A context line exists on both sides; annotations may
				// anchor to either number.
				appendAnchored(diffmap.SideAdditions, newLine)
				appendAnchored(diffmap.SideDeletions, oldLine)
				oldLine++
				newLine++
			}
		}
	}

	return rows
}

func formatHunkHeader(frag *gitdiff.TextFragment) string {
	header := fmt.Sprintf("@@ -%s +%s @@",
		formatRange(frag.OldPosition, frag.OldLines),
		formatRange(frag.NewPosition, frag.NewLines))
	if frag.Comment != "" {
		header += " " + frag.Comment
	}
	return header
}

func formatRange(pos, length int64) string {
	if length == 1 {
		return fmt.Sprintf("%d", pos)
	}
	return fmt.Sprintf("%d,%d", pos, length)
}

// FilePath returns the display path for a diff file, preferring the new name
// and falling back to the old one for deletions.
func FilePath(file *gitdiff.File) string {
	if file == nil {
		return ""
	}
	if file.NewName != "" && file.NewName != "/dev/null" {
		return file.NewName
	}
	return file.OldName
}

// FileStats counts additions and deletions in a diff file.
func FileStats(file *gitdiff.File) (additions, deletions int) {
	if file == nil {
		return 0, 0
	}
	for _, frag := range file.TextFragments {
		for _, line := range frag.Lines {
			switch line.Op {
			case gitdiff.OpAdd:
				additions++
			case gitdiff.OpDelete:
				deletions++
			}
		}
	}
	return additions, deletions
}
