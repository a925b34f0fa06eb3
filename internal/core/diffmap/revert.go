package diffmap

import "strings"

// ApplyRevert undoes one change block against the new file content:
// lines [AddStart, AddStart+AddCount) are replaced with the block's
// pre-change lines. With AddCount zero (a pure deletion block) the old
// lines are re-inserted before AddStart.
//
// Out-of-range positions are clamped rather than rejected; a stale
// RevertInfo degrades to a best-effort edit.
func ApplyRevert(content string, info RevertInfo) string {
	lines := strings.Split(content, "\n")

	start := info.AddStart - 1
	if start < 0 {
		start = 0
	}
	if start > len(lines) {
		start = len(lines)
	}

	end := start + info.AddCount
	if end > len(lines) {
		end = len(lines)
	}

	out := make([]string, 0, len(lines)-(end-start)+len(info.OldLines))
	out = append(out, lines[:start]...)
	out = append(out, info.OldLines...)
	out = append(out, lines[end:]...)

	return strings.Join(out, "\n")
}
