package diffmap

import (
	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// FromFile converts a parsed go-gitdiff file into pre-segmented hunks.
// Binary files produce no hunks.
func FromFile(f *gitdiff.File) []Hunk {
	if f == nil || f.IsBinary {
		return nil
	}

	hunks := make([]Hunk, 0, len(f.TextFragments))
	for _, frag := range f.TextFragments {
		hunks = append(hunks, fromFragment(frag))
	}
	return hunks
}

// fromFragment groups a fragment's flat line list into context and change
// segments. A run of deletions immediately followed by a run of additions
// forms a single change segment, so a replace edit is one revertible block.
func fromFragment(frag *gitdiff.TextFragment) Hunk {
	h := Hunk{
		AdditionStart: int(frag.NewPosition),
		AdditionCount: int(frag.NewLines),
		DeletionStart: int(frag.OldPosition),
		DeletionCount: int(frag.OldLines),
	}

	var ctx []string
	var change *Segment

	flushCtx := func() {
		if len(ctx) > 0 {
			h.Segments = append(h.Segments, Segment{Context: ctx})
			ctx = nil
		}
	}
	flushChange := func() {
		if change != nil {
			h.Segments = append(h.Segments, *change)
			change = nil
		}
	}

	for _, line := range frag.Lines {
		switch line.Op {
		case gitdiff.OpContext:
			flushChange()
			ctx = append(ctx, line.Line)

		case gitdiff.OpDelete:
			flushCtx()
			if change == nil {
				change = &Segment{}
			}
			change.Deletions = append(change.Deletions, line.Line)

		case gitdiff.OpAdd:
			flushCtx()
			if change == nil {
				change = &Segment{}
			}
			change.Additions = append(change.Additions, line.Line)
		}
	}

	flushChange()
	flushCtx()

	return h
}
