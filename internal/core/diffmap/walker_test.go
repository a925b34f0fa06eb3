package diffmap

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk_SingleLineEdit(t *testing.T) {
	hunks := []Hunk{
		{
			AdditionStart: 10, AdditionCount: 1,
			DeletionStart: 10, DeletionCount: 1,
			Segments: []Segment{
				{Additions: []string{"foo\n"}, Deletions: []string{"bar\n"}},
			},
		},
	}

	res := Walk(hunks)

	require.Len(t, res.Lines, 2)
	assert.Equal(t, "cb-0", res.Lines[LineKey{Side: SideAdditions, Line: 10}])
	assert.Equal(t, "cb-0", res.Lines[LineKey{Side: SideDeletions, Line: 10}])

	info, ok := res.Reverts["cb-0"]
	require.True(t, ok)
	assert.Equal(t, 10, info.AddStart)
	assert.Equal(t, 1, info.AddCount)
	assert.Equal(t, []string{"bar"}, info.OldLines)
}

func TestWalk_LineMapCoverage(t *testing.T) {
	// Two change blocks in one hunk separated by context. Every added and
	// deleted line must map to its own block id with no cross-block collisions.
	hunks := []Hunk{
		{
			AdditionStart: 5, AdditionCount: 7,
			DeletionStart: 5, DeletionCount: 7,
			Segments: []Segment{
				{Context: []string{"a\n", "b\n"}},
				{Additions: []string{"x\n", "y\n", "z\n"}, Deletions: []string{"p\n", "q\n"}},
				{Context: []string{"c\n"}},
				{Additions: []string{"w\n"}, Deletions: []string{"r\n", "s\n"}},
			},
		},
	}

	res := Walk(hunks)

	// Block 0: additions 7-9, deletions 7-8.
	for _, n := range []int{7, 8, 9} {
		assert.Equal(t, "cb-0", res.Lines[LineKey{Side: SideAdditions, Line: n}], "additions:%d", n)
	}
	for _, n := range []int{7, 8} {
		assert.Equal(t, "cb-0", res.Lines[LineKey{Side: SideDeletions, Line: n}], "deletions:%d", n)
	}

	// Block 1: additions start after block 0's three adds plus one context
	// line (5,6 ctx / 7,8,9 add / 10 ctx), so addition 11; deletions 10-11.
	assert.Equal(t, "cb-1", res.Lines[LineKey{Side: SideAdditions, Line: 11}])
	assert.Equal(t, "cb-1", res.Lines[LineKey{Side: SideDeletions, Line: 10}])
	assert.Equal(t, "cb-1", res.Lines[LineKey{Side: SideDeletions, Line: 11}])

	// Exactly a+d keys per block, nothing else.
	assert.Len(t, res.Lines, 3+2+1+2)
}

func TestWalk_BlockIDsMonotonic(t *testing.T) {
	hunks := []Hunk{
		{
			AdditionStart: 1, AdditionCount: 3,
			DeletionStart: 1, DeletionCount: 1,
			Segments: []Segment{
				{Additions: []string{"a\n"}},
				{Context: []string{"c\n"}},
				{Additions: []string{"b\n"}, Deletions: []string{"z\n"}},
			},
		},
		{
			AdditionStart: 40, AdditionCount: 1,
			DeletionStart: 38, DeletionCount: 0,
			Segments: []Segment{
				{Additions: []string{"d\n"}},
			},
		},
	}

	res := Walk(hunks)
	require.Len(t, res.Actions, 3)

	prev := -1
	for _, a := range res.Actions {
		n, err := strconv.Atoi(strings.TrimPrefix(a.BlockID, "cb-"))
		require.NoError(t, err)
		assert.Greater(t, n, prev, "ids must increase in traversal order")
		prev = n
	}
}

func TestWalk_AnchorPolicy(t *testing.T) {
	hunks := []Hunk{
		{
			AdditionStart: 20, AdditionCount: 5,
			DeletionStart: 20, DeletionCount: 5,
			Segments: []Segment{
				// No leading context: anchor falls back to the hunk start.
				{Additions: []string{"a\n"}, Deletions: []string{"x\n"}},
				{Context: []string{"c1\n", "c2\n"}},
				// Anchor is the last context line before the block (22 on
				// the additions side).
				{Additions: []string{"b\n"}},
				{Context: []string{"c3\n"}},
				// Deletion-only block renders on the deletions side; its
				// anchor is the deletions-side last context line.
				{Deletions: []string{"y\n"}},
			},
		},
	}

	res := Walk(hunks)
	require.Len(t, res.Actions, 3)

	assert.Equal(t, SideAdditions, res.Actions[0].Side)
	assert.Equal(t, 20, res.Actions[0].Line)

	assert.Equal(t, SideAdditions, res.Actions[1].Side)
	assert.Equal(t, 22, res.Actions[1].Line)

	assert.Equal(t, SideDeletions, res.Actions[2].Side)
	// Deletions side: start 20, one delete (20), two ctx (21,22), one ctx (23).
	assert.Equal(t, 23, res.Actions[2].Line)
}

func TestWalk_DeletionOnlyBlock(t *testing.T) {
	hunks := []Hunk{
		{
			AdditionStart: 4, AdditionCount: 1,
			DeletionStart: 4, DeletionCount: 3,
			Segments: []Segment{
				{Context: []string{"keep\n"}},
				{Deletions: []string{"gone1\n", "gone2\n"}},
			},
		},
	}

	res := Walk(hunks)

	require.Len(t, res.Actions, 1)
	assert.Equal(t, SideDeletions, res.Actions[0].Side)

	info := res.Reverts["cb-0"]
	assert.Equal(t, 5, info.AddStart)
	assert.Equal(t, 0, info.AddCount)
	assert.Equal(t, []string{"gone1", "gone2"}, info.OldLines)

	assert.Equal(t, "cb-0", res.Lines[LineKey{Side: SideDeletions, Line: 5}])
	assert.Equal(t, "cb-0", res.Lines[LineKey{Side: SideDeletions, Line: 6}])
	assert.Len(t, res.Lines, 2)
}

func TestWalk_SkipsEmptyHunksAndSegments(t *testing.T) {
	hunks := []Hunk{
		{AdditionStart: 1, AdditionCount: 0, DeletionStart: 1, DeletionCount: 0},
		{
			AdditionStart: 1, AdditionCount: 1,
			DeletionStart: 1, DeletionCount: 0,
			Segments: []Segment{
				{}, // empty change segment allocates no id
				{Additions: []string{"a\n"}},
			},
		},
	}

	res := Walk(hunks)
	require.Len(t, res.Actions, 1)
	assert.Equal(t, "cb-0", res.Actions[0].BlockID)
}

func TestWalk_CRLFStripped(t *testing.T) {
	hunks := []Hunk{
		{
			AdditionStart: 1, AdditionCount: 1,
			DeletionStart: 1, DeletionCount: 1,
			Segments: []Segment{
				{Additions: []string{"new\r\n"}, Deletions: []string{"old\r\n"}},
			},
		},
	}

	res := Walk(hunks)
	assert.Equal(t, []string{"old"}, res.Reverts["cb-0"].OldLines)
}

func TestWalk_RevertRoundTrip(t *testing.T) {
	// Replacing [AddStart, AddStart+AddCount) of the new content with
	// OldLines must reconstruct the old region.
	oldContent := "one\ntwo\nthree\nfour\n"
	newContent := "one\nTWO\nTOO\nthree\nfour\n"

	hunks := []Hunk{
		{
			AdditionStart: 1, AdditionCount: 5,
			DeletionStart: 1, DeletionCount: 4,
			Segments: []Segment{
				{Context: []string{"one\n"}},
				{Additions: []string{"TWO\n", "TOO\n"}, Deletions: []string{"two\n"}},
				{Context: []string{"three\n", "four\n"}},
			},
		},
	}

	res := Walk(hunks)
	info, ok := res.Reverts["cb-0"]
	require.True(t, ok)

	reverted := ApplyRevert(newContent, info)
	assert.Equal(t, oldContent, reverted)
}

func TestWalk_ManyBlocksAcrossHunks(t *testing.T) {
	// Build 20 hunks of one single-line edit each and confirm id ordering
	// and map sizes scale without collisions.
	var hunks []Hunk
	for i := 0; i < 20; i++ {
		start := i*10 + 1
		hunks = append(hunks, Hunk{
			AdditionStart: start, AdditionCount: 1,
			DeletionStart: start, DeletionCount: 1,
			Segments: []Segment{
				{Additions: []string{fmt.Sprintf("new-%d\n", i)}, Deletions: []string{fmt.Sprintf("old-%d\n", i)}},
			},
		})
	}

	res := Walk(hunks)
	assert.Len(t, res.Actions, 20)
	assert.Len(t, res.Reverts, 20)
	assert.Len(t, res.Lines, 40)
	assert.Equal(t, "cb-19", res.Actions[19].BlockID)
}
