package diffmap

import (
	"strings"
	"testing"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOneFile(t *testing.T, diff string) *gitdiff.File {
	t.Helper()
	files, _, err := gitdiff.Parse(strings.NewReader(diff))
	require.NoError(t, err)
	require.Len(t, files, 1)
	return files[0]
}

func TestFromFile_ReplaceEditIsOneSegment(t *testing.T) {
	diff := `diff --git a/file.go b/file.go
--- a/file.go
+++ b/file.go
@@ -1,4 +1,4 @@
 package main
-func old() {}
+func new() {}
 func keep() {}
 var x = 1
`

	hunks := FromFile(parseOneFile(t, diff))
	require.Len(t, hunks, 1)

	h := hunks[0]
	assert.Equal(t, 1, h.AdditionStart)
	assert.Equal(t, 4, h.AdditionCount)
	assert.Equal(t, 1, h.DeletionStart)
	assert.Equal(t, 4, h.DeletionCount)

	require.Len(t, h.Segments, 3)
	assert.True(t, h.Segments[0].IsContext())
	require.False(t, h.Segments[1].IsContext())
	// The deletion/addition pair groups into a single change segment.
	assert.Equal(t, []string{"func old() {}\n"}, h.Segments[1].Deletions)
	assert.Equal(t, []string{"func new() {}\n"}, h.Segments[1].Additions)
	assert.True(t, h.Segments[2].IsContext())
	assert.Len(t, h.Segments[2].Context, 2)
}

func TestFromFile_MultipleHunks(t *testing.T) {
	diff := `diff --git a/file.go b/file.go
--- a/file.go
+++ b/file.go
@@ -1,1 +1,2 @@
 package main
+import "fmt"
@@ -10,3 +11,2 @@
 func a() {}
-func b() {}
 func c() {}
`

	hunks := FromFile(parseOneFile(t, diff))
	require.Len(t, hunks, 2)

	assert.Equal(t, 1, hunks[0].AdditionStart)
	assert.Equal(t, 11, hunks[1].AdditionStart)
	assert.Equal(t, 10, hunks[1].DeletionStart)
}

func TestFromFile_WalkEndToEnd(t *testing.T) {
	// Full pipeline: unified diff text through go-gitdiff, segmentation,
	// and the walker.
	diff := `diff --git a/main.go b/main.go
--- a/main.go
+++ b/main.go
@@ -8,5 +8,5 @@
 func run() error {
 	x := 1
-	return errors.New("bar")
+	return errors.New("foo")
 	_ = x
 }
`

	hunks := FromFile(parseOneFile(t, diff))
	res := Walk(hunks)

	require.Len(t, res.Actions, 1)
	// Change is at line 10 on both sides; anchor is the context line above.
	assert.Equal(t, 9, res.Actions[0].Line)
	assert.Equal(t, SideAdditions, res.Actions[0].Side)
	assert.Equal(t, "cb-0", res.Lines[LineKey{Side: SideAdditions, Line: 10}])
	assert.Equal(t, "cb-0", res.Lines[LineKey{Side: SideDeletions, Line: 10}])

	info := res.Reverts["cb-0"]
	assert.Equal(t, 10, info.AddStart)
	assert.Equal(t, 1, info.AddCount)
	assert.Equal(t, []string{"\treturn errors.New(\"bar\")"}, info.OldLines)
}

func TestFromFile_NilAndBinary(t *testing.T) {
	assert.Nil(t, FromFile(nil))
	assert.Nil(t, FromFile(&gitdiff.File{IsBinary: true}))
}
