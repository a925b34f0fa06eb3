package diff

import (
	"strings"
	"testing"
	"time"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdlbs/kandev/internal/core/diffmap"
	"github.com/kdlbs/kandev/internal/core/review"
	"github.com/kdlbs/kandev/pkg/tuitest"
)

const twoFileDiff = `diff --git a/main.go b/main.go
index 0000000..1111111 100644
--- a/main.go
+++ b/main.go
@@ -1,4 +1,4 @@
 package main
-func old() {}
+func new() {}

 func main() {}
diff --git a/util.go b/util.go
index 0000000..1111111 100644
--- a/util.go
+++ b/util.go
@@ -1,2 +1,3 @@
 package main
+func helper() {}

`

func parseFiles(t *testing.T, raw string) []*gitdiff.File {
	t.Helper()
	files, _, err := gitdiff.Parse(strings.NewReader(raw))
	require.NoError(t, err)
	return files
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(parseFiles(t, twoFileDiff), nil, nil, false, 10*time.Millisecond)
	m.SetSize(100, 30)
	return m
}

func TestModelTabSwitchesFocus(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, FocusFileTree, m.focused)

	m, _ = m.Update(tuitest.KeyTab())
	assert.Equal(t, FocusDiffViewer, m.focused)

	m, _ = m.Update(tuitest.KeyTab())
	assert.Equal(t, FocusFileTree, m.focused)
}

func TestModelTreeSelectionDrivesViewer(t *testing.T) {
	m := newTestModel(t)

	// Flat files, no directories: first file is selected on startup.
	require.NotNil(t, m.SelectedFile())
	assert.Equal(t, "main.go", FilePath(m.SelectedFile()))
	assert.Contains(t, tuitest.StripANSI(m.View()), "func new() {}")

	m, _ = m.Update(tuitest.KeyPress('j'))
	assert.Equal(t, "util.go", FilePath(m.SelectedFile()))
	assert.Contains(t, tuitest.StripANSI(m.View()), "func helper() {}")
}

func TestModelRoutesKeysToFocusedPanel(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.Update(tuitest.KeyTab()) // focus viewer
	m, _ = m.Update(tuitest.KeyPress('j'))
	m, _ = m.Update(tuitest.KeyPress('j'))

	// The tree selection did not move while the viewer was focused.
	assert.Equal(t, "main.go", FilePath(m.SelectedFile()))
	assert.Equal(t, 2, m.diffViewer.cursor)
}

func TestModelSetCommentsRebuildsViewer(t *testing.T) {
	m := newTestModel(t)

	m.SetComments([]review.Comment{
		{ID: "c1", FilePath: "main.go", Side: diffmap.SideAdditions, StartLine: 2, EndLine: 2, CommentText: "needs a better name"},
	}, "")

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "needs a better name")

	// Comments for other files stay out of this file's view.
	m.SetComments([]review.Comment{
		{ID: "c2", FilePath: "util.go", Side: diffmap.SideAdditions, StartLine: 2, EndLine: 2, CommentText: "unused helper"},
	}, "")

	view = tuitest.StripANSI(m.View())
	assert.NotContains(t, view, "unused helper")
}

func TestModelViewBeforeSize(t *testing.T) {
	m := New(nil, nil, nil, false, 0)
	assert.Empty(t, m.View())
}

func TestModelStatusBarFollowsFocus(t *testing.T) {
	m := newTestModel(t)

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Files")

	m, _ = m.Update(tuitest.KeyTab())
	view = tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Diff")
}
