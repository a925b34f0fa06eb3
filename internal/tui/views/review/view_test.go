package review

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdlbs/kandev/internal/core/config"
	"github.com/kdlbs/kandev/internal/core/diffmap"
	"github.com/kdlbs/kandev/internal/core/eventbus/testbus"
	"github.com/kdlbs/kandev/internal/core/git"
	"github.com/kdlbs/kandev/internal/data/db"
	"github.com/kdlbs/kandev/internal/data/stores"
	"github.com/kdlbs/kandev/internal/kandev"
	"github.com/kdlbs/kandev/internal/tui/diff"
	"github.com/kdlbs/kandev/pkg/executil"
	"github.com/kdlbs/kandev/pkg/tuitest"
)

const viewDiff = `diff --git a/main.go b/main.go
index abc123..def456 100644
--- a/main.go
+++ b/main.go
@@ -1,3 +1,4 @@
 package main

 func main() {
+	println("hello")
 }`

func newTestView(t *testing.T) Model {
	t.Helper()
	ctx := context.Background()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err, "Open")
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Review.HoverDelay = config.Duration(time.Millisecond)

	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{"git": []byte(viewDiff)},
	}
	tb := testbus.New(t)

	svc := kandev.NewReviewService(
		stores.NewReviewStore(database),
		git.NewExecutor("git", rec),
		&cfg,
		tb.EventBus,
		zerolog.Nop(),
	)

	sess, _, err := svc.StartSession(ctx, "task", "uncommitted", viewDiff)
	require.NoError(t, err, "StartSession")

	files, err := kandev.ParseDiff(viewDiff)
	require.NoError(t, err, "ParseDiff")

	m := NewModel(ctx, Params{
		Service:         svc,
		Session:         sess,
		Dir:             t.TempDir(),
		DiffContext:     "uncommitted",
		DiffDescription: "uncommitted changes",
		Files:           files,
		Comments:        nil,
		Config:          &cfg,
		Logger:          zerolog.Nop(),
	})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestView_RendersDiff(t *testing.T) {
	m := newTestView(t)

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "main.go")
	assert.Contains(t, view, `+	println("hello")`)
}

func TestView_CommentFlow(t *testing.T) {
	m := newTestView(t)

	// Comment on the added line through the modal.
	m, _ = step(t, m, diff.RequestCommentMsg{})
	require.True(t, m.modals.HasActiveModal())

	for _, r := range "drop this" {
		m, _ = step(t, m, tuitest.KeyPress(r))
	}
	m, _ = step(t, m, tuitest.KeyEnter())

	assert.False(t, m.modals.HasActiveModal())
	require.Len(t, m.comments, 1)
	assert.Equal(t, "drop this", m.comments[0].CommentText)
}

func TestView_CommentCancelSavesNothing(t *testing.T) {
	m := newTestView(t)

	m, _ = step(t, m, diff.RequestCommentMsg{})
	m, _ = step(t, m, tuitest.KeyPress('x'))
	m, _ = step(t, m, tuitest.KeyEsc())

	assert.False(t, m.modals.HasActiveModal())
	assert.Empty(t, m.comments)
}

func TestView_DeleteComment(t *testing.T) {
	m := newTestView(t)

	m, _ = step(t, m, diff.RequestCommentMsg{FilePath: "main.go"})
	m, _ = step(t, m, tuitest.KeyPress('z'))
	m, _ = step(t, m, tuitest.KeyEnter())
	require.Len(t, m.comments, 1)

	m, _ = step(t, m, diff.DeleteCommentMsg{CommentID: m.comments[0].ID})
	assert.Empty(t, m.comments)
}

func TestView_EditComment(t *testing.T) {
	m := newTestView(t)

	m, _ = step(t, m, diff.RequestCommentMsg{FilePath: "main.go"})
	m, _ = step(t, m, tuitest.KeyPress('a'))
	m, _ = step(t, m, tuitest.KeyEnter())
	require.Len(t, m.comments, 1)

	m, _ = step(t, m, diff.EditCommentMsg{CommentID: m.comments[0].ID})
	require.True(t, m.modals.HasActiveModal())
	assert.Equal(t, "a", m.modals.CommentModal().Value())

	m, _ = step(t, m, tuitest.KeyPress('b'))
	m, _ = step(t, m, tuitest.KeyEnter())

	require.Len(t, m.comments, 1)
	assert.Equal(t, "ab", m.comments[0].CommentText)
}

func TestView_FinalizeFlow(t *testing.T) {
	m := newTestView(t)

	m, _ = step(t, m, diff.RequestCommentMsg{FilePath: "main.go"})
	m, _ = step(t, m, tuitest.KeyPress('n'))
	m, _ = step(t, m, tuitest.KeyEnter())

	m, _ = step(t, m, tuitest.KeyPress('f'))
	require.NotNil(t, m.modals.FinalizeModal())

	m, cmd := step(t, m, tuitest.KeyEnter())
	require.NotNil(t, cmd, "confirming finalize should quit")

	assert.Equal(t, FinalizeActionPrint, m.Action())
	require.NoError(t, m.Err())
	assert.Contains(t, m.Feedback(), "Review: uncommitted changes")
}

func TestView_QuitKeys(t *testing.T) {
	m := newTestView(t)

	_, cmd := step(t, m, tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_SessionComment(t *testing.T) {
	m := newTestView(t)

	m, _ = step(t, m, diff.RequestCommentMsg{
		FilePath:    "main.go",
		Selection:   diffmap.Selection{Start: 4, End: 4, Side: diffmap.SideAdditions},
		ContextText: `println("hello")`,
	})
	m, _ = step(t, m, tuitest.KeyPress('!'))
	m, _ = step(t, m, tuitest.KeyEnter())

	require.Len(t, m.comments, 1)
	c := m.comments[0]
	assert.Equal(t, "main.go", c.FilePath)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, 4, c.StartLine)
	assert.Equal(t, diffmap.SideAdditions, c.Side)
}
