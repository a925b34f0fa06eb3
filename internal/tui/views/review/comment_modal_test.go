package review

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdlbs/kandev/pkg/tuitest"
)

func TestCommentModal_View(t *testing.T) {
	contextText := strings.Join([]string{
		"func main() {",
		"    fmt.Println(\"Hello\")",
		"}",
	}, "\n")

	modal := NewCommentModal(10, 14, contextText, 80)
	output := tuitest.StripANSI(modal.View())

	assert.Contains(t, output, "Add Review Comment")
	assert.Contains(t, output, "Lines 10-14")
	assert.Contains(t, output, "func main() {")
	assert.Contains(t, output, "enter: submit")
}

func TestCommentModal_SingleLineRange(t *testing.T) {
	modal := NewCommentModal(7, 7, "x := 1", 80)
	output := tuitest.StripANSI(modal.View())

	assert.Contains(t, output, "Line 7")
	assert.NotContains(t, output, "Lines 7-7")
}

func TestFormatContextPreview(t *testing.T) {
	lines := make([]string, 30)
	for i := range 30 {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}

	preview := formatContextPreview(strings.Join(lines, "\n"))

	assert.Contains(t, preview, "line 1\n")
	assert.Contains(t, preview, "line 20")
	assert.Contains(t, preview, "\n...\n")
	assert.Contains(t, preview, "line 28")
	assert.NotContains(t, preview, "line 21")

	short := formatContextPreview("a\nb\nc")
	assert.Equal(t, "a\nb\nc", short)
}

func TestCommentModal_SubmitRequiresText(t *testing.T) {
	modal := NewCommentModal(1, 1, "x := 1", 80)

	modal, _ = modal.Update(tuitest.KeyEnter())
	assert.False(t, modal.Submitted())

	modal, _ = modal.Update(tuitest.KeyPress('o'))
	modal, _ = modal.Update(tuitest.KeyPress('k'))
	assert.Equal(t, "ok", modal.Value())

	modal, _ = modal.Update(tuitest.KeyEnter())
	assert.True(t, modal.Submitted())
}

func TestCommentModal_Cancel(t *testing.T) {
	modal := NewCommentModal(1, 1, "x := 1", 80)

	modal, _ = modal.Update(tuitest.KeyEsc())
	assert.True(t, modal.Cancelled())
	assert.False(t, modal.Submitted())
}

func TestCommentModal_EditPrefills(t *testing.T) {
	modal := NewCommentModal(3, 5, "ctx", 80)
	modal.SetExistingComment("c1", "previous text")

	assert.Equal(t, "c1", modal.EditingID())
	assert.Equal(t, "previous text", modal.Value())
	assert.Contains(t, tuitest.StripANSI(modal.View()), "Edit Review Comment")
}
