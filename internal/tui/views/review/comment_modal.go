// Package review holds the interactive review screen: the annotated diff
// surface plus the modals for entering comments and finalizing a session.
package review

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kdlbs/kandev/internal/core/styles"
)

// CommentModal handles comment entry for a selected line range.
type CommentModal struct {
	textInput      textinput.Model
	lineRange      string
	contextPreview string
	editingID      string // non-empty when editing an existing comment
	width          int
	submitted      bool
	cancelled      bool
}

// NewCommentModal creates a comment modal for the given line range.
func NewCommentModal(startLine, endLine int, contextText string, width int) CommentModal {
	ti := textinput.New()
	ti.Placeholder = "Enter your review comment..."
	ti.Focus()
	ti.Width = max(20, width-10)

	lineRange := fmt.Sprintf("Lines %d-%d", startLine, endLine)
	if startLine == endLine {
		lineRange = fmt.Sprintf("Line %d", startLine)
	}

	return CommentModal{
		textInput:      ti,
		lineRange:      lineRange,
		contextPreview: formatContextPreview(contextText),
		width:          width,
	}
}

// formatContextPreview keeps long selections readable: the first 20 lines,
// an ellipsis, then the last 3.
func formatContextPreview(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 23 {
		return text
	}

	first := strings.Join(lines[:20], "\n")
	last := strings.Join(lines[len(lines)-3:], "\n")
	return first + "\n...\n" + last
}

// Update handles key input; enter submits a non-empty comment, esc cancels.
func (m CommentModal) Update(msg tea.Msg) (CommentModal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			if m.textInput.Value() != "" {
				m.submitted = true
				return m, nil
			}
		case "esc":
			m.cancelled = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// View renders the modal content.
func (m CommentModal) View() string {
	title := "Add Review Comment"
	if m.editingID != "" {
		title = "Edit Review Comment"
	}

	content := strings.Join([]string{
		styles.ModalTitleStyle.Render(title),
		styles.TextMutedStyle.Render(m.lineRange),
		styles.TextMutedStyle.Italic(true).Render(m.contextPreview),
		m.textInput.View(),
		styles.ModalHelpStyle.Render("enter: submit • esc: cancel"),
	}, "\n")

	return styles.ModalStyle.Render(content)
}

// Submitted returns true if the comment was submitted.
func (m CommentModal) Submitted() bool {
	return m.submitted
}

// Cancelled returns true if the modal was cancelled.
func (m CommentModal) Cancelled() bool {
	return m.cancelled
}

// Value returns the entered comment text.
func (m CommentModal) Value() string {
	return m.textInput.Value()
}

// EditingID returns the id of the comment being edited, or "" for new ones.
func (m CommentModal) EditingID() string {
	return m.editingID
}

// SetExistingComment pre-fills the modal for editing.
func (m *CommentModal) SetExistingComment(id, text string) {
	m.editingID = id
	m.textInput.SetValue(text)
	m.textInput.CursorEnd()
}
