package diff

import (
	"fmt"
	"strings"
	"time"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kdlbs/kandev/internal/core/diffmap"
	"github.com/kdlbs/kandev/internal/core/review"
	"github.com/kdlbs/kandev/internal/core/styles"
)

// RequestCommentMsg asks the parent model to open the comment modal for the
// given selection.
type RequestCommentMsg struct {
	FilePath    string
	Selection   diffmap.Selection
	ContextText string
}

// EditCommentMsg asks the parent to open the comment modal pre-filled with
// an existing comment.
type EditCommentMsg struct {
	CommentID string
}

// DeleteCommentMsg asks the parent to delete a comment.
type DeleteCommentMsg struct {
	CommentID string
}

// RevertMsg asks the parent to revert a change block on disk.
type RevertMsg struct {
	FilePath string
	Revert   diffmap.RevertInfo
}

// headerHeight is the file info line plus its separator.
const headerHeight = 2

// DiffViewerModel displays one file's annotated diff: content lines
// interleaved with saved comments, the in-progress draft marker, and
// per-change accept/reject bars.
type DiffViewerModel struct {
	file     *gitdiff.File
	rows     []Row
	comments map[string]review.Comment
	reverts  map[string]diffmap.RevertInfo
	accepted map[string]bool // block IDs dismissed via accept

	enableAcceptReject bool

	offset     int // top visible row
	cursor     int
	width      int
	height     int
	selectMode bool
	selStart   int

	hover HoverState
}

// NewDiffViewer creates an empty diff viewer.
func NewDiffViewer(enableAcceptReject bool, hoverDelay time.Duration) DiffViewerModel {
	return DiffViewerModel{
		enableAcceptReject: enableAcceptReject,
		accepted:           map[string]bool{},
		hover:              NewHoverState(hoverDelay),
	}
}

// SetFile recomputes the annotated rows for a file. comments must already be
// filtered to this file.
func (m *DiffViewerModel) SetFile(file *gitdiff.File, comments []review.Comment, editingID string) {
	m.file = file
	m.offset = 0
	m.cursor = 0
	m.selectMode = false
	m.comments = make(map[string]review.Comment, len(comments))
	for _, c := range comments {
		m.comments[c.ID] = c
	}

	if file == nil {
		m.rows = nil
		m.reverts = nil
		return
	}

	hunks := diffmap.FromFile(file)
	comp := diffmap.Compose(diffmap.ComposeInput{
		Comments:           review.RefsForFile(comments, FilePath(file)),
		EditingCommentID:   editingID,
		EnableAcceptReject: m.enableAcceptReject,
		Hunks:              hunks,
	})
	m.reverts = comp.Reverts
	m.rows = BuildRows(file, comp.Annotations)
}

// Update handles keyboard input for scrolling, selection, and annotation
// actions.
func (m DiffViewerModel) Update(msg tea.Msg) (DiffViewerModel, tea.Cmd) {
	if hide, ok := msg.(HideHoverMsg); ok {
		m.hover.HandleHide(hide)
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	contentHeight := max(1, m.height-headerHeight)
	maxRow := max(0, len(m.rows)-1)
	maxOffset := max(0, len(m.rows)-contentHeight)

	switch keyMsg.String() {
	case "v":
		if !m.selectMode {
			m.selectMode = true
			m.selStart = m.cursor
		} else {
			m.selectMode = false
		}

	case "esc":
		m.selectMode = false

	case "j", "down":
		if m.cursor < maxRow {
			m.cursor++
			if m.cursor >= m.offset+contentHeight {
				m.offset = min(m.offset+1, maxOffset)
			}
			return m, m.syncHover()
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = max(m.offset-1, 0)
			}
			return m, m.syncHover()
		}

	case "d", "ctrl+d":
		old := m.cursor
		m.cursor = min(m.cursor+contentHeight/2, maxRow)
		m.offset = min(m.offset+(m.cursor-old), maxOffset)
		return m, m.syncHover()

	case "u", "ctrl+u":
		old := m.cursor
		m.cursor = max(m.cursor-contentHeight/2, 0)
		m.offset = max(m.offset-(old-m.cursor), 0)
		return m, m.syncHover()

	case "g":
		m.cursor = 0
		m.offset = 0
		return m, m.syncHover()

	case "G":
		m.cursor = maxRow
		m.offset = maxOffset
		return m, m.syncHover()

	case "c":
		if msg := m.commentRequest(); msg != nil {
			m.selectMode = false
			return m, func() tea.Msg { return *msg }
		}

	case "e":
		if id, ok := m.commentAtCursor(); ok {
			return m, func() tea.Msg { return EditCommentMsg{CommentID: id} }
		}

	case "x":
		if id, ok := m.commentAtCursor(); ok {
			return m, func() tea.Msg { return DeleteCommentMsg{CommentID: id} }
		}

	case "a":
		if blockID, ok := m.actionAtCursor(); ok {
			m.accepted[blockID] = true
		}

	case "r":
		if blockID, ok := m.actionAtCursor(); ok {
			if info, found := m.reverts[blockID]; found {
				path := FilePath(m.file)
				return m, func() tea.Msg { return RevertMsg{FilePath: path, Revert: info} }
			}
		}
	}

	return m, nil
}

// syncHover shows the popup for the comment under the cursor, or schedules a
// hide when the cursor rests elsewhere.
func (m *DiffViewerModel) syncHover() tea.Cmd {
	if id, ok := m.commentAtCursor(); ok {
		m.hover.Show(id)
		return nil
	}
	if m.hover.VisibleID() != "" {
		return m.hover.ScheduleHide()
	}
	return nil
}

// commentAtCursor returns the comment id the cursor is on: either a comment
// annotation row, or a line row that a comment annotation is anchored to.
func (m DiffViewerModel) commentAtCursor() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return "", false
	}

	row := m.rows[m.cursor]
	if row.Kind == RowAnnotation && row.Annotation.Kind == diffmap.KindComment {
		return row.Annotation.CommentID, true
	}

	// A line row: comment annotations for it directly follow.
	if row.Kind == RowLine {
		for i := m.cursor + 1; i < len(m.rows) && m.rows[i].Kind == RowAnnotation; i++ {
			if m.rows[i].Annotation.Kind == diffmap.KindComment {
				return m.rows[i].Annotation.CommentID, true
			}
		}
	}

	return "", false
}

// actionAtCursor returns the block id of the hunk action bar at or adjacent
// to the cursor.
func (m DiffViewerModel) actionAtCursor() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return "", false
	}

	row := m.rows[m.cursor]
	if row.Kind == RowAnnotation && row.Annotation.Kind == diffmap.KindHunkActions {
		return row.Annotation.BlockID, true
	}

	if row.Kind == RowLine {
		for i := m.cursor + 1; i < len(m.rows) && m.rows[i].Kind == RowAnnotation; i++ {
			if m.rows[i].Annotation.Kind == diffmap.KindHunkActions {
				return m.rows[i].Annotation.BlockID, true
			}
		}
	}

	return "", false
}

// commentRequest builds the comment request for the current selection or
// cursor line. Returns nil when the cursor is not on a commentable line.
func (m DiffViewerModel) commentRequest() *RequestCommentMsg {
	start, end := m.cursor, m.cursor
	if m.selectMode {
		start, end = m.selStart, m.cursor
		if start > end {
			start, end = end, start
		}
	}

	// Collect the line rows in range; selection covers one side, taken from
	// the first selected line.
	var lines []Row
	for i := start; i <= end && i < len(m.rows); i++ {
		if m.rows[i].Kind == RowLine {
			lines = append(lines, m.rows[i])
		}
	}
	if len(lines) == 0 {
		return nil
	}

	side, firstLine := lines[0].SideLine()
	lastLine := firstLine
	var contextLines []string
	for _, row := range lines {
		rowSide, n := row.SideLine()
		if rowSide == side {
			lastLine = n
		}
		contextLines = append(contextLines, row.Text)
	}

	return &RequestCommentMsg{
		FilePath: FilePath(m.file),
		Selection: diffmap.Selection{
			Start: firstLine,
			End:   lastLine,
			Side:  side,
		},
		ContextText: strings.Join(contextLines, "\n"),
	}
}

// View renders the visible portion of the annotated diff.
func (m DiffViewerModel) View() string {
	if m.file == nil {
		return m.renderEmptyState("No File Selected", "Select a file from the tree to view its diff")
	}
	if len(m.rows) == 0 {
		return m.renderEmptyState("Empty Diff", "This file has no changes")
	}

	header := m.renderHeader()
	contentHeight := max(1, m.height-headerHeight)
	end := min(m.offset+contentHeight, len(m.rows))

	var out []string
	for i := m.offset; i < end; i++ {
		out = append(out, m.renderRow(i))
	}

	view := lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(out, "\n"))

	if popup := m.renderHoverPopup(); popup != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, popup)
	}
	return view
}

func (m DiffViewerModel) renderRow(i int) string {
	row := m.rows[i]

	gutter := " │ "
	if i == m.cursor {
		gutter = styles.TextPrimaryStyle.Render("▶") + "│ "
	}

	var line string
	switch row.Kind {
	case RowHunkHeader:
		line = styles.TextMutedStyle.Render(row.Text)

	case RowLine:
		nums := fmt.Sprintf("%4s %4s ", lineNum(row.OldLine), lineNum(row.NewLine))
		switch row.Op {
		case gitdiff.OpAdd:
			line = styles.TextMutedStyle.Render(nums) + styles.AddedLineStyle.Render("+"+row.Text)
		case gitdiff.OpDelete:
			line = styles.TextMutedStyle.Render(nums) + styles.DeletedLineStyle.Render("-"+row.Text)
		default:
			line = styles.TextMutedStyle.Render(nums) + " " + row.Text
		}
		if m.isSelected(i) {
			line = styles.SelectionStyle.Render(line)
		}

	case RowAnnotation:
		line = m.renderAnnotation(row.Annotation)
		if line == "" {
			return gutter
		}
	}

	return gutter + line
}

func (m DiffViewerModel) renderAnnotation(a diffmap.Annotation) string {
	switch a.Kind {
	case diffmap.KindComment:
		comment, ok := m.comments[a.CommentID]
		if !ok {
			return ""
		}
		text := firstLine(comment.CommentText)
		marker := "●"
		if a.IsEditing {
			marker = "✎"
		}
		return styles.AnnotationStyle.Render(fmt.Sprintf("    %s %s", marker, text))

	case diffmap.KindNewCommentForm:
		return styles.AnnotationStyle.Render("    ─ new comment ─")

	case diffmap.KindHunkActions:
		if m.accepted[a.BlockID] {
			return styles.TextMutedStyle.Render("    ✓ accepted")
		}
		return styles.ActionBarStyle.Render("    [a]ccept  [r]eject")
	}
	return ""
}

func (m DiffViewerModel) renderHoverPopup() string {
	id := m.hover.VisibleID()
	if id == "" {
		return ""
	}
	comment, ok := m.comments[id]
	if !ok {
		return ""
	}

	body := fmt.Sprintf("%s\n\n%s",
		styles.TextMutedStyle.Render(describeLines(comment)),
		comment.CommentText)
	return styles.ModalStyle.Width(min(m.width-2, 60)).Render(body)
}

func describeLines(c review.Comment) string {
	if c.StartLine == c.EndLine {
		return fmt.Sprintf("Line %d", c.StartLine)
	}
	return fmt.Sprintf("Lines %d-%d", c.StartLine, c.EndLine)
}

func (m DiffViewerModel) renderHeader() string {
	additions, deletions := FileStats(m.file)
	stats := styles.TextMutedStyle.Render(fmt.Sprintf("(+%d, -%d)", additions, deletions))
	info := styles.TextBoldStyle.Render(FilePath(m.file)) + " " + stats
	separator := styles.TextMutedStyle.Render(strings.Repeat("─", max(1, m.width-1)))
	return info + "\n" + separator
}

func (m DiffViewerModel) renderEmptyState(title, hint string) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		styles.TextBoldStyle.Render(title),
		styles.TextMutedStyle.Render(hint),
		"",
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m DiffViewerModel) isSelected(i int) bool {
	if !m.selectMode {
		return false
	}
	start, end := m.selStart, m.cursor
	if start > end {
		start, end = end, start
	}
	return i >= start && i <= end
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + "…"
	}
	return s
}

func lineNum(n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}

// SetSize updates the dimensions of the diff viewer.
func (m *DiffViewerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectionActive reports whether visual selection mode is on.
func (m DiffViewerModel) SelectionActive() bool {
	return m.selectMode
}
