package diff

import (
	"strings"
	"time"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kdlbs/kandev/internal/core/review"
	"github.com/kdlbs/kandev/internal/core/styles"
)

// FocusedPanel represents which panel has keyboard focus.
type FocusedPanel int

const (
	FocusFileTree FocusedPanel = iota
	FocusDiffViewer
)

// Model composes the file tree and the annotated diff viewer into a
// two-panel layout.
type Model struct {
	fileTree   FileTreeModel
	diffViewer DiffViewerModel
	focused    FocusedPanel
	comments   []review.Comment
	width      int
	height     int
}

// New creates the diff review layout. ignoreGlobs filters which files show
// in the tree; comments are the session's saved comments across all files.
func New(files []*gitdiff.File, comments []review.Comment, ignoreGlobs []string, enableAcceptReject bool, hoverDelay time.Duration) Model {
	fileTree := NewFileTree(files, ignoreGlobs)
	diffViewer := NewDiffViewer(enableAcceptReject, hoverDelay)

	m := Model{
		fileTree:   fileTree,
		diffViewer: diffViewer,
		comments:   comments,
		focused:    FocusFileTree,
	}
	m.syncViewer("")
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetComments replaces the comment set and rebuilds the current file's
// annotations.
func (m *Model) SetComments(comments []review.Comment, editingID string) {
	m.comments = comments
	m.syncViewer(editingID)
}

func (m *Model) syncViewer(editingID string) {
	file := m.fileTree.SelectedFile()
	if file == nil {
		m.diffViewer.SetFile(nil, nil, "")
		return
	}
	m.diffViewer.SetFile(file, m.commentsForFile(FilePath(file)), editingID)
}

func (m Model) commentsForFile(path string) []review.Comment {
	var out []review.Comment
	for _, c := range m.comments {
		if c.FilePath == path {
			out = append(out, c)
		}
	}
	return out
}

// SelectedFile returns the file currently shown in the viewer.
func (m Model) SelectedFile() *gitdiff.File {
	return m.fileTree.SelectedFile()
}

// Update handles keyboard input and routes it to the focused panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(HideHoverMsg); ok {
		m.diffViewer, _ = m.diffViewer.Update(msg)
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab":
			if m.focused == FocusFileTree {
				m.focused = FocusDiffViewer
			} else {
				m.focused = FocusFileTree
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focused {
	case FocusFileTree:
		m.fileTree, cmd = m.fileTree.Update(msg)

		// keep the viewer pointed at the tree selection
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "j", "k", "up", "down", "g", "G", "enter":
				m.syncViewer("")
			}
		}

	case FocusDiffViewer:
		m.diffViewer, cmd = m.diffViewer.Update(msg)
	}

	return m, cmd
}

// View renders the two-panel layout with a status bar underneath.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	treeWidth := m.width * 30 / 100
	diffWidth := m.width - treeWidth - 1
	panelHeight := m.height - 1

	separator := lipgloss.NewStyle().
		Width(1).
		Height(panelHeight).
		Render(styles.TextMutedStyle.Render("│"))

	treeStyle := lipgloss.NewStyle().Width(treeWidth).Height(panelHeight)
	diffStyle := lipgloss.NewStyle().Width(diffWidth).Height(panelHeight)
	if m.focused == FocusFileTree {
		treeStyle = treeStyle.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(styles.ColorPrimary)
	} else {
		diffStyle = diffStyle.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(styles.ColorPrimary)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		treeStyle.Render(m.fileTree.View()),
		separator,
		diffStyle.Render(m.diffViewer.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	var panelName, help string
	switch m.focused {
	case FocusFileTree:
		panelName = "Files"
		help = "↑/↓ navigate • enter expand • tab switch panel"
	case FocusDiffViewer:
		panelName = "Diff"
		if m.diffViewer.SelectionActive() {
			help = "↑/↓ extend • c comment • esc cancel"
		} else {
			help = "↑/↓ scroll • v select • c comment • e edit • x delete • tab switch panel"
		}
	}

	leftSection := styles.TextPrimaryBoldStyle.Render(panelName)
	rightSection := styles.TextMutedStyle.Render(help)

	spacing := m.width - lipgloss.Width(leftSection) - lipgloss.Width(rightSection) - 2
	if spacing < 0 {
		spacing = 0
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Background(styles.ColorSurface).
		Render(leftSection + strings.Repeat(" ", spacing) + rightSection)
}

// SetSize updates the dimensions and propagates them to child panels.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	treeWidth := width * 30 / 100
	diffWidth := width - treeWidth - 1
	panelHeight := height - 1

	m.fileTree.SetSize(treeWidth, panelHeight)
	m.diffViewer.SetSize(diffWidth, panelHeight)
}
