package diff

import (
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/bmatcuk/doublestar/v4"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kdlbs/kandev/internal/core/styles"
)

// TreeNode represents a node in the file tree (either a directory or file).
type TreeNode struct {
	Name     string        // directory or file name
	Path     string        // full path
	IsDir    bool          // true if this is a directory
	File     *gitdiff.File // associated diff file (nil for directories)
	Children []*TreeNode
	Expanded bool
	Depth    int // depth in tree, 0 = root level
}

// FileTreeModel displays a hierarchical list of changed files. Files matching
// the configured ignore globs are hidden.
type FileTreeModel struct {
	files    []*gitdiff.File // filtered flat file list
	root     *TreeNode
	visible  []*TreeNode // currently visible nodes (flattened view)
	selected int
	width    int
	height   int
}

// NewFileTree creates a file tree from diff files, dropping any whose path
// matches one of ignoreGlobs.
func NewFileTree(files []*gitdiff.File, ignoreGlobs []string) FileTreeModel {
	m := FileTreeModel{
		files: FilterIgnored(files, ignoreGlobs),
	}
	m.root = buildTree(m.files)
	m.rebuildVisible()
	return m
}

// FilterIgnored returns the files whose paths match none of the doublestar
// patterns. Invalid patterns never match.
func FilterIgnored(files []*gitdiff.File, ignoreGlobs []string) []*gitdiff.File {
	if len(ignoreGlobs) == 0 {
		return files
	}

	var kept []*gitdiff.File
	for _, file := range files {
		path := FilePath(file)
		ignored := false
		for _, pattern := range ignoreGlobs {
			if ok, err := doublestar.Match(pattern, path); err == nil && ok {
				ignored = true
				break
			}
		}
		if !ignored {
			kept = append(kept, file)
		}
	}
	return kept
}

// buildTree constructs a hierarchical tree from a flat list of files.
func buildTree(files []*gitdiff.File) *TreeNode {
	root := &TreeNode{
		IsDir:    true,
		Expanded: true,
		Depth:    -1,
	}

	for _, file := range files {
		path := FilePath(file)
		if path == "" {
			continue
		}

		parts := strings.Split(path, "/")
		current := root

		for i := 0; i < len(parts)-1; i++ {
			dirName := parts[i]
			found := false

			for _, child := range current.Children {
				if child.IsDir && child.Name == dirName {
					current = child
					found = true
					break
				}
			}

			if !found {
				newDir := &TreeNode{
					Name:     dirName,
					Path:     strings.Join(parts[:i+1], "/"),
					IsDir:    true,
					Expanded: true,
					Depth:    i,
				}
				current.Children = append(current.Children, newDir)
				current = newDir
			}
		}

		current.Children = append(current.Children, &TreeNode{
			Name:  parts[len(parts)-1],
			Path:  path,
			File:  file,
			Depth: len(parts) - 1,
		})
	}

	return root
}

// rebuildVisible rebuilds the visible node list based on expand/collapse state.
func (m *FileTreeModel) rebuildVisible() {
	m.visible = nil
	m.collectVisible(m.root)

	if m.selected >= len(m.visible) {
		m.selected = max(0, len(m.visible)-1)
	}
}

func (m *FileTreeModel) collectVisible(node *TreeNode) {
	if node.Depth >= 0 {
		m.visible = append(m.visible, node)
	}
	if node.IsDir && node.Expanded {
		for _, child := range node.Children {
			m.collectVisible(child)
		}
	}
}

// Update handles key messages for file tree navigation.
func (m FileTreeModel) Update(msg tea.Msg) (FileTreeModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "j", "down":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "g":
			m.selected = 0
		case "G":
			if len(m.visible) > 0 {
				m.selected = len(m.visible) - 1
			}
		case "enter", "right", " ":
			if m.selected < len(m.visible) {
				node := m.visible[m.selected]
				if node.IsDir {
					node.Expanded = !node.Expanded
					m.rebuildVisible()
				}
			}
		case "left":
			if m.selected < len(m.visible) {
				node := m.visible[m.selected]
				if node.IsDir && node.Expanded {
					node.Expanded = false
					m.rebuildVisible()
				} else if node.Depth > 0 {
					m.jumpToParent()
				}
			}
		}
	}
	return m, nil
}

// jumpToParent moves selection to the parent directory of the current node.
func (m *FileTreeModel) jumpToParent() {
	if m.selected >= len(m.visible) {
		return
	}

	targetDepth := m.visible[m.selected].Depth - 1
	for i := m.selected - 1; i >= 0; i-- {
		if m.visible[i].IsDir && m.visible[i].Depth == targetDepth {
			m.selected = i
			return
		}
	}
}

// View renders the file tree.
func (m FileTreeModel) View() string {
	if len(m.files) == 0 {
		return styles.TextMutedStyle.Render("No files changed")
	}

	var lines []string
	for i, node := range m.visible {
		lines = append(lines, m.renderNode(node, i == m.selected))
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Render(strings.Join(lines, "\n"))
}

func (m FileTreeModel) renderNode(node *TreeNode, selected bool) string {
	indent := strings.Repeat("  ", node.Depth)

	var marker, name, stats string
	if node.IsDir {
		marker = "▸"
		if node.Expanded {
			marker = "▾"
		}
		name = node.Name + "/"
	} else {
		marker = " "
		name = node.Name
		additions, deletions := FileStats(node.File)
		stats = fmt.Sprintf("+%d -%d", additions, deletions)
	}

	nameStyle := styles.TextForegroundStyle
	markerStyle := styles.TextForegroundStyle
	if selected {
		nameStyle = styles.TextPrimaryBoldStyle
		markerStyle = styles.TextPrimaryStyle
	}

	line := indent + markerStyle.Render(marker) + " " + nameStyle.Render(name)
	if stats != "" {
		line += " " + styles.TextMutedStyle.Render(stats)
	}
	return line
}

// SelectedFile returns the currently selected file, or nil for directories.
func (m FileTreeModel) SelectedFile() *gitdiff.File {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return nil
	}
	node := m.visible[m.selected]
	if node.IsDir {
		return nil
	}
	return node.File
}

// Files returns the filtered file list.
func (m FileTreeModel) Files() []*gitdiff.File {
	return m.files
}

// SetSize updates the dimensions of the file tree.
func (m *FileTreeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
