package review

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kdlbs/kandev/internal/core/styles"
)

// FinalizeAction is what happens with the generated feedback after the
// session is finalized.
type FinalizeAction int

const (
	FinalizeActionNone FinalizeAction = iota
	// FinalizeActionPrint writes the feedback to stdout after the TUI exits.
	FinalizeActionPrint
	// FinalizeActionClipboard copies the feedback to the system clipboard.
	FinalizeActionClipboard
)

// FinalizeModal shows options for finalizing a review.
type FinalizeModal struct {
	commentCount int
	selectedIdx  int
	options      []finalizeOption
	confirmed    bool
	cancelled    bool
}

type finalizeOption struct {
	label       string
	description string
	action      FinalizeAction
}

// NewFinalizeModal creates a modal for choosing what to do with the review
// feedback.
func NewFinalizeModal(commentCount int) FinalizeModal {
	return FinalizeModal{
		commentCount: commentCount,
		options: []finalizeOption{
			{
				label:       "Print to terminal",
				description: "Write review feedback to stdout on exit",
				action:      FinalizeActionPrint,
			},
			{
				label:       "Copy to clipboard",
				description: "Copy review feedback to the system clipboard",
				action:      FinalizeActionClipboard,
			},
		},
	}
}

// Update handles input events for the finalize modal.
func (m FinalizeModal) Update(msg tea.Msg) (FinalizeModal, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "j", "down", "tab":
			m.selectedIdx = (m.selectedIdx + 1) % len(m.options)
		case "k", "up", "shift+tab":
			m.selectedIdx = (m.selectedIdx - 1 + len(m.options)) % len(m.options)
		case "enter":
			m.confirmed = true
		case "esc":
			m.cancelled = true
		}
	}
	return m, nil
}

// View renders the finalize modal content.
func (m FinalizeModal) View() string {
	var content strings.Builder
	content.WriteString(styles.ModalTitleStyle.Render("Finalize Review") + "\n\n")
	content.WriteString(fmt.Sprintf("Finalize this review with %d comment(s)?\n\n", m.commentCount))

	for i, opt := range m.options {
		prefix := "  "
		label := opt.label
		if i == m.selectedIdx {
			prefix = styles.TextPrimaryStyle.Render("▸") + " "
			label = styles.TextPrimaryBoldStyle.Render(opt.label)
		}
		content.WriteString(prefix + label + "\n")
		content.WriteString("  " + styles.TextMutedStyle.Render(opt.description) + "\n\n")
	}

	content.WriteString(styles.ModalHelpStyle.Render("[j/k] select • [enter] confirm • [esc] cancel"))
	return styles.ModalStyle.Render(content.String())
}

// Confirmed returns true if the user confirmed the selection.
func (m FinalizeModal) Confirmed() bool {
	return m.confirmed
}

// Cancelled returns true if the user cancelled.
func (m FinalizeModal) Cancelled() bool {
	return m.cancelled
}

// SelectedAction returns the chosen finalize action.
func (m FinalizeModal) SelectedAction() FinalizeAction {
	if m.selectedIdx >= 0 && m.selectedIdx < len(m.options) {
		return m.options[m.selectedIdx].action
	}
	return FinalizeActionNone
}
