package review

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ModalState coordinates modal lifecycle and rendering. At most one modal is
// active at a time; finalize takes priority over comment entry.
type ModalState struct {
	commentModal  *CommentModal
	finalizeModal *FinalizeModal
}

// HasActiveModal returns true if any modal is currently active.
func (ms *ModalState) HasActiveModal() bool {
	return ms.commentModal != nil || ms.finalizeModal != nil
}

// Update routes messages to the highest-priority active modal.
func (ms ModalState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if ms.finalizeModal != nil {
		modal, cmd := ms.finalizeModal.Update(msg)
		ms.finalizeModal = &modal
		return ms, cmd
	}

	if ms.commentModal != nil {
		modal, cmd := ms.commentModal.Update(msg)
		ms.commentModal = &modal
		return ms, cmd
	}

	return ms, nil
}

// RenderOverlay draws the active modal centered over the given dimensions,
// or returns the background untouched when no modal is up.
func (ms *ModalState) RenderOverlay(background string, width, height int) string {
	var modal string
	switch {
	case ms.finalizeModal != nil:
		modal = ms.finalizeModal.View()
	case ms.commentModal != nil:
		modal = ms.commentModal.View()
	default:
		return background
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

// CloseAll closes all active modals.
func (ms *ModalState) CloseAll() {
	ms.commentModal = nil
	ms.finalizeModal = nil
}

// ShowCommentModal sets the comment modal as active.
func (ms *ModalState) ShowCommentModal(modal *CommentModal) {
	ms.commentModal = modal
}

// ShowFinalizeModal sets the finalize modal as active.
func (ms *ModalState) ShowFinalizeModal(modal *FinalizeModal) {
	ms.finalizeModal = modal
}

// CommentModal returns the active comment modal, or nil.
func (ms *ModalState) CommentModal() *CommentModal {
	return ms.commentModal
}

// FinalizeModal returns the active finalize modal, or nil.
func (ms *ModalState) FinalizeModal() *FinalizeModal {
	return ms.finalizeModal
}
