package diff

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultHoverDelay is how long a popup lingers after the cursor leaves its
// anchor before hiding.
const DefaultHoverDelay = 200 * time.Millisecond

// HideHoverMsg is delivered when a scheduled hide fires. Stale messages
// (superseded by a later Show or ScheduleHide) carry an old generation and
// are ignored.
type HideHoverMsg struct {
	Gen int
}

// HoverState tracks which annotation popup is visible and debounces hiding:
// moving the cursor off an annotation schedules a delayed hide, and moving
// back before the delay fires cancels it. Cancellation works by generation
// counting, so rapid enter/leave sequences never hide a re-shown popup.
type HoverState struct {
	visibleID string
	gen       int
	delay     time.Duration
}

// NewHoverState creates hover state with the given hide delay. Zero or
// negative delays fall back to DefaultHoverDelay.
func NewHoverState(delay time.Duration) HoverState {
	if delay <= 0 {
		delay = DefaultHoverDelay
	}
	return HoverState{delay: delay}
}

// Show makes the popup for id visible immediately and invalidates any
// pending hide.
func (h *HoverState) Show(id string) {
	h.visibleID = id
	h.gen++
}

// ScheduleHide returns a command that hides the popup after the configured
// delay, unless superseded first.
func (h *HoverState) ScheduleHide() tea.Cmd {
	h.gen++
	gen := h.gen
	delay := h.delay
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return HideHoverMsg{Gen: gen}
	})
}

// HandleHide applies a hide message. Returns true if the popup was hidden,
// false if the message was stale.
func (h *HoverState) HandleHide(msg HideHoverMsg) bool {
	if msg.Gen != h.gen {
		return false
	}
	h.visibleID = ""
	return true
}

// VisibleID returns the id of the visible popup, or "" when hidden.
func (h *HoverState) VisibleID() string {
	return h.visibleID
}
