// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within kandev.
package eventbus

import (
	"context"
	"sync"

	"github.com/kdlbs/kandev/internal/core/review"
)

// Event identifies an event type on the bus.
type Event string

// Event names. Keep list sorted A-Z.
const (
	EventCommentDeleted  Event = "review.comment-deleted"
	EventCommentSaved    Event = "review.comment-saved"
	EventPRFetched       Event = "pr.fetched"
	EventReviewFinalized Event = "review.finalized"
	EventSessionStarted  Event = "review.session-started"
	EventTuiStarted      Event = "tui.started"
	EventTuiStopped      Event = "tui.stopped"
)

// SessionStartedPayload is emitted when a review session is created or resumed.
type SessionStartedPayload struct {
	Session review.Session
	Resumed bool
}

// CommentSavedPayload is emitted when a review comment is created or edited.
type CommentSavedPayload struct {
	Comment review.Comment
}

// CommentDeletedPayload is emitted when a review comment is removed.
type CommentDeletedPayload struct {
	CommentID string
	SessionID string
}

// ReviewFinalizedPayload is emitted when a review session is finalized into
// feedback.
type ReviewFinalizedPayload struct {
	Session      review.Session
	CommentCount int
}

// PRFetchedPayload is emitted after pull request data is retrieved.
type PRFetchedPayload struct {
	Number       int
	CommentCount int
}

// TUIStartedPayload is emitted when the TUI starts.
type TUIStartedPayload struct{}

// TUIStoppedPayload is emitted when the TUI stops.
type TUIStoppedPayload struct{}

// DefaultBufferSize is the channel capacity used by the application bus.
const DefaultBufferSize = 64

type envelope struct {
	event   Event
	payload any
}

// EventBus is a buffered publish/subscribe bus. Publishing never blocks;
// events are dropped when the buffer is full. Subscribers run sequentially
// on the Start goroutine.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates an event bus with the given buffer size.
func New(buffer int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: map[Event][]func(any){},
	}
}

// Start dispatches events to subscribers until ctx is cancelled.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

// PublishSessionStarted publishes a review.session-started event.
func (bus *EventBus) PublishSessionStarted(p SessionStartedPayload) {
	bus.send(EventSessionStarted, p)
}

// SubscribeSessionStarted subscribes to review.session-started events.
func (bus *EventBus) SubscribeSessionStarted(fn func(SessionStartedPayload)) {
	bus.subscribe(EventSessionStarted, func(v any) { fn(v.(SessionStartedPayload)) })
}

// PublishCommentSaved publishes a review.comment-saved event.
func (bus *EventBus) PublishCommentSaved(p CommentSavedPayload) {
	bus.send(EventCommentSaved, p)
}

// SubscribeCommentSaved subscribes to review.comment-saved events.
func (bus *EventBus) SubscribeCommentSaved(fn func(CommentSavedPayload)) {
	bus.subscribe(EventCommentSaved, func(v any) { fn(v.(CommentSavedPayload)) })
}

// PublishCommentDeleted publishes a review.comment-deleted event.
func (bus *EventBus) PublishCommentDeleted(p CommentDeletedPayload) {
	bus.send(EventCommentDeleted, p)
}

// SubscribeCommentDeleted subscribes to review.comment-deleted events.
func (bus *EventBus) SubscribeCommentDeleted(fn func(CommentDeletedPayload)) {
	bus.subscribe(EventCommentDeleted, func(v any) { fn(v.(CommentDeletedPayload)) })
}

// PublishReviewFinalized publishes a review.finalized event.
func (bus *EventBus) PublishReviewFinalized(p ReviewFinalizedPayload) {
	bus.send(EventReviewFinalized, p)
}

// SubscribeReviewFinalized subscribes to review.finalized events.
func (bus *EventBus) SubscribeReviewFinalized(fn func(ReviewFinalizedPayload)) {
	bus.subscribe(EventReviewFinalized, func(v any) { fn(v.(ReviewFinalizedPayload)) })
}

// PublishPRFetched publishes a pr.fetched event.
func (bus *EventBus) PublishPRFetched(p PRFetchedPayload) {
	bus.send(EventPRFetched, p)
}

// SubscribePRFetched subscribes to pr.fetched events.
func (bus *EventBus) SubscribePRFetched(fn func(PRFetchedPayload)) {
	bus.subscribe(EventPRFetched, func(v any) { fn(v.(PRFetchedPayload)) })
}

// PublishTuiStarted publishes a tui.started event.
func (bus *EventBus) PublishTuiStarted(p TUIStartedPayload) {
	bus.send(EventTuiStarted, p)
}

// SubscribeTuiStarted subscribes to tui.started events.
func (bus *EventBus) SubscribeTuiStarted(fn func(TUIStartedPayload)) {
	bus.subscribe(EventTuiStarted, func(v any) { fn(v.(TUIStartedPayload)) })
}

// PublishTuiStopped publishes a tui.stopped event.
func (bus *EventBus) PublishTuiStopped(p TUIStoppedPayload) {
	bus.send(EventTuiStopped, p)
}

// SubscribeTuiStopped subscribes to tui.stopped events.
func (bus *EventBus) SubscribeTuiStopped(fn func(TUIStoppedPayload)) {
	bus.subscribe(EventTuiStopped, func(v any) { fn(v.(TUIStoppedPayload)) })
}
