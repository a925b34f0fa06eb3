package eventbus_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/kdlbs/kandev/internal/core/eventbus"
	"github.com/kdlbs/kandev/internal/core/eventbus/testbus"
	"github.com/kdlbs/kandev/internal/core/review"
)

func TestPublishSubscribe(t *testing.T) {
	tb := testbus.New(t)

	tb.PublishSessionStarted(eventbus.SessionStartedPayload{
		Session: review.Session{ID: "s1", Name: "fix-auth"},
	})
	tb.AssertPublished(t, eventbus.EventSessionStarted)

	events := tb.Events()
	payload, ok := events[0].Payload.(eventbus.SessionStartedPayload)
	if assert.True(t, ok, "payload type") {
		assert.Equal(t, "s1", payload.Session.ID)
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	// Unstarted bus with a tiny buffer: publishes past capacity must drop,
	// never block.
	bus := eventbus.New(1)

	var dropped int
	bus.OnDrop(func(eventbus.Event, any) { dropped++ })

	bus.PublishTuiStarted(eventbus.TUIStartedPayload{})
	bus.PublishTuiStarted(eventbus.TUIStartedPayload{})
	bus.PublishTuiStarted(eventbus.TUIStartedPayload{})

	assert.Equal(t, 2, dropped, "expected 2 drops past buffer capacity")
}

func TestSubscriberPanicIsContained(t *testing.T) {
	tb := testbus.New(t)

	tb.SubscribeCommentSaved(func(eventbus.CommentSavedPayload) {
		panic("boom")
	})

	var panicked bool
	tb.OnPanic(func(eventbus.Event, any, any) { panicked = true })

	tb.PublishCommentSaved(eventbus.CommentSavedPayload{
		Comment: review.Comment{ID: "c1"},
	})

	// The recording subscriber still receives the event after the panic.
	tb.AssertPublished(t, eventbus.EventCommentSaved)

	assert.Eventually(t, func() bool { return panicked }, 500*time.Millisecond, 5*time.Millisecond,
		"panic hook should fire")
}

func TestRegisterDebugLogger(t *testing.T) {
	tb := testbus.New(t)

	// Registering with a nop logger must not panic.
	eventbus.RegisterDebugLogger(tb.EventBus, zerolog.Nop())

	tb.PublishSessionStarted(eventbus.SessionStartedPayload{
		Session: review.Session{ID: "test", Name: "test"},
	})
	tb.PublishTuiStarted(eventbus.TUIStartedPayload{})
	tb.PublishReviewFinalized(eventbus.ReviewFinalizedPayload{
		Session:      review.Session{ID: "test"},
		CommentCount: 2,
	})

	// Wait for last event to confirm all dispatched without panic.
	tb.AssertPublished(t, eventbus.EventReviewFinalized)
}
