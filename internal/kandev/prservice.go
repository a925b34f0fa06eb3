package kandev

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kdlbs/kandev/internal/core/eventbus"
	"github.com/kdlbs/kandev/internal/core/ghpr"
	"github.com/kdlbs/kandev/internal/core/github"
)

// PRService turns pull request review comments into agent-ready feedback
// messages.
type PRService struct {
	client *github.Client
	bus    *eventbus.EventBus
	log    zerolog.Logger
}

// NewPRService creates the pull request feedback service.
func NewPRService(client *github.Client, bus *eventbus.EventBus, log zerolog.Logger) *PRService {
	return &PRService{client: client, bus: bus, log: log}
}

// PRFeedback holds the rendered feedback for a pull request alongside the
// underlying data, so callers can show a thread picker or the aggregate
// message.
type PRFeedback struct {
	PR      github.PullRequest
	Threads []ghpr.Thread
	Message string
}

// Fetch retrieves the current branch's PR and its review threads, rendering
// the aggregate feedback message.
func (s *PRService) Fetch(ctx context.Context) (PRFeedback, error) {
	pr, err := s.client.CurrentPR(ctx)
	if err != nil {
		return PRFeedback{}, err
	}

	comments, err := s.client.ReviewComments(ctx, pr.Number)
	if err != nil {
		return PRFeedback{}, fmt.Errorf("fetch review comments for PR #%d: %w", pr.Number, err)
	}

	threads := ghpr.BuildThreads(comments)

	s.log.Debug().
		Int("pr", pr.Number).
		Int("comments", len(comments)).
		Int("threads", len(threads)).
		Msg("fetched pr review feedback")
	s.bus.PublishPRFetched(eventbus.PRFetchedPayload{Number: pr.Number, CommentCount: len(comments)})

	return PRFeedback{
		PR:      pr,
		Threads: threads,
		Message: ghpr.AllCommentsMessage(threads, pr.URL),
	}, nil
}

// ThreadMessage renders a single thread as a feedback message.
func (s *PRService) ThreadMessage(feedback PRFeedback, index int) (string, error) {
	if index < 0 || index >= len(feedback.Threads) {
		return "", fmt.Errorf("thread index %d out of range (%d threads)", index, len(feedback.Threads))
	}
	return ghpr.ThreadMessage(feedback.Threads[index], feedback.PR.URL), nil
}
