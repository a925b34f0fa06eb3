// Package kandev wires the core packages into the review workflows the CLI
// and TUI drive.
package kandev

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/rs/zerolog"

	"github.com/kdlbs/kandev/internal/core/config"
	"github.com/kdlbs/kandev/internal/core/diffmap"
	"github.com/kdlbs/kandev/internal/core/eventbus"
	"github.com/kdlbs/kandev/internal/core/git"
	"github.com/kdlbs/kandev/internal/core/review"
	"github.com/kdlbs/kandev/internal/core/validate"
	"github.com/kdlbs/kandev/pkg/randid"
	"github.com/kdlbs/kandev/pkg/tmpl"
)

// commentIDLength is the length of generated comment identifiers. Short ids
// keep feedback output readable while staying unique within a session.
const commentIDLength = 8

// ErrNoChanges indicates the selected diff context contains no changes.
var ErrNoChanges = errors.New("no changes to review")

// ParseDiff parses raw unified diff text into per-file changes.
func ParseDiff(diffText string) ([]*gitdiff.File, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(diffText))
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}
	return files, nil
}

// FeedbackData is the payload exposed to user feedback templates.
type FeedbackData struct {
	DiffDescription string
	CommentCount    int
	Comments        []review.Comment
}

// ReviewService orchestrates review sessions: loading diffs, persisting
// comments, and turning a finalized session into feedback text.
type ReviewService struct {
	store  review.Store
	git    *git.Executor
	config *config.Config
	bus    *eventbus.EventBus
	log    zerolog.Logger
}

// NewReviewService creates the review orchestration service.
func NewReviewService(store review.Store, gitExec *git.Executor, cfg *config.Config, bus *eventbus.EventBus, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		store:  store,
		git:    gitExec,
		config: cfg,
		bus:    bus,
		log:    log,
	}
}

// LoadDiff retrieves the diff for the configured (or overridden) context.
// Returns the raw unified diff and a human-readable description of what it
// covers.
func (s *ReviewService) LoadDiff(ctx context.Context, dir, diffContext string) (string, string, error) {
	if diffContext == "" {
		diffContext = s.config.Review.DiffContext
	}

	mode, err := git.ModeFromString(diffContext)
	if err != nil {
		return "", "", err
	}

	opts := git.DiffOptions{Mode: mode}
	if mode == git.DiffBranch {
		base, err := s.git.DefaultBranch(ctx, dir)
		if err != nil {
			return "", "", fmt.Errorf("resolve base branch: %w", err)
		}
		opts.BaseBranch = base
	}

	diff, err := s.git.GetDiff(ctx, dir, opts)
	if err != nil {
		return "", "", err
	}
	if diff == "" {
		return "", "", ErrNoChanges
	}

	return diff, git.DescribeDiffMode(opts), nil
}

// SessionName derives a stable session name for a working directory: the
// current branch when dir is a git checkout, otherwise the directory base
// name.
func (s *ReviewService) SessionName(ctx context.Context, dir string) string {
	if branch, err := s.git.Branch(ctx, dir); err == nil && branch != "" {
		return branch
	}
	return filepath.Base(dir)
}

// StartSession resumes the session matching name, context, and diff content,
// or creates a fresh one. Sessions whose stored hash no longer matches the
// current diff are discarded first. Returns the session and whether it was
// resumed.
func (s *ReviewService) StartSession(ctx context.Context, name, diffContext, diffText string) (review.Session, bool, error) {
	if err := validate.SessionNameField("name", name); err != nil {
		return review.Session{}, false, err
	}

	hash := review.ContentHash(diffText)

	if err := s.store.CleanupStaleSessions(ctx, name, diffContext, hash); err != nil {
		return review.Session{}, false, fmt.Errorf("cleanup stale sessions: %w", err)
	}

	sess, err := s.store.GetSession(ctx, name, diffContext)
	switch {
	case err == nil && !sess.IsFinalized():
		s.log.Debug().Str("session", sess.ID).Msg("resuming review session")
		s.bus.PublishSessionStarted(eventbus.SessionStartedPayload{Session: sess, Resumed: true})
		return sess, true, nil

	case err != nil && !errors.Is(err, review.ErrSessionNotFound):
		return review.Session{}, false, err
	}

	sess, err = s.store.CreateSession(ctx, name, diffContext, hash)
	if err != nil {
		return review.Session{}, false, err
	}

	s.log.Debug().Str("session", sess.ID).Msg("created review session")
	s.bus.PublishSessionStarted(eventbus.SessionStartedPayload{Session: sess, Resumed: false})
	return sess, false, nil
}

// AddComment persists a new comment, assigning its ID and timestamp.
func (s *ReviewService) AddComment(ctx context.Context, comment review.Comment) (review.Comment, error) {
	if err := validate.CommentTextField("comment", comment.CommentText); err != nil {
		return review.Comment{}, err
	}

	comment.ID = randid.Generate(commentIDLength)
	comment.CreatedAt = time.Now()

	if err := s.store.SaveComment(ctx, comment); err != nil {
		return review.Comment{}, err
	}

	s.bus.PublishCommentSaved(eventbus.CommentSavedPayload{Comment: comment})
	return comment, nil
}

// UpdateComment replaces the text of an existing comment.
func (s *ReviewService) UpdateComment(ctx context.Context, comment review.Comment) error {
	if err := s.store.UpdateComment(ctx, comment); err != nil {
		return err
	}
	s.bus.PublishCommentSaved(eventbus.CommentSavedPayload{Comment: comment})
	return nil
}

// DeleteComment removes a comment.
func (s *ReviewService) DeleteComment(ctx context.Context, sessionID, commentID string) error {
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	s.bus.PublishCommentDeleted(eventbus.CommentDeletedPayload{CommentID: commentID, SessionID: sessionID})
	return nil
}

// Comments returns all comments for a session.
func (s *ReviewService) Comments(ctx context.Context, sessionID string) ([]review.Comment, error) {
	return s.store.ListComments(ctx, sessionID)
}

// Sessions returns all review sessions, newest first.
func (s *ReviewService) Sessions(ctx context.Context) ([]review.Session, error) {
	return s.store.ListSessions(ctx)
}

// Finalize renders the session's comments into feedback text and marks the
// session finalized. A configured feedback template overrides the built-in
// format.
func (s *ReviewService) Finalize(ctx context.Context, sess review.Session, diffDescription string) (string, error) {
	comments, err := s.store.ListComments(ctx, sess.ID)
	if err != nil {
		return "", fmt.Errorf("list comments: %w", err)
	}

	feedback, err := s.renderFeedback(diffDescription, comments)
	if err != nil {
		return "", err
	}

	if err := s.store.FinalizeSession(ctx, sess.ID); err != nil {
		return "", fmt.Errorf("finalize session: %w", err)
	}

	s.log.Info().Str("session", sess.ID).Int("comments", len(comments)).Msg("review finalized")
	s.bus.PublishReviewFinalized(eventbus.ReviewFinalizedPayload{Session: sess, CommentCount: len(comments)})

	return feedback, nil
}

func (s *ReviewService) renderFeedback(diffDescription string, comments []review.Comment) (string, error) {
	if s.config.Review.FeedbackTemplate == "" {
		return review.GenerateFeedback(diffDescription, comments), nil
	}

	out, err := tmpl.Render(s.config.Review.FeedbackTemplate, FeedbackData{
		DiffDescription: diffDescription,
		CommentCount:    len(comments),
		Comments:        comments,
	})
	if err != nil {
		return "", fmt.Errorf("render feedback template: %w", err)
	}
	return out, nil
}

// DeleteSession removes a session and its comments.
func (s *ReviewService) DeleteSession(ctx context.Context, sessionID string) error {
	return s.store.DeleteSession(ctx, sessionID)
}

// RevertChange undoes one change block in the working copy: the block's
// added lines are replaced with its pre-change lines. path is resolved
// relative to dir when not absolute.
func (s *ReviewService) RevertChange(dir, path string, info diffmap.RevertInfo) error {
	target := path
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	reverted := diffmap.ApplyRevert(string(content), info)
	if err := os.WriteFile(target, []byte(reverted), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	s.log.Debug().
		Str("path", path).
		Int("add_start", info.AddStart).
		Int("add_count", info.AddCount).
		Msg("reverted change block")
	return nil
}
