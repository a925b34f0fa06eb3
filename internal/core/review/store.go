package review

import (
	"context"
	"errors"
)

// Sentinel errors for review operations.
var (
	ErrSessionNotFound = errors.New("review session not found")
	ErrCommentNotFound = errors.New("review comment not found")
)

// Store defines persistence operations for review sessions and comments.
type Store interface {
	// CreateSession creates a new review session for a diff context.
	CreateSession(ctx context.Context, name, diffContext, contentHash string) (Session, error)

	// GetSession returns the session for the given name and diff context.
	// Returns ErrSessionNotFound if not found.
	GetSession(ctx context.Context, name, diffContext string) (Session, error)

	// ListSessions returns all sessions, newest first.
	ListSessions(ctx context.Context) ([]Session, error)

	// CleanupStaleSessions removes sessions for the given name and diff
	// context whose content hash no longer matches currentHash.
	CleanupStaleSessions(ctx context.Context, name, diffContext, currentHash string) error

	// FinalizeSession marks a session as finalized.
	FinalizeSession(ctx context.Context, sessionID string) error

	// DeleteSession removes a session and all associated comments.
	DeleteSession(ctx context.Context, sessionID string) error

	// SaveComment adds a comment to a session.
	SaveComment(ctx context.Context, comment Comment) error

	// ListComments returns all comments for a session, sorted by file path
	// then start line.
	ListComments(ctx context.Context, sessionID string) ([]Comment, error)

	// UpdateComment replaces the text of an existing comment.
	// Returns ErrCommentNotFound if not found.
	UpdateComment(ctx context.Context, comment Comment) error

	// DeleteComment removes a specific comment.
	DeleteComment(ctx context.Context, commentID string) error
}
