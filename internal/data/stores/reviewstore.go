package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kdlbs/kandev/internal/core/diffmap"
	"github.com/kdlbs/kandev/internal/core/review"
	"github.com/kdlbs/kandev/internal/data/db"
)

// ReviewStore implements review.Store using SQLite.
type ReviewStore struct {
	db *db.DB
}

var _ review.Store = (*ReviewStore)(nil)

// NewReviewStore creates a new SQLite-backed review store.
func NewReviewStore(db *db.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

// CreateSession creates a new review session for a diff context.
func (s *ReviewStore) CreateSession(ctx context.Context, name, diffContext, contentHash string) (review.Session, error) {
	sess := review.Session{
		ID:          uuid.NewString(),
		Name:        name,
		DiffContext: diffContext,
		ContentHash: contentHash,
		CreatedAt:   time.Now(),
	}

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO review_sessions (id, name, diff_context, content_hash, created_at, finalized_at)
		VALUES (?, ?, ?, ?, ?, NULL)`,
		sess.ID, sess.Name, sess.DiffContext, sess.ContentHash, sess.CreatedAt.UnixNano(),
	)
	if err != nil {
		return review.Session{}, fmt.Errorf("create review session: %w", err)
	}

	return sess, nil
}

// GetSession returns the most recent session for the given name and diff context.
func (s *ReviewStore) GetSession(ctx context.Context, name, diffContext string) (review.Session, error) {
	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, name, diff_context, content_hash, created_at, finalized_at
		FROM review_sessions
		WHERE name = ? AND diff_context = ?
		ORDER BY created_at DESC
		LIMIT 1`,
		name, diffContext,
	)

	sess, err := scanSession(row)
	if IsNotFoundError(err) {
		return review.Session{}, review.ErrSessionNotFound
	}
	if err != nil {
		return review.Session{}, fmt.Errorf("get review session: %w", err)
	}

	return sess, nil
}

// ListSessions returns all sessions, newest first.
func (s *ReviewStore) ListSessions(ctx context.Context) ([]review.Session, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, name, diff_context, content_hash, created_at, finalized_at
		FROM review_sessions
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list review sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sessions []review.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review sessions: %w", err)
	}

	return sessions, nil
}

// CleanupStaleSessions removes sessions for the given name and diff context
// whose content hash no longer matches currentHash. Comments cascade.
func (s *ReviewStore) CleanupStaleSessions(ctx context.Context, name, diffContext, currentHash string) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		DELETE FROM review_sessions
		WHERE name = ? AND diff_context = ? AND content_hash != ?`,
		name, diffContext, currentHash,
	)
	if err != nil {
		return fmt.Errorf("cleanup stale sessions: %w", err)
	}
	return nil
}

// FinalizeSession marks a session as finalized.
func (s *ReviewStore) FinalizeSession(ctx context.Context, sessionID string) error {
	res, err := s.db.Conn().ExecContext(ctx, `
		UPDATE review_sessions SET finalized_at = ? WHERE id = ?`,
		time.Now().UnixNano(), sessionID,
	)
	if err != nil {
		return fmt.Errorf("finalize review session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return review.ErrSessionNotFound
	}
	return nil
}

// DeleteSession removes a session and all associated comments.
func (s *ReviewStore) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM review_sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete review session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return review.ErrSessionNotFound
	}
	return nil
}

// SaveComment adds a comment to a session.
func (s *ReviewStore) SaveComment(ctx context.Context, comment review.Comment) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO review_comments (id, session_id, file_path, side, start_line, end_line, context_text, comment_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		comment.ID, comment.SessionID, comment.FilePath, string(comment.Side),
		comment.StartLine, comment.EndLine, comment.ContextText, comment.CommentText,
		comment.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save review comment: %w", err)
	}
	return nil
}

// ListComments returns all comments for a session, sorted by file path then
// start line.
func (s *ReviewStore) ListComments(ctx context.Context, sessionID string) ([]review.Comment, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, session_id, file_path, side, start_line, end_line, context_text, comment_text, created_at
		FROM review_comments
		WHERE session_id = ?
		ORDER BY file_path, start_line`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list review comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var comments []review.Comment
	for rows.Next() {
		var c review.Comment
		var side string
		var createdAt int64
		err := rows.Scan(&c.ID, &c.SessionID, &c.FilePath, &side, &c.StartLine, &c.EndLine, &c.ContextText, &c.CommentText, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan review comment: %w", err)
		}
		c.Side = diffmap.Side(side)
		c.CreatedAt = time.Unix(0, createdAt)
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review comments: %w", err)
	}

	return comments, nil
}

// UpdateComment replaces the text of an existing comment.
func (s *ReviewStore) UpdateComment(ctx context.Context, comment review.Comment) error {
	res, err := s.db.Conn().ExecContext(ctx, `
		UPDATE review_comments SET comment_text = ? WHERE id = ?`,
		comment.CommentText, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("update review comment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return review.ErrCommentNotFound
	}
	return nil
}

// DeleteComment removes a specific comment.
func (s *ReviewStore) DeleteComment(ctx context.Context, commentID string) error {
	_, err := s.db.Conn().ExecContext(ctx, `DELETE FROM review_comments WHERE id = ?`, commentID)
	if err != nil {
		return fmt.Errorf("delete review comment: %w", err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanSession.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (review.Session, error) {
	var sess review.Session
	var createdAt int64
	var finalizedAt sql.NullInt64

	err := row.Scan(&sess.ID, &sess.Name, &sess.DiffContext, &sess.ContentHash, &createdAt, &finalizedAt)
	if err != nil {
		return review.Session{}, err
	}

	sess.CreatedAt = time.Unix(0, createdAt)
	if finalizedAt.Valid {
		t := time.Unix(0, finalizedAt.Int64)
		sess.FinalizedAt = &t
	}

	return sess, nil
}
