// Package github fetches pull request data through the gh CLI. Auth, host
// selection, and token refresh are all delegated to gh itself.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kdlbs/kandev/internal/core/ghpr"
	"github.com/kdlbs/kandev/internal/core/kv"
	"github.com/kdlbs/kandev/pkg/executil"
)

// ErrNoPR indicates no pull request exists for the current branch.
var ErrNoPR = errors.New("no pull request for current branch")

// DefaultCacheTTL is how long fetched PR data is reused before hitting the
// API again.
const DefaultCacheTTL = 30 * time.Second

// PullRequest is the subset of gh's PR view output we care about.
type PullRequest struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	State       string `json:"state"`
	IsDraft     bool   `json:"isDraft"`
	URL         string `json:"url"`
	HeadRefName string `json:"headRefName"`
	BaseRefName string `json:"baseRefName"`
}

// Client fetches PR metadata and review comments for a repository checkout.
type Client struct {
	exec     executil.Executor
	repoDir  string
	log      zerolog.Logger
	cacheTTL time.Duration

	prCache      *kv.TypedKV[PullRequest]
	commentCache *kv.TypedKV[[]ghpr.PRComment]
}

// Option configures a Client.
type Option func(*Client)

// WithCache enables caching of gh responses in the given store.
func WithCache(store kv.KV, ttl time.Duration) Option {
	return func(c *Client) {
		c.prCache = kv.Scoped[PullRequest](store, "gh-pr")
		c.commentCache = kv.Scoped[[]ghpr.PRComment](store, "gh-comments")
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// WithExecutor overrides the command executor, primarily for tests.
func WithExecutor(exec executil.Executor) Option {
	return func(c *Client) { c.exec = exec }
}

// NewClient creates a client for the repository at repoDir.
func NewClient(repoDir string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		exec:     &executil.RealExecutor{},
		repoDir:  repoDir,
		log:      log,
		cacheTTL: DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether the gh CLI is on PATH.
func Available() bool {
	_, err := exec.LookPath("gh")
	return err == nil
}

// CurrentPR returns the pull request associated with the current branch.
// Returns ErrNoPR when the branch has no PR.
func (c *Client) CurrentPR(ctx context.Context) (PullRequest, error) {
	cacheKey := c.repoDir
	if c.prCache != nil {
		if pr, err := c.prCache.Get(ctx, cacheKey); err == nil {
			c.log.Debug().Int("number", pr.Number).Msg("pr view cache hit")
			return pr, nil
		}
	}

	out, err := c.exec.RunDir(ctx, c.repoDir, "gh", "pr", "view",
		"--json", "number,title,state,isDraft,url,headRefName,baseRefName")
	if err != nil {
		if strings.Contains(string(out), "no pull requests found") {
			return PullRequest{}, ErrNoPR
		}
		return PullRequest{}, fmt.Errorf("gh pr view: %w", err)
	}

	var pr PullRequest
	if err := json.Unmarshal(out, &pr); err != nil {
		return PullRequest{}, fmt.Errorf("parse gh pr view output: %w", err)
	}
	if pr.Number == 0 {
		return PullRequest{}, ErrNoPR
	}

	if c.prCache != nil {
		if err := c.prCache.SetTTL(ctx, cacheKey, pr, c.cacheTTL); err != nil {
			c.log.Warn().Err(err).Msg("failed to cache pr view")
		}
	}

	return pr, nil
}

// ReviewComments returns all review comments on a pull request, in API order.
// In-line review comments only, not issue-style conversation comments.
func (c *Client) ReviewComments(ctx context.Context, number int) ([]ghpr.PRComment, error) {
	cacheKey := c.repoDir + ":" + strconv.Itoa(number)
	if c.commentCache != nil {
		if comments, err := c.commentCache.Get(ctx, cacheKey); err == nil {
			c.log.Debug().Int("number", number).Int("count", len(comments)).Msg("pr comments cache hit")
			return comments, nil
		}
	}

	out, err := c.exec.RunDir(ctx, c.repoDir, "gh", "api",
		fmt.Sprintf("repos/{owner}/{repo}/pulls/%d/comments", number),
		"--paginate")
	if err != nil {
		return nil, fmt.Errorf("gh api pull comments: %w", err)
	}

	comments, err := parseCommentPages(out)
	if err != nil {
		return nil, err
	}

	if c.commentCache != nil {
		if err := c.commentCache.SetTTL(ctx, cacheKey, comments, c.cacheTTL); err != nil {
			c.log.Warn().Err(err).Msg("failed to cache pr comments")
		}
	}

	return comments, nil
}

// Threads fetches review comments and groups them into threads.
func (c *Client) Threads(ctx context.Context, number int) ([]ghpr.Thread, error) {
	comments, err := c.ReviewComments(ctx, number)
	if err != nil {
		return nil, err
	}
	return ghpr.BuildThreads(comments), nil
}

// parseCommentPages decodes gh api --paginate output, which is one JSON
// array per page concatenated without separators.
func parseCommentPages(data []byte) ([]ghpr.PRComment, error) {
	var comments []ghpr.PRComment
	dec := json.NewDecoder(strings.NewReader(string(data)))
	for dec.More() {
		var page []ghpr.PRComment
		if err := dec.Decode(&page); err != nil {
			return nil, fmt.Errorf("parse pull comments page: %w", err)
		}
		comments = append(comments, page...)
	}
	return comments, nil
}
