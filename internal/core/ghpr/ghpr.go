// Package ghpr models GitHub pull-request review feedback: grouping flat
// comment lists into root+replies threads and rendering them as messages an
// agent can act on. Fetching is the github client's concern; this package
// only operates on already-retrieved data.
package ghpr

import "time"

// PRUser is the comment author as returned by the GitHub API.
type PRUser struct {
	Login string `json:"login"`
}

// PRComment is a single pull-request review comment. InReplyTo is zero for
// top-level comments.
type PRComment struct {
	ID        int64     `json:"id"`
	InReplyTo int64     `json:"in_reply_to_id"`
	User      PRUser    `json:"user"`
	Body      string    `json:"body"`
	Path      string    `json:"path"`
	Line      int       `json:"line"`
	HTMLURL   string    `json:"html_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Thread is a root comment plus its direct replies. Only one level of
// nesting is modeled; the rendering contract assumes root + flat replies.
type Thread struct {
	Root    PRComment
	Replies []PRComment
}

// Size returns the total number of comments in the thread.
func (t Thread) Size() int {
	return 1 + len(t.Replies)
}
