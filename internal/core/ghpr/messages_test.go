package ghpr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentMessage(t *testing.T) {
	c := PRComment{
		ID:   1,
		User: PRUser{Login: "alice"},
		Body: "rename this\nplease",
		Path: "internal/core/run.go",
		Line: 42,
	}

	msg := CommentMessage(c, "https://github.com/acme/widgets/pull/7")

	assert.Contains(t, msg, "@alice commented on internal/core/run.go:42:")
	assert.Contains(t, msg, "> rename this\n> please\n")
	assert.Contains(t, msg, "PR: https://github.com/acme/widgets/pull/7")
	assert.True(t, strings.HasSuffix(msg, callToAction+"\n"))
}

func TestCommentMessage_NoLocation(t *testing.T) {
	msg := CommentMessage(PRComment{User: PRUser{Login: "bob"}, Body: "lgtm"}, "")

	assert.Contains(t, msg, "@bob commented:")
	assert.NotContains(t, msg, " on ")
	assert.NotContains(t, msg, "PR:")
}

func TestThreadMessage(t *testing.T) {
	th := Thread{
		Root:    PRComment{ID: 1, User: PRUser{Login: "alice"}, Body: "root", Path: "a.go", Line: 3},
		Replies: []PRComment{{ID: 2, User: PRUser{Login: "bob"}, Body: "reply"}},
	}

	msg := ThreadMessage(th, "https://example.com/pr/1")

	assert.True(t, strings.HasPrefix(msg, "## Review thread\n"))
	// Root appears before reply.
	assert.Less(t, strings.Index(msg, "@alice"), strings.Index(msg, "@bob"))
}

func TestAllCommentsMessage(t *testing.T) {
	threads := []Thread{
		{Root: PRComment{ID: 1, User: PRUser{Login: "alice"}, Body: "one"}},
		{
			Root:    PRComment{ID: 2, User: PRUser{Login: "bob"}, Body: "two"},
			Replies: []PRComment{{ID: 3, User: PRUser{Login: "carol"}, Body: "three"}},
		},
	}

	msg := AllCommentsMessage(threads, "https://example.com/pr/1")

	assert.True(t, strings.HasPrefix(msg, "## PR review comments (3)\n"))
	assert.Contains(t, msg, "@alice")
	assert.Contains(t, msg, "@carol")

	assert.Empty(t, AllCommentsMessage(nil, "https://example.com/pr/1"))
}
