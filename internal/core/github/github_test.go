package github

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdlbs/kandev/internal/data/db"
	"github.com/kdlbs/kandev/internal/data/stores"
	"github.com/kdlbs/kandev/pkg/executil"
)

func TestCurrentPR(t *testing.T) {
	ctx := context.Background()

	t.Run("parses pr view output", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{
				"gh": []byte(`{"number":42,"title":"Fix parser","state":"OPEN","isDraft":false,"url":"https://github.com/acme/widgets/pull/42","headRefName":"fix-parser","baseRefName":"main"}`),
			},
		}

		client := NewClient("/repo", zerolog.Nop(), WithExecutor(rec))

		pr, err := client.CurrentPR(ctx)
		require.NoError(t, err, "CurrentPR")
		assert.Equal(t, 42, pr.Number)
		assert.Equal(t, "Fix parser", pr.Title)
		assert.Equal(t, "fix-parser", pr.HeadRefName)

		require.Len(t, rec.Commands, 1)
		assert.Equal(t, "/repo", rec.Commands[0].Dir)
		assert.Equal(t, []string{"pr", "view", "--json", "number,title,state,isDraft,url,headRefName,baseRefName"}, rec.Commands[0].Args)
	})

	t.Run("no pr for branch", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{
				"gh": []byte("no pull requests found for branch \"main\""),
			},
			Errors: map[string]error{
				"gh": errors.New("exit status 1"),
			},
		}

		client := NewClient("/repo", zerolog.Nop(), WithExecutor(rec))

		_, err := client.CurrentPR(ctx)
		assert.ErrorIs(t, err, ErrNoPR, "got %v, want ErrNoPR", err)
	})

	t.Run("gh failure", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Errors: map[string]error{
				"gh": errors.New("exit status 4"),
			},
		}

		client := NewClient("/repo", zerolog.Nop(), WithExecutor(rec))

		_, err := client.CurrentPR(ctx)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoPR)
	})

	t.Run("caches result", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err, "Open")
		defer func() { _ = database.Close() }()

		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{
				"gh": []byte(`{"number":7,"title":"t","state":"OPEN","url":"u"}`),
			},
		}

		client := NewClient("/repo", zerolog.Nop(),
			WithExecutor(rec),
			WithCache(stores.NewKVStore(database), time.Minute),
		)

		first, err := client.CurrentPR(ctx)
		require.NoError(t, err, "first CurrentPR")

		second, err := client.CurrentPR(ctx)
		require.NoError(t, err, "second CurrentPR")

		assert.Equal(t, first, second)
		assert.Len(t, rec.Commands, 1, "second call should hit the cache")
	})
}

func TestReviewComments(t *testing.T) {
	ctx := context.Background()

	t.Run("parses single page", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{
				"gh": []byte(`[{"id":100,"user":{"login":"alice"},"body":"nit","path":"main.go","line":3},{"id":101,"in_reply_to_id":100,"user":{"login":"bob"},"body":"done","path":"main.go","line":3}]`),
			},
		}

		client := NewClient("/repo", zerolog.Nop(), WithExecutor(rec))

		comments, err := client.ReviewComments(ctx, 42)
		require.NoError(t, err, "ReviewComments")
		require.Len(t, comments, 2)
		assert.Equal(t, int64(100), comments[0].ID)
		assert.Equal(t, "alice", comments[0].User.Login)
		assert.Equal(t, int64(100), comments[1].InReplyTo)

		require.Len(t, rec.Commands, 1)
		assert.Equal(t, []string{"api", "repos/{owner}/{repo}/pulls/42/comments", "--paginate"}, rec.Commands[0].Args)
	})

	t.Run("parses paginated output", func(t *testing.T) {
		// gh api --paginate concatenates one JSON array per page.
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{
				"gh": []byte(`[{"id":1,"user":{"login":"a"},"body":"x"}][{"id":2,"user":{"login":"b"},"body":"y"}]`),
			},
		}

		client := NewClient("/repo", zerolog.Nop(), WithExecutor(rec))

		comments, err := client.ReviewComments(ctx, 1)
		require.NoError(t, err, "ReviewComments")
		require.Len(t, comments, 2)
		assert.Equal(t, int64(1), comments[0].ID)
		assert.Equal(t, int64(2), comments[1].ID)
	})

	t.Run("empty response", func(t *testing.T) {
		rec := &executil.RecordingExecutor{
			Outputs: map[string][]byte{"gh": []byte(`[]`)},
		}

		client := NewClient("/repo", zerolog.Nop(), WithExecutor(rec))

		comments, err := client.ReviewComments(ctx, 5)
		require.NoError(t, err, "ReviewComments")
		assert.Empty(t, comments)
	})
}

func TestThreads(t *testing.T) {
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"gh": []byte(`[{"id":100,"user":{"login":"alice"},"body":"nit"},{"id":101,"in_reply_to_id":100,"user":{"login":"bob"},"body":"done"},{"id":200,"user":{"login":"carol"},"body":"question"}]`),
		},
	}

	client := NewClient("/repo", zerolog.Nop(), WithExecutor(rec))

	threads, err := client.Threads(context.Background(), 42)
	require.NoError(t, err, "Threads")
	require.Len(t, threads, 2)
	assert.Equal(t, int64(100), threads[0].Root.ID)
	require.Len(t, threads[0].Replies, 1)
	assert.Equal(t, int64(101), threads[0].Replies[0].ID)
	assert.Equal(t, int64(200), threads[1].Root.ID)
}
