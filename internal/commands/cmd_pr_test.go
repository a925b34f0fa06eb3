package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/kdlbs/kandev/internal/core/eventbus/testbus"
	"github.com/kdlbs/kandev/internal/core/github"
	"github.com/kdlbs/kandev/internal/kandev"
	"github.com/kdlbs/kandev/pkg/tuitest"
)

// ghExecutor returns canned gh outputs in call order.
type ghExecutor struct {
	outputs [][]byte
	calls   int
}

func (e *ghExecutor) Run(ctx context.Context, cmd string, args ...string) ([]byte, error) {
	return e.next()
}

func (e *ghExecutor) RunDir(ctx context.Context, dir, cmd string, args ...string) ([]byte, error) {
	return e.next()
}

func (e *ghExecutor) next() ([]byte, error) {
	if e.calls >= len(e.outputs) {
		return nil, nil
	}
	out := e.outputs[e.calls]
	e.calls++
	return out, nil
}

func runPR(t *testing.T, flags *Flags, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := &cli.Command{
		Name:   "kandev",
		Writer: &buf,
	}
	NewPRCmd(flags).Register(app)

	err := app.Run(context.Background(), append([]string{"kandev", "pr"}, args...))
	return buf.String(), err
}

func newPRFlags(t *testing.T, outputs ...string) *Flags {
	t.Helper()

	exec := &ghExecutor{}
	for _, o := range outputs {
		exec.outputs = append(exec.outputs, []byte(o))
	}

	client := github.NewClient("/repo", zerolog.Nop(), github.WithExecutor(exec))
	tb := testbus.New(t)
	return &Flags{PR: kandev.NewPRService(client, tb.EventBus, zerolog.Nop())}
}

const prJSON = `{"number": 7, "title": "Add auth", "state": "OPEN", "url": "https://github.com/acme/app/pull/7"}`

const commentsJSON = `[
	{"id": 1, "user": {"login": "alice"}, "body": "rename this", "path": "auth.go", "line": 10},
	{"id": 2, "in_reply_to_id": 1, "user": {"login": "bob"}, "body": "agreed", "path": "auth.go", "line": 10}
]`

func TestPRCmd_Disabled(t *testing.T) {
	flags := &Flags{}
	_, err := runPR(t, flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestPRCmd_AggregateMessage(t *testing.T) {
	flags := newPRFlags(t, prJSON, commentsJSON)

	output, err := runPR(t, flags)
	require.NoError(t, err)
	assert.Contains(t, output, "rename this")
	assert.Contains(t, output, "agreed")
	assert.Contains(t, output, "auth.go")
}

func TestPRCmd_JSONThreads(t *testing.T) {
	flags := newPRFlags(t, prJSON, commentsJSON)

	output, err := runPR(t, flags, "--json")
	require.NoError(t, err)
	assert.Contains(t, output, `"author":"alice"`)
	assert.Contains(t, output, `"replies":1`)
}

func TestPRCmd_ThreadIndexOutOfRange(t *testing.T) {
	flags := newPRFlags(t, prJSON, commentsJSON)

	_, err := runPR(t, flags, "--thread", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestPRCmd_NoComments(t *testing.T) {
	flags := newPRFlags(t, prJSON, `[]`)

	output, err := runPR(t, flags)
	require.NoError(t, err)
	assert.Contains(t, output, "no review comments")
}

func TestPRCmd_RenderedMarkdown(t *testing.T) {
	flags := newPRFlags(t, prJSON, commentsJSON)

	output, err := runPR(t, flags, "--render")
	require.NoError(t, err)
	assert.Contains(t, tuitest.StripANSI(output), "rename this")
}
