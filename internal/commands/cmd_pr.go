package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/kdlbs/kandev/internal/core/github"
	"github.com/kdlbs/kandev/pkg/iojson"
)

type PRCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	render     bool
	thread     int
}

// NewPRCmd creates a new pr command.
func NewPRCmd(flags *Flags) *PRCmd {
	return &PRCmd{flags: flags}
}

// Register adds the pr command to the application.
func (cmd *PRCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "pr",
		Usage:     "Show review feedback for the current branch's pull request",
		UsageText: "kandev pr [--json] [--thread N]",
		Description: `Fetches the open pull request for the current branch via the gh CLI,
groups its review comments into threads, and prints them as a single
feedback message.

Use --json for LLM-friendly output, or --thread to print one thread.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output threads as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.IntFlag{
				Name:        "thread",
				Usage:       "print only the thread at this index (0-based)",
				Value:       -1,
				Destination: &cmd.thread,
			},
			&cli.BoolFlag{
				Name:        "render",
				Usage:       "render the feedback as styled markdown",
				Destination: &cmd.render,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PRCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.flags.PR == nil {
		return errors.New("pull request integration is disabled (is gh installed?)")
	}

	feedback, err := cmd.flags.PR.Fetch(ctx)
	if err != nil {
		if errors.Is(err, github.ErrNoPR) {
			_, _ = fmt.Fprintln(os.Stderr, "No open pull request for the current branch")
			return nil
		}
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for i, t := range feedback.Threads {
			info := threadInfo{
				Index:   i,
				Path:    t.Root.Path,
				Line:    t.Root.Line,
				Author:  t.Root.User.Login,
				Body:    t.Root.Body,
				Replies: len(t.Replies),
				URL:     t.Root.HTMLURL,
			}
			if err := iojson.WriteLine(out, info); err != nil {
				return fmt.Errorf("encode thread: %w", err)
			}
		}
		return nil
	}

	if cmd.thread >= 0 {
		msg, err := cmd.flags.PR.ThreadMessage(feedback, cmd.thread)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, cmd.display(msg))
		return nil
	}

	if len(feedback.Threads) == 0 {
		_, _ = fmt.Fprintf(out, "PR #%d has no review comments\n", feedback.PR.Number)
		return nil
	}

	_, _ = fmt.Fprintln(out, cmd.display(feedback.Message))
	return nil
}

// display optionally renders markdown for terminal reading.
func (cmd *PRCmd) display(msg string) string {
	if !cmd.render {
		return msg
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return msg
	}

	rendered, err := r.Render(msg)
	if err != nil {
		return msg
	}
	return strings.TrimRight(rendered, "\n")
}

// threadInfo is the JSON output format for kandev pr --json.
type threadInfo struct {
	Index   int    `json:"index"`
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Author  string `json:"author"`
	Body    string `json:"body"`
	Replies int    `json:"replies"`
	URL     string `json:"url"`
}
