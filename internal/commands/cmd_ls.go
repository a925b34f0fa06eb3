package commands

import (
	"context"
	"fmt"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/kdlbs/kandev/internal/core/review"
	"github.com/kdlbs/kandev/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
	all        bool
}

// NewLsCmd creates a new ls command.
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application.
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List review sessions",
		UsageText: "kandev ls [--all] [--json]",
		Description: `Displays a table of review sessions with their diff context, comment
count, and state. Finalized sessions are hidden unless --all is given.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "include finalized sessions",
				Destination: &cmd.all,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	sessions, err := cmd.flags.Review.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if !cmd.all {
		sessions = slices.DeleteFunc(sessions, review.Session.IsFinalized)
	}

	if len(sessions) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No review sessions found\n")
		}
		return nil
	}

	slices.SortFunc(sessions, func(a, b review.Session) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, s := range sessions {
			if err := iojson.WriteLine(out, cmd.buildSessionInfo(ctx, s)); err != nil {
				return fmt.Errorf("encode session: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCONTEXT\tCOMMENTS\tSTATE\tCREATED")

	for _, s := range sessions {
		state := "open"
		if s.IsFinalized() {
			state = "finalized"
		}
		count := cmd.commentCount(ctx, s.ID)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			s.Name, s.DiffContext, count, state, s.CreatedAt.Format(time.DateTime))
	}

	return w.Flush()
}

// sessionInfo is the JSON output format for kandev ls --json.
type sessionInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Context   string `json:"context"`
	Comments  int    `json:"comments"`
	Finalized bool   `json:"finalized"`
	CreatedAt string `json:"created_at"`
}

func (cmd *LsCmd) buildSessionInfo(ctx context.Context, s review.Session) sessionInfo {
	return sessionInfo{
		ID:        s.ID,
		Name:      s.Name,
		Context:   s.DiffContext,
		Comments:  cmd.commentCount(ctx, s.ID),
		Finalized: s.IsFinalized(),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}

func (cmd *LsCmd) commentCount(ctx context.Context, sessionID string) int {
	comments, err := cmd.flags.Review.Comments(ctx, sessionID)
	if err != nil {
		return 0
	}
	return len(comments)
}
