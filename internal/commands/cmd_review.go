package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/kdlbs/kandev/internal/core/logging"
	"github.com/kdlbs/kandev/internal/kandev"
	reviewview "github.com/kdlbs/kandev/internal/tui/views/review"
	"github.com/kdlbs/kandev/pkg/profiler"
)

type ReviewCmd struct {
	flags *Flags

	// flags
	diffContext  string
	name         string
	profilerPort int
}

// NewReviewCmd creates a new review command.
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application.
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Review local changes with inline comments",
		UsageText: "kandev review [--context uncommitted|staged|branch]",
		Description: `Opens an interactive diff review for the current repository.

Comments are saved per line range and survive restarts: re-running the
command against the same diff resumes the open session. Finalizing the
review turns the comments into a feedback document.

Examples:
  kandev review                       # review uncommitted changes
  kandev review --context staged      # review the index
  kandev review --context branch      # review the branch against its base`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "context",
				Usage:       "diff context: uncommitted, staged, or branch",
				Destination: &cmd.diffContext,
			},
			&cli.StringFlag{
				Name:        "name",
				Usage:       "session name (defaults to the current branch)",
				Destination: &cmd.name,
			},
			&cli.IntFlag{
				Name:        "profiler-port",
				Usage:       "serve pprof on this port while the TUI runs (0 = disabled)",
				Hidden:      true,
				Destination: &cmd.profilerPort,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	if cmd.profilerPort > 0 {
		profServer := profiler.New(cmd.profilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shut down profiler server")
			}
		}()
		log.Info().Str("addr", profServer.Addr()).Msg("profiler endpoint available")
	}

	svc := cmd.flags.Review

	diffText, description, err := svc.LoadDiff(ctx, dir, cmd.diffContext)
	if err != nil {
		if errors.Is(err, kandev.ErrNoChanges) {
			_, _ = fmt.Fprintln(c.Root().Writer, "No changes to review")
			return nil
		}
		return err
	}

	name := cmd.name
	if name == "" {
		name = svc.SessionName(ctx, dir)
	}

	sess, resumed, err := svc.StartSession(ctx, name, cmd.diffContext, diffText)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	if resumed {
		log.Info().Str("session", sess.ID).Msg("resuming review session")
	}

	files, err := kandev.ParseDiff(diffText)
	if err != nil {
		return err
	}

	comments, err := svc.Comments(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("load comments: %w", err)
	}

	m := reviewview.NewModel(ctx, reviewview.Params{
		Service:         svc,
		Session:         sess,
		Dir:             dir,
		DiffContext:     cmd.diffContext,
		DiffDescription: description,
		Files:           files,
		Comments:        comments,
		Config:          cmd.flags.Config,
		Logger:          logging.Component("review-tui"),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run review TUI: %w", err)
	}

	result, ok := final.(reviewview.Model)
	if !ok {
		return nil
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("finalize review: %w", err)
	}

	return cmd.deliverFeedback(c, result)
}

// deliverFeedback routes the finalized feedback to the chosen destination.
func (cmd *ReviewCmd) deliverFeedback(c *cli.Command, result reviewview.Model) error {
	feedback := result.Feedback()
	if feedback == "" {
		return nil
	}

	switch result.Action() {
	case reviewview.FinalizeActionClipboard:
		if err := clipboard.WriteAll(feedback); err != nil {
			// Clipboard may be unavailable over SSH; the feedback still
			// goes to the terminal so it is not lost.
			log.Warn().Err(err).Msg("copy to clipboard failed, printing instead")
			break
		}
		_, _ = fmt.Fprintln(c.Root().Writer, "Review feedback copied to clipboard")
		return nil
	}

	_, _ = fmt.Fprintln(c.Root().Writer, feedback)
	return nil
}
