// Command docgen generates CLI reference documentation from the kandev
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/kdlbs/kandev/internal/commands"
)

func main() {
	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "kandev",
		Usage:     "Review local diffs and turn comments into agent feedback",
		UsageText: "kandev [global options] command [command options]",
		Description: `Kandev opens the working tree's changes in an interactive diff viewer where
you annotate lines, then renders the comments into a feedback message you can
paste back to a coding agent.

Run 'kandev review' to start or resume a review of the current repository.
Run 'kandev pr' to pull review threads from the open GitHub pull request.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("KANDEV_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file, or '-' to buffer to stderr until exit (defaults to <data-dir>/kandev.log)",
				Sources: cli.EnvVars("KANDEV_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("KANDEV_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("KANDEV_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
		},
	}

	root = commands.NewReviewCmd(flags).Register(root)
	root = commands.NewPRCmd(flags).Register(root)
	root = commands.NewLsCmd(flags).Register(root)
	root = commands.NewDoctorCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
