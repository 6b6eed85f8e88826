package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/t3rnops/t3rnctl/internal/config"
	"github.com/t3rnops/t3rnctl/internal/logview"
	"github.com/t3rnops/t3rnctl/internal/tui"
)

var (
	logsLines    int
	logsTUI      bool
	logsNoFollow bool
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the executor log and follow new lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		lines := logsLines
		if lines <= 0 {
			lines = settings.Logs.TailLines
		}
		if logsTUI {
			path, err := executorLog()
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), path, lines, logger)
		}
		return showLogs(cmd.Context(), cmd.OutOrStdout(), lines, !logsNoFollow)
	},
}

func init() {
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 0, "number of lines to show (default from settings)")
	logsCmd.Flags().BoolVar(&logsTUI, "tui", false, "open the full-screen viewer")
	logsCmd.Flags().BoolVar(&logsNoFollow, "no-follow", false, "print the tail and exit")
}

// executorLog returns the executor log path, or ErrLogNotFound.
func executorLog() (string, error) {
	path := config.ExecutorLogFile(workDir)
	if !config.FileExists(path) {
		return "", fmt.Errorf("%w: %s", logview.ErrLogNotFound, path)
	}
	return path, nil
}

// showLogs prints the last lines of the log and, if follow is set, streams
// new output until Ctrl+C, which returns to the caller.
func showLogs(ctx context.Context, out io.Writer, lines int, follow bool) error {
	path, err := executorLog()
	if err != nil {
		return err
	}

	tail, offset, err := logview.Tail(path, lines)
	if err != nil {
		return err
	}
	if follow {
		fmt.Fprintln(out, styleHint.Render(fmt.Sprintf("Last %d lines of %s (Ctrl+C to stop):", lines, path)))
	}
	for _, line := range tail {
		fmt.Fprintln(out, line)
	}
	if !follow {
		return nil
	}

	followCtx, pop := interrupts.push(ctx)
	defer pop()

	f := &logview.Follower{Path: path, Logger: logger}
	if err := f.Follow(followCtx, offset, out); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, styleHint.Render("Stopped viewing logs."))
	return nil
}

