package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/t3rnops/t3rnctl/internal/logview"
)

func runMenu(ctx context.Context) error {
	out := prompt.Out()
	for {
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, styleBrand.Render("t3rn Executor control"))
		fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Now:"), time.Now().Format("2006-01-02 15:04:05"))
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, "1. Deploy t3rn Executor")
		fmt.Fprintln(out, "2. View executor logs")
		fmt.Fprintln(out, "0. Exit")

		choice, err := prompt.Ask(ctx, "Select an option: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			if err := runDeploy(ctx, out); err != nil {
				return err
			}
		case "2":
			if err := runLogsMenu(ctx, out); err != nil {
				return err
			}
		case "0":
			fmt.Fprintln(out, "Goodbye.")
			printScreenHint(out, sessionName())
			return nil
		default:
			fmt.Fprintln(out, styleWarning.Render("Invalid option, enter 0, 1 or 2."))
		}
	}
}

func runLogsMenu(ctx context.Context, out io.Writer) error {
	for {
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, styleBrand.Render("Executor logs"))
		fmt.Fprintln(out, "1. Show latest logs")
		fmt.Fprintln(out, "2. Order counts for the last hour")
		fmt.Fprintln(out, "0. Back to main menu")

		choice, err := prompt.Ask(ctx, "Select an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = showLogs(ctx, out, settings.Logs.TailLines, true)
		case "2":
			_, err = showStats(ctx, out, settings.Logs.StatsWindow)
		case "0":
			fmt.Fprintln(out, "Returning to main menu...")
			return nil
		default:
			fmt.Fprintln(out, styleWarning.Render("Invalid option, enter 0, 1 or 2."))
			continue
		}

		// A missing log isn't fatal from the menu.
		if errors.Is(err, logview.ErrLogNotFound) {
			fmt.Fprintln(out, styleError.Render("Error: ")+err.Error())
			continue
		}
		if err != nil {
			return err
		}
	}
}
