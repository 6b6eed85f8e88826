package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Download, configure and start the latest executor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeploy(cmd.Context(), cmd.OutOrStdout())
	},
}

func runDeploy(ctx context.Context, out io.Writer) error {
	info, err := newOrchestrator(out).Run(ctx)
	if err != nil {
		return fmt.Errorf("deployment failed: %w", err)
	}
	if info != nil {
		fmt.Fprintln(out, styleSuccess.Render("✓ ")+"Executor "+styleVersion.Render(info.ReleaseTag)+" is running.")
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Deployment:"), styleValue.Render(info.DeploymentID))
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Logs:"), styleValue.Render(info.LogFile))
	}
	printScreenHint(out, sessionName())
	return nil
}
