package cli

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/t3rnops/t3rnctl/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the recorded deployment, session state and configured RPCs",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		label := func(name, value string) {
			fmt.Fprintf(out, "  %s %s\n", styleLabel.Render(fmt.Sprintf("%-12s", name+":")), styleValue.Render(value))
		}

		info, err := config.LoadDeploymentInfo()
		if err != nil {
			return fmt.Errorf("failed to read deployment record: %w", err)
		}

		fmt.Fprintln(out, styleBrand.Render("t3rn Executor"))
		if info == nil {
			fmt.Fprintln(out, styleHint.Render("  No deployment recorded. Run 't3rnctl deploy'."))
		} else {
			label("Version", info.ReleaseTag)
			label("Deployment", info.DeploymentID)
			label("Started", info.StartedAt.Local().Format(time.RFC3339))
			label("Wallet", info.Address)
			label("Binary dir", info.BinDir)
			if len(info.Skipped) > 0 {
				fmt.Fprintf(out, "  %s %v\n", styleWarning.Render(fmt.Sprintf("%-12s", "Skipped:")), info.Skipped)
			}
		}

		name := sessionName()
		if _, err := exec.LookPath("screen"); err != nil {
			label("Session", name+" (screen not installed)")
		} else {
			running, err := newSessions().Exists(cmd.Context(), name)
			switch {
			case err != nil:
				label("Session", fmt.Sprintf("%s (unknown: %v)", name, err))
			case running:
				fmt.Fprintf(out, "  %s %s\n", styleLabel.Render(fmt.Sprintf("%-12s", "Session:")), styleSuccess.Render(name+" running"))
			default:
				fmt.Fprintf(out, "  %s %s\n", styleLabel.Render(fmt.Sprintf("%-12s", "Session:")), styleWarning.Render(name+" not running"))
			}
		}

		logPath := config.ExecutorLogFile(workDir)
		if st, err := os.Stat(logPath); err == nil {
			label("Log", fmt.Sprintf("%s (%d bytes, modified %s)", logPath, st.Size(), st.ModTime().Format(time.RFC3339)))
		} else {
			label("Log", logPath+" (missing)")
		}

		envPath := config.EnvFile(workDir)
		if !config.FileExists(envPath) {
			return nil
		}
		env, err := config.ReadEnvFile(envPath)
		if err != nil {
			return err
		}
		urls, err := config.ConfiguredRPCs(env)
		if err != nil {
			fmt.Fprintln(out, styleWarning.Render("  RPC config unreadable: ")+err.Error())
			return nil
		}

		fmt.Fprintln(out, styleBrand.Render("RPC endpoints"))
		chains := make([]string, 0, len(urls))
		for chain := range urls {
			chains = append(chains, chain)
		}
		sort.Strings(chains)
		for _, chain := range chains {
			url := urls[chain]
			if url == "" {
				url = styleWarning.Render("skipped")
			}
			fmt.Fprintf(out, "  %s %s\n", styleLabel.Render(chain+":"), url)
		}
		return nil
	},
}
