// Package cli implements the t3rnctl commands and the interactive menu.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/t3rnops/t3rnctl/internal/config"
)

// overrides merges T3RNCTL_* environment variables with the global flags.
var overrides = config.NewOverrides()

var rootCmd = &cobra.Command{
	Use:   "t3rnctl",
	Short: "Deploy and operate a t3rn Executor",
	Long: `t3rnctl installs the t3rn Executor, configures its wallet and RPC
endpoints, runs it in a screen session and reports on its order log.
Run without a subcommand for the interactive menu.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(overrides)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd.Context())
	},
}

// Execute runs the CLI. Interrupts end the run cleanly; any other error is
// printed and returned so main can exit non-zero.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := interrupts.listen(cancel)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		teardown()
		fmt.Fprintln(os.Stdout)
		fmt.Fprintln(os.Stdout, styleWarning.Render("Interrupted, exiting."))
		printScreenHint(os.Stdout, sessionName())
		return nil
	default:
		teardown()
		fmt.Fprintln(os.Stderr, styleError.Render("Error: ")+err.Error())
		return err
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "info", "diagnostic log level (debug, info, warn, error)")
	flags.String("work-dir", "", "executor install directory (default ~/t3rn)")
	flags.String("session", "", "screen session name (default t3rn-executor)")
	_ = overrides.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = overrides.BindPFlag(config.KeyWorkDir, flags.Lookup("work-dir"))
	_ = overrides.BindPFlag(config.KeySessionName, flags.Lookup("session"))

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(rpcCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
