package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rpcCmd = &cobra.Command{
	Use:   "rpc",
	Short: "RPC endpoint utilities",
}

var rpcCheckCmd = &cobra.Command{
	Use:   "check <url>...",
	Short: "Probe JSON-RPC endpoints for liveness",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prober := newProber(cmd.OutOrStdout())
		down := 0
		for _, url := range args {
			if !prober.Probe(cmd.Context(), url, "endpoint") {
				down++
			}
		}
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		if down > 0 {
			return fmt.Errorf("%d of %d endpoints unreachable", down, len(args))
		}
		return nil
	},
}

func init() {
	rpcCmd.AddCommand(rpcCheckCmd)
}
