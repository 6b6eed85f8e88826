package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/t3rnops/t3rnctl/internal/logstats"
	"github.com/t3rnops/t3rnctl/internal/metrics"
)

var (
	statsWindow   time.Duration
	statsTextfile string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count completed and unfinished orders in the recent log",
	RunE: func(cmd *cobra.Command, args []string) error {
		window := statsWindow
		if window <= 0 {
			window = settings.Logs.StatsWindow
		}
		stats, err := showStats(cmd.Context(), cmd.OutOrStdout(), window)
		if err != nil || statsTextfile == "" {
			return err
		}
		return metrics.WriteTextfile(statsTextfile, stats)
	},
}

func init() {
	statsCmd.Flags().DurationVar(&statsWindow, "window", 0, "trailing window to count (default from settings, 1h)")
	statsCmd.Flags().StringVar(&statsTextfile, "textfile", "", "also write Prometheus gauges to this file (node_exporter textfile collector)")
}

func showStats(ctx context.Context, out io.Writer, window time.Duration) (*logstats.Stats, error) {
	path, err := executorLog()
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "Counting orders...")
	stats, err := logstats.Scan(ctx, path, logstats.Options{Window: window})
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	logger.Info().Int("completed", stats.Completed).Int("unfinished", stats.UnfinishedCount()).Dur("window", window).Msg("order stats")
	printStats(out, stats)
	return stats, nil
}

func printStats(out io.Writer, stats *logstats.Stats) {
	const layout = logstats.TimestampLayout
	fmt.Fprintf(out, "%s %s to %s\n", styleLabel.Render("Window:"), stats.From.Format(layout), stats.To.Format(layout))
	fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Completed orders:"), badgeCompleted.Render(fmt.Sprint(stats.Completed)))
	fmt.Fprintf(out, "%s %s\n", styleLabel.Render("Unfinished orders:"), styleValue.Render(fmt.Sprint(stats.UnfinishedCount())))

	if stats.UnfinishedCount() == 0 {
		return
	}
	fmt.Fprintln(out, "Unfinished order details:")
	for _, o := range stats.Unfinished {
		badge := badgePending
		if o.Status == logstats.StatusFailed {
			badge = badgeFailed
		}
		reason := o.Reason
		if reason == logstats.Unknown {
			reason = "unknown (not given in the log)"
		}
		fmt.Fprintf(out, "  %s %s  %s %s  %s %s\n",
			styleLabel.Render("order:"), styleValue.Render(o.OrderID),
			styleLabel.Render("status:"), badge.Render(o.Status),
			styleLabel.Render("reason:"), reason)
	}
}
