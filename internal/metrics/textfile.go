// Package metrics exports order statistics in the Prometheus text format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/t3rnops/t3rnctl/internal/logstats"
)

// Collectors for one stats run. A fresh registry is used per write so the
// file only ever holds the latest scan.
type Collectors struct {
	Completed  prometheus.Gauge
	Unfinished *prometheus.GaugeVec
	Window     prometheus.Gauge
	ScannedAt  prometheus.Gauge
}

// NewCollectors registers the order gauges on reg.
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		Completed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "t3rn_executor_orders_completed",
			Help: "Completed order lines in the stats window",
		}),
		Unfinished: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "t3rn_executor_orders_unfinished",
			Help: "Pending or failed order lines in the stats window",
		}, []string{"status"}),
		Window: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "t3rn_executor_stats_window_seconds",
			Help: "Length of the stats window",
		}),
		ScannedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "t3rn_executor_stats_timestamp_seconds",
			Help: "Unix time the log was scanned",
		}),
	}
	reg.MustRegister(c.Completed, c.Unfinished, c.Window, c.ScannedAt)
	return c
}

// Observe sets the gauges from a scan.
func (c *Collectors) Observe(stats *logstats.Stats) {
	c.Completed.Set(float64(stats.Completed))

	counts := map[string]int{logstats.StatusPending: 0, logstats.StatusFailed: 0}
	for _, o := range stats.Unfinished {
		counts[o.Status]++
	}
	for status, n := range counts {
		c.Unfinished.WithLabelValues(status).Set(float64(n))
	}

	c.Window.Set(stats.To.Sub(stats.From).Seconds())
	c.ScannedAt.Set(float64(stats.To.Unix()))
}

// WriteTextfile writes stats to path atomically, for node_exporter's
// textfile collector.
func WriteTextfile(path string, stats *logstats.Stats) error {
	reg := prometheus.NewRegistry()
	NewCollectors(reg).Observe(stats)
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
