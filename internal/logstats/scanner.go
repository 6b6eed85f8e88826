// Package logstats counts completed and unfinished executor orders in a
// trailing window of the executor log.
package logstats

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// Unknown is reported for fields missing from a log line.
const Unknown = "unknown"

// TimestampLayout is the executor's bracketed line prefix, without the bracket.
const TimestampLayout = "2006-01-02 15:04:05"

// Order statuses reported by the executor.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// DefaultWindow is the trailing interval counted by Scan.
const DefaultWindow = time.Hour

var (
	timestampRe = regexp.MustCompile(`^\[(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	orderIDRe   = regexp.MustCompile(`"order_id":"([^"]*)"`)
	reasonRe    = regexp.MustCompile(`"reason":"([^"]*)"`)
)

// completedMarker is matched literally, as the executor writes it.
const completedMarker = `"status":"completed"`

// Order is one unfinished order line.
type Order struct {
	OrderID string
	Status  string
	Reason  string
}

// Stats is the result of a scan.
type Stats struct {
	From       time.Time
	To         time.Time
	Completed  int
	Unfinished []Order
}

// UnfinishedCount returns the number of pending or failed lines.
func (s *Stats) UnfinishedCount() int {
	return len(s.Unfinished)
}

// Options controls a scan.
type Options struct {
	// Now returns the end of the window. Defaults to time.Now.
	Now func() time.Time
	// Window is the length of the trailing interval. Defaults to one hour.
	Window time.Duration
	// Location used to interpret log timestamps. Defaults to time.Local.
	Location *time.Location
}

// Scan reads the log at path once and counts in-window lines. A line is in
// the window when it starts with "[YYYY-MM-DD HH:MM:SS" and that time is not
// before now-window; other lines are ignored. Repeated lines for the same
// order are counted separately.
func Scan(ctx context.Context, path string, opts Options) (*Stats, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	window := opts.Window
	if window <= 0 {
		window = DefaultWindow
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	to := now().In(loc)
	stats := &Stats{From: to.Add(-window), To: to}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	// Lines are read whole, however long; only I/O errors abort.
	r := bufio.NewReaderSize(f, 64*1024)
	for n := 0; ; n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			stats.add(ansi.Strip(strings.TrimRight(line, "\r\n")), loc)
		}
		if err == io.EOF {
			return stats, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
	}
}

// add counts completed and unfinished markers independently, so a line
// carrying both is counted in both.
func (s *Stats) add(line string, loc *time.Location) {
	ts, ok := lineTime(line, loc)
	if !ok || ts.Before(s.From) {
		return
	}

	if strings.Contains(line, completedMarker) {
		s.Completed++
	}
	if status := unfinishedStatus(line); status != "" {
		s.Unfinished = append(s.Unfinished, Order{
			OrderID: field(orderIDRe, line),
			Status:  status,
			Reason:  field(reasonRe, line),
		})
	}
}

// unfinishedStatus returns pending or failed, whichever marker comes first.
func unfinishedStatus(line string) string {
	return firstStatus(line, StatusPending, StatusFailed)
}

// LineStatus returns the status of the first marker on an ANSI-free line,
// or "".
func LineStatus(line string) string {
	return firstStatus(line, StatusCompleted, StatusPending, StatusFailed)
}

func firstStatus(line string, statuses ...string) string {
	best, found := -1, ""
	for _, status := range statuses {
		i := strings.Index(line, statusMarker(status))
		if i >= 0 && (best < 0 || i < best) {
			best, found = i, status
		}
	}
	return found
}

func statusMarker(status string) string {
	return `"status":"` + status + `"`
}

func lineTime(line string, loc *time.Location) (time.Time, bool) {
	m := timestampRe.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(TimestampLayout, m[1], loc)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func field(re *regexp.Regexp, line string) string {
	if m := re.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return Unknown
}
