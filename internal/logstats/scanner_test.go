package logstats

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "executor.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func fixedOpts(now string) Options {
	ts, _ := time.ParseInLocation(TimestampLayout, now, time.UTC)
	return Options{Now: func() time.Time { return ts }, Location: time.UTC}
}

func TestScanCountsInWindow(t *testing.T) {
	path := writeLog(t,
		`[2024-01-01 00:00:00] {"status":"completed"}`,
		`[2024-01-01 00:00:00] {"status":"pending","order_id":"X","reason":"gas too low"}`,
	)

	stats, err := Scan(context.Background(), path, fixedOpts("2024-01-01 00:30:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.UnfinishedCount())
	assert.Equal(t, []Order{{OrderID: "X", Status: "pending", Reason: "gas too low"}}, stats.Unfinished)
}

func TestScanExcludesOldAndUnstampedLines(t *testing.T) {
	path := writeLog(t,
		`[2023-12-31 22:59:59] {"status":"completed"}`,
		`[2023-12-31 22:00:00] {"status":"failed","order_id":"OLD"}`,
		`{"status":"completed"} no timestamp`,
		`2024-01-01 00:10:00 {"status":"completed"} no bracket`,
		`[2024-13-01 00:10:00] {"status":"completed"} impossible month`,
		`[2023-12-31 23:00:00] {"status":"completed"} exactly at the lower bound`,
		`[2024-01-01 00:00:00] plain line without status`,
	)

	stats, err := Scan(context.Background(), path, fixedOpts("2024-01-01 00:00:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completed)
	assert.Empty(t, stats.Unfinished)
}

func TestScanUnknownFieldsAreIndependent(t *testing.T) {
	path := writeLog(t,
		`[2024-01-01 00:00:00] {"status":"pending","reason":"insufficient balance"}`,
		`[2024-01-01 00:00:01] {"status":"failed","order_id":"0xabc"}`,
		`[2024-01-01 00:00:02] {"status":"failed"}`,
	)

	stats, err := Scan(context.Background(), path, fixedOpts("2024-01-01 00:10:00"))
	require.NoError(t, err)
	assert.Equal(t, []Order{
		{OrderID: Unknown, Status: "pending", Reason: "insufficient balance"},
		{OrderID: "0xabc", Status: "failed", Reason: Unknown},
		{OrderID: Unknown, Status: "failed", Reason: Unknown},
	}, stats.Unfinished)
}

func TestScanNoDedup(t *testing.T) {
	line := `[2024-01-01 00:00:00] {"status":"pending","order_id":"X","reason":"r"}`
	path := writeLog(t, line, line, line)

	stats, err := Scan(context.Background(), path, fixedOpts("2024-01-01 00:00:00"))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.UnfinishedCount())
}

func TestScanIdempotentForFixedNow(t *testing.T) {
	path := writeLog(t,
		`[2024-01-01 00:00:00] {"status":"completed"}`,
		`[2024-01-01 00:05:00] {"status":"failed","order_id":"A","reason":"timeout"}`,
		`[2024-01-01 00:06:00] {"status":"completed"}`,
	)
	opts := fixedOpts("2024-01-01 00:30:00")

	first, err := Scan(context.Background(), path, opts)
	require.NoError(t, err)
	second, err := Scan(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, first.Completed)
}

func TestScanStripsANSI(t *testing.T) {
	path := writeLog(t,
		"[2024-01-01 00:00:00] \x1b[32mINFO\x1b[0m {\"status\":\"completed\"}",
		"[2024-01-01 00:00:00] \x1b[31m{\"status\":\"failed\",\"order_id\":\"\x1b[1mY\x1b[22m\"}\x1b[0m",
	)

	stats, err := Scan(context.Background(), path, fixedOpts("2024-01-01 00:00:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completed)
	require.Len(t, stats.Unfinished, 1)
	assert.Equal(t, "Y", stats.Unfinished[0].OrderID)
}

func TestScanWindowOption(t *testing.T) {
	path := writeLog(t,
		`[2024-01-01 00:00:00] {"status":"completed"}`,
		`[2024-01-01 00:50:00] {"status":"completed"}`,
	)
	opts := fixedOpts("2024-01-01 01:00:00")
	opts.Window = 15 * time.Minute

	stats, err := Scan(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, "2024-01-01 00:45:00", stats.From.Format(TimestampLayout))
	assert.Equal(t, "2024-01-01 01:00:00", stats.To.Format(TimestampLayout))
}

func TestScanMissingFile(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "nope.log"), Options{})
	assert.Error(t, err)
}

func TestScanCancelled(t *testing.T) {
	path := writeLog(t, `[2024-01-01 00:00:00] {"status":"completed"}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, path, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLineStatus(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`{"status":"completed"}`, StatusCompleted},
		{`{"status" : "pending"}`, ""},
		{`{"status":"pending","prev":{"status":"completed"}}`, StatusPending},
		{`{"prev":{"status":"completed"},"status":"failed"}`, StatusCompleted},
		{`{"status":"failed","reason":"x"}`, StatusFailed},
		{`{"status":"bidding"}`, ""},
		{`plain text`, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LineStatus(tt.line), tt.line)
	}
}

func TestScanToleratesLongLines(t *testing.T) {
	long := `[2024-01-01 00:00:00] ` + strings.Repeat("x", 2<<20)
	path := writeLog(t,
		`[2024-01-01 00:00:00] {"status":"completed"}`,
		long,
		`[2024-01-01 00:00:01] {"status":"completed"}`,
	)

	stats, err := Scan(context.Background(), path, fixedOpts("2024-01-01 00:30:00"))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Completed)
	assert.Empty(t, stats.Unfinished)
}

func TestScanLongLineWithStatus(t *testing.T) {
	long := `[2024-01-01 00:00:00] {"status":"failed","order_id":"BIG","pad":"` + strings.Repeat("y", 2<<20) + `"}`
	path := writeLog(t, long)

	stats, err := Scan(context.Background(), path, fixedOpts("2024-01-01 00:30:00"))
	require.NoError(t, err)
	require.Len(t, stats.Unfinished, 1)
	assert.Equal(t, "BIG", stats.Unfinished[0].OrderID)
}

func TestScanCountsBothStatusesOnOneLine(t *testing.T) {
	path := writeLog(t,
		`[2024-01-01 00:00:00] {"status":"pending","order_id":"X","prev":{"status":"completed"}}`,
	)

	stats, err := Scan(context.Background(), path, fixedOpts("2024-01-01 00:30:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, []Order{{OrderID: "X", Status: StatusPending, Reason: Unknown}}, stats.Unfinished)
}

func TestScanMatchesMarkersLiterally(t *testing.T) {
	path := writeLog(t,
		`[2024-01-01 00:00:00] {"status": "completed"}`,
		`[2024-01-01 00:00:00] {"status":"failed","order_id": "spaced","reason":"nonce"}`,
	)

	stats, err := Scan(context.Background(), path, fixedOpts("2024-01-01 00:30:00"))
	require.NoError(t, err)
	assert.Zero(t, stats.Completed)
	assert.Equal(t, []Order{{OrderID: Unknown, Status: StatusFailed, Reason: "nonce"}}, stats.Unfinished)
}

func TestScanLastLineWithoutNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "executor.log")
	require.NoError(t, os.WriteFile(path, []byte(`[2024-01-01 00:00:00] {"status":"completed"}`), 0644))

	stats, err := Scan(context.Background(), path, fixedOpts("2024-01-01 00:30:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Completed)
}
