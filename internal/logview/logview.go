// Package logview reads the tail of the executor log and follows it as it grows.
package logview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrLogNotFound is returned when the executor log doesn't exist yet.
var ErrLogNotFound = errors.New("log file does not exist; deploy the executor first")

// DefaultLines is how many lines Tail shows by default.
const DefaultLines = 50

const (
	tailChunk    = 32 * 1024
	pollInterval = time.Second
)

// Tail returns the last n lines of path and the file size at the time of
// reading, which is where Follow should resume.
func Tail(path string, n int) ([]string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, ErrLogNotFound
		}
		return nil, 0, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat log: %w", err)
	}
	size := info.Size()
	if n <= 0 || size == 0 {
		return nil, size, nil
	}

	// Read backwards until n+1 newlines are seen or the start is reached.
	var buf []byte
	pos := size
	for pos > 0 && bytes.Count(buf, []byte{'\n'}) <= n {
		step := int64(tailChunk)
		if pos < step {
			step = pos
		}
		pos -= step
		chunk := make([]byte, step)
		if _, err := f.ReadAt(chunk, pos); err != nil && err != io.EOF {
			return nil, 0, fmt.Errorf("read log: %w", err)
		}
		buf = append(chunk, buf...)
	}

	lines := bytes.Split(bytes.TrimSuffix(buf, []byte{'\n'}), []byte{'\n'})
	if pos > 0 {
		// The first element may be a partial line.
		lines = lines[1:]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = string(bytes.TrimSuffix(l, []byte{'\r'}))
	}
	return out, size, nil
}

// Follower streams bytes appended to a file.
type Follower struct {
	Path   string
	Logger zerolog.Logger
}

// Follow writes everything appended to the file after offset to w until ctx
// is cancelled. If the file shrinks it is treated as truncated and read from
// the start. Returns nil when ctx is cancelled.
func (f *Follower) Follow(ctx context.Context, offset int64, w io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so rotation (remove + create) is noticed.
	if err := watcher.Add(filepath.Dir(f.Path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(f.Path), err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		offset, err = f.drain(offset, w)
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(f.Path) {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				f.Logger.Debug().Str("path", f.Path).Str("op", ev.Op.String()).Msg("log replaced")
				offset = 0
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.Logger.Warn().Err(err).Msg("watcher error")
		case <-ticker.C:
		}
	}
}

// drain copies [offset, EOF) to w and returns the new offset.
func (f *Follower) drain(offset int64, w io.Writer) (int64, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	if info.Size() == offset {
		return offset, nil
	}

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log: %w", err)
	}
	n, err := io.Copy(w, io.LimitReader(file, info.Size()-offset))
	offset += n
	if err != nil {
		return offset, fmt.Errorf("copy log: %w", err)
	}
	return offset, nil
}
