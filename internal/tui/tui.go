// Package tui implements the full-screen executor log viewer.
package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/t3rnops/t3rnctl/internal/logview"
)

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// followWriter forwards followed bytes to the program.
type followWriter struct {
	ref *programRef
}

func (w followWriter) Write(p []byte) (int, error) {
	data := make([]byte, len(p))
	copy(data, p)
	w.ref.Send(LogDataMsg{Data: data})
	return len(p), nil
}

// Run shows the last lines of the log at path and follows it until the
// operator quits or ctx is cancelled.
func Run(ctx context.Context, path string, lines int, logger zerolog.Logger) error {
	initial, offset, err := logview.Tail(path, lines)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ref := &programRef{}
	model := NewModel(path, initial)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	ref.Set(p)
	defer ref.Clear()

	follower := &logview.Follower{Path: path, Logger: logger}
	go func() {
		if err := follower.Follow(ctx, offset, followWriter{ref: ref}); err != nil {
			ref.Send(FollowErrMsg{Err: err})
		}
	}()

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
