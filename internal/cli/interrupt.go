package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// interruptStack routes Ctrl+C to the innermost cancellable operation,
// falling back to cancelling the whole run.
type interruptStack struct {
	mu       sync.Mutex
	handlers []*interruptHandler
	root     context.CancelFunc
}

type interruptHandler struct {
	cancel context.CancelFunc
}

var interrupts = &interruptStack{}

// listen installs the SIGINT/SIGTERM handler. The returned func removes it.
func (s *interruptStack) listen(root context.CancelFunc) func() {
	s.mu.Lock()
	s.root = root
	s.mu.Unlock()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigs:
				if sig == syscall.SIGTERM {
					root()
					continue
				}
				s.fire()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// push derives a context that the next interrupt cancels instead of the
// root. pop must be called when the operation ends.
func (s *interruptStack) push(parent context.Context) (ctx context.Context, pop func()) {
	ctx, cancel := context.WithCancel(parent)
	h := &interruptHandler{cancel: cancel}
	s.mu.Lock()
	s.handlers = append(s.handlers, h)
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		for i, other := range s.handlers {
			if other == h {
				s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		cancel()
	}
}

func (s *interruptStack) fire() {
	s.mu.Lock()
	var cancel context.CancelFunc
	if n := len(s.handlers); n > 0 {
		cancel = s.handlers[n-1].cancel
		s.handlers = s.handlers[:n-1]
	} else {
		cancel = s.root
	}
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
