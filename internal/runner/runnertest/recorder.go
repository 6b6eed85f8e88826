// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"strings"
	"sync"

	"github.com/t3rnops/t3rnctl/internal/runner"
)

// Response is the scripted result for a command.
type Response struct {
	Output []byte
	Err    error
}

// Recorder records every command and answers from a script keyed by the
// command line prefix. Unscripted commands succeed with no output.
type Recorder struct {
	mu       sync.Mutex
	Commands []runner.Cmd
	script   []scripted
}

type scripted struct {
	prefix string
	resps  []Response
}

// On scripts the responses for commands whose line starts with prefix.
// Responses are consumed in order; the last one repeats.
func (r *Recorder) On(prefix string, resps ...Response) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.script = append(r.script, scripted{prefix: prefix, resps: resps})
	return r
}

// Run implements runner.Runner.
func (r *Recorder) Run(ctx context.Context, c runner.Cmd) error {
	return r.respond(c).Err
}

// Output implements runner.Runner.
func (r *Recorder) Output(ctx context.Context, c runner.Cmd) ([]byte, error) {
	resp := r.respond(c)
	return resp.Output, resp.Err
}

// Lines returns the recorded command lines.
func (r *Recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		out[i] = c.String()
	}
	return out
}

func (r *Recorder) respond(c runner.Cmd) Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Commands = append(r.Commands, c)
	line := c.String()
	for i := range r.script {
		s := &r.script[i]
		if !strings.HasPrefix(line, s.prefix) || len(s.resps) == 0 {
			continue
		}
		resp := s.resps[0]
		if len(s.resps) > 1 {
			s.resps = s.resps[1:]
		}
		return resp
	}
	return Response{}
}
