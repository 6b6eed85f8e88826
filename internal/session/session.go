// Package session manages the named screen session the executor runs in.
package session

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/t3rnops/t3rnctl/internal/runner"
)

// Spec describes a session to launch.
type Spec struct {
	Name    string
	Dir     string // working directory of the command
	Command string // program to exec, relative to Dir
	EnvFile string // sourced and exported before exec
	LogFile string // stdout and stderr are appended here
}

// Manager creates, lists and terminates named sessions.
type Manager interface {
	Exists(ctx context.Context, name string) (bool, error)
	Start(ctx context.Context, spec Spec) error
	Stop(ctx context.Context, name string) error
}

// Screen implements Manager with GNU screen.
type Screen struct {
	Runner runner.Runner
	Logger zerolog.Logger
}

// NewScreen creates a screen-backed manager.
func NewScreen(r runner.Runner, logger zerolog.Logger) *Screen {
	return &Screen{
		Runner: r,
		Logger: logger.With().Str("component", "session").Logger(),
	}
}

// Exists reports whether a session with exactly this name is listed.
func (s *Screen) Exists(ctx context.Context, name string) (bool, error) {
	out, err := s.Runner.Output(ctx, runner.Cmd{Name: "screen", Args: []string{"-list"}})
	if err != nil {
		// screen -list exits 1 when there are no sessions at all.
		var exitErr *runner.ExitError
		if !errors.As(err, &exitErr) {
			return false, fmt.Errorf("list screen sessions: %w", err)
		}
		if len(out) == 0 {
			out = exitErr.Output
		}
	}
	return ListContains(out, name), nil
}

// Start launches spec detached.
func (s *Screen) Start(ctx context.Context, spec Spec) error {
	if spec.Name == "" || spec.Command == "" {
		return errors.New("session name and command are required")
	}
	script := LaunchScript(spec)
	s.Logger.Info().Str("session", spec.Name).Str("dir", spec.Dir).Str("log", spec.LogFile).Msg("starting session")

	cmd := runner.Cmd{Name: "screen", Args: []string{"-dmS", spec.Name, "bash", "-c", script}, Dir: spec.Dir}
	if _, err := s.Runner.Output(ctx, cmd); err != nil {
		return fmt.Errorf("start screen session %s: %w", spec.Name, err)
	}
	return nil
}

// Stop asks the session to quit.
func (s *Screen) Stop(ctx context.Context, name string) error {
	s.Logger.Info().Str("session", name).Msg("stopping session")
	if _, err := s.Runner.Output(ctx, runner.Cmd{Name: "screen", Args: []string{"-S", name, "-X", "quit"}}); err != nil {
		return fmt.Errorf("stop screen session %s: %w", name, err)
	}
	return nil
}

// LaunchScript returns the bash script run inside the session: export the
// env file, then replace the shell with the command, appending its output
// to the log file.
func LaunchScript(spec Spec) string {
	var b strings.Builder
	if spec.EnvFile != "" {
		fmt.Fprintf(&b, "set -a; . %s; set +a; ", shellQuote(spec.EnvFile))
	}
	b.WriteString("exec ")
	b.WriteString(shellQuote(spec.Command))
	if spec.LogFile != "" {
		fmt.Fprintf(&b, " >> %s 2>&1", shellQuote(spec.LogFile))
	}
	return b.String()
}

// ListContains parses `screen -list` output and reports whether a session
// named name is present. Session lines look like "\t12345.name\t(Detached)".
func ListContains(listing []byte, name string) bool {
	scanner := bufio.NewScanner(bytes.NewReader(listing))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		pid, session, ok := strings.Cut(fields[0], ".")
		if !ok || pid == "" || !isDigits(pid) {
			continue
		}
		if session == name {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("/._-", r))
	}) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
