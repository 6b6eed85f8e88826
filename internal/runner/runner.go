// Package runner executes external commands (apt, screen) on behalf of the installer.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/charmbracelet/x/ansi"
	"github.com/creack/pty"
	"github.com/muesli/cancelreader"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Cmd describes one external command invocation.
type Cmd struct {
	Name string
	Args []string
	Dir  string

	// Interactive commands are attached to the user's terminal through a
	// pseudo-terminal when one is available.
	Interactive bool
	// Quiet commands only write to the diagnostic log.
	Quiet bool
}

// String renders the command line for messages and logs.
func (c Cmd) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner runs external commands.
type Runner interface {
	// Run executes the command, streaming its output.
	Run(ctx context.Context, c Cmd) error
	// Output executes the command and returns its combined output.
	Output(ctx context.Context, c Cmd) ([]byte, error)
}

// ExitError is returned when a command ran but exited non-zero.
type ExitError struct {
	Cmd    string
	Code   int
	Output []byte
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Cmd, e.Code)
}

// Exec runs commands with os/exec.
type Exec struct {
	Stdin  *os.File
	Stdout io.Writer
	Logger zerolog.Logger
}

// NewExec creates a runner attached to the process's standard streams.
func NewExec(logger zerolog.Logger) *Exec {
	return &Exec{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Logger: logger.With().Str("component", "runner").Logger(),
	}
}

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, c Cmd) error {
	e.Logger.Debug().Str("cmd", c.String()).Str("dir", c.Dir).Msg("run")
	lw := &lineLogger{logger: e.Logger, cmd: c.Name}
	defer lw.Flush()

	if c.Interactive && !c.Quiet && e.isTerminal() {
		return e.runPTY(ctx, c, lw)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if c.Quiet {
		cmd.Stdout = lw
		cmd.Stderr = lw
	} else {
		if e.Stdin != nil {
			cmd.Stdin = e.Stdin
		}
		// One writer for both streams so exec copies them on a single goroutine.
		w := io.MultiWriter(e.Stdout, lw)
		cmd.Stdout = w
		cmd.Stderr = w
	}
	return wrapExit(c, cmd.Run(), nil)
}

// runPTY runs c under a pseudo-terminal so progress output renders, while
// keeping a copy of the output for the diagnostic log.
func (e *Exec) runPTY(ctx context.Context, c Cmd, lw io.Writer) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("start %s: %w", c.Name, err)
	}
	defer ptmx.Close()
	_ = pty.InheritSize(e.Stdin, ptmx)

	oldState, err := term.MakeRaw(int(e.Stdin.Fd()))
	if err == nil {
		defer term.Restore(int(e.Stdin.Fd()), oldState)
	}

	in, err := cancelreader.NewReader(e.Stdin)
	if err == nil {
		go func() { _, _ = io.Copy(ptmx, in) }()
		defer in.Cancel()
	}

	copied := make(chan struct{})
	go func() {
		// Reading the master returns EIO once the child exits.
		_, _ = io.Copy(io.MultiWriter(e.Stdout, lw), ptmx)
		close(copied)
	}()

	waitErr := cmd.Wait()
	_ = ptmx.Close()
	<-copied
	return wrapExit(c, waitErr, nil)
}

// Output implements Runner.
func (e *Exec) Output(ctx context.Context, c Cmd) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	e.Logger.Debug().Str("cmd", c.String()).Int("bytes", buf.Len()).Err(err).Msg("output")
	return buf.Bytes(), wrapExit(c, err, buf.Bytes())
}

func (e *Exec) isTerminal() bool {
	if e.Stdin == nil || !term.IsTerminal(int(e.Stdin.Fd())) {
		return false
	}
	f, ok := e.Stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func wrapExit(c Cmd, err error, output []byte) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			code = 128 + int(status.Signal())
		}
		return &ExitError{Cmd: c.String(), Code: code, Output: output}
	}
	return fmt.Errorf("%s: %w", c.String(), err)
}

// lineLogger writes each complete output line to the diagnostic log.
type lineLogger struct {
	logger zerolog.Logger
	cmd    string
	buf    []byte
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.buf = append(l.buf, p...)
	for {
		i := bytes.IndexAny(l.buf, "\r\n")
		if i < 0 {
			break
		}
		l.emit(l.buf[:i])
		l.buf = l.buf[i+1:]
	}
	return len(p), nil
}

// Flush logs any trailing partial line.
func (l *lineLogger) Flush() {
	if len(l.buf) > 0 {
		l.emit(l.buf)
		l.buf = nil
	}
}

func (l *lineLogger) emit(line []byte) {
	text := strings.TrimSpace(ansi.Strip(string(line)))
	if text == "" {
		return
	}
	l.logger.Debug().Str("cmd", l.cmd).Msg(text)
}
