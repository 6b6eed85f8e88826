// Package console reads operator input: plain lines, yes/no answers, and
// secrets that are not echoed.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrClosed is returned when input ends before an answer is read.
var ErrClosed = errors.New("input closed")

// Console prompts on Out and reads answers from In.
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	inFd  int
	isTTY bool

	// pending holds a line read that outlived a cancelled Ask.
	pending chan answer
}

// New creates a console over arbitrary streams. Secrets are read as plain lines.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, inFd: -1}
}

// NewTerminal creates a console over the process's standard streams.
func NewTerminal() *Console {
	c := New(os.Stdin, os.Stdout)
	c.inFd = int(os.Stdin.Fd())
	c.isTTY = term.IsTerminal(c.inFd)
	return c
}

// Out returns the writer prompts go to.
func (c *Console) Out() io.Writer {
	return c.out
}

type answer struct {
	text string
	err  error
}

// Ask prints prompt and returns the trimmed line entered.
// It returns ctx.Err() if the context ends first.
func (c *Console) Ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)

	if c.pending == nil {
		ch := make(chan answer, 1)
		go func() {
			line, err := c.in.ReadString('\n')
			if err == io.EOF && line != "" {
				err = nil
			}
			ch <- answer{text: strings.TrimSpace(line), err: err}
		}()
		c.pending = ch
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-c.pending:
		c.pending = nil
		if a.err == io.EOF {
			return "", ErrClosed
		}
		return a.text, a.err
	}
}

// Confirm asks a y/n question. Only "y" or "yes" count as yes.
func (c *Console) Confirm(ctx context.Context, prompt string) (bool, error) {
	resp, err := c.Ask(ctx, prompt)
	if err != nil {
		return false, err
	}
	resp = strings.ToLower(resp)
	return resp == "y" || resp == "yes", nil
}

// AskSecret prints prompt and reads a line without echoing it when attached
// to a terminal. The terminal state is restored if the context ends first.
// Input already buffered as type-ahead is consumed as a plain line.
func (c *Console) AskSecret(ctx context.Context, prompt string) (string, error) {
	if !c.isTTY || c.pending != nil || c.in.Buffered() > 0 {
		return c.Ask(ctx, prompt)
	}
	fmt.Fprint(c.out, prompt)

	state, err := term.GetState(c.inFd)
	if err != nil {
		return "", fmt.Errorf("read terminal state: %w", err)
	}

	ch := make(chan answer, 1)
	go func() {
		b, err := term.ReadPassword(c.inFd)
		ch <- answer{text: strings.TrimSpace(string(b)), err: err}
	}()

	select {
	case <-ctx.Done():
		_ = term.Restore(c.inFd, state)
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case a := <-ch:
		fmt.Fprintln(c.out)
		return a.text, a.err
	}
}
