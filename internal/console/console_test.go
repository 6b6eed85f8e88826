package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskTrims(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("  hello world \n"), &out)

	got, err := c.Ask(context.Background(), "Name: ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name: ", out.String())
}

func TestAskLastLineWithoutNewline(t *testing.T) {
	c := New(strings.NewReader("first\nlast"), &bytes.Buffer{})

	got, err := c.Ask(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = c.Ask(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = c.Ask(context.Background(), "")
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestAskCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	c := New(r, &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Ask(ctx, "> ")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"sure\n", false},
	}
	for _, tt := range tests {
		c := New(strings.NewReader(tt.input), &bytes.Buffer{})
		got, err := c.Confirm(context.Background(), "? ")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestAskSecretWithoutTerminal(t *testing.T) {
	c := New(strings.NewReader("deadbeef\n"), &bytes.Buffer{})

	got, err := c.AskSecret(context.Background(), "Key: ")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", got)
}

func TestAskSecretConsumesTypeAhead(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("1\ndeadbeef\n"), &out)

	got, err := c.Ask(context.Background(), "Option: ")
	require.NoError(t, err)
	require.Equal(t, "1", got)

	// The second line is already buffered; the terminal must not be touched.
	c.isTTY = true
	got, err = c.AskSecret(context.Background(), "Key: ")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", got)
	assert.Equal(t, "Option: Key: ", out.String())
}
