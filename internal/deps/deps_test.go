package deps

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3rnops/t3rnctl/internal/runner/runnertest"
)

func lookPathWith(present ...string) func(string) (string, error) {
	set := map[string]bool{}
	for _, p := range present {
		set[p] = true
	}
	return func(name string) (string, error) {
		if set[name] {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
}

func newTestInstaller(rec *runnertest.Recorder, root bool, present ...string) (*Installer, *bytes.Buffer) {
	var out bytes.Buffer
	return &Installer{
		Tools:    Required,
		Runner:   rec,
		Out:      &out,
		Logger:   zerolog.Nop(),
		LookPath: lookPathWith(present...),
		IsRoot:   func() bool { return root },
	}, &out
}

func TestEnsureAllPresent(t *testing.T) {
	rec := &runnertest.Recorder{}
	inst, out := newTestInstaller(rec, false, "curl", "tar", "wget", "screen")

	installed, err := inst.Ensure(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installed)
	assert.Empty(t, rec.Commands)
	assert.Contains(t, out.String(), "screen is already installed")
}

func TestEnsureInstallsMissingWithSudo(t *testing.T) {
	rec := &runnertest.Recorder{}
	inst, _ := newTestInstaller(rec, false, "curl", "tar")

	installed, err := inst.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"wget", "screen"}, installed)
	assert.Equal(t, []string{
		"sudo apt update",
		"sudo apt install -y wget",
		"sudo apt update",
		"sudo apt install -y screen",
	}, rec.Lines())
	assert.True(t, rec.Commands[0].Quiet)
	assert.True(t, rec.Commands[1].Interactive)
}

func TestEnsureAsRootSkipsSudo(t *testing.T) {
	rec := &runnertest.Recorder{}
	inst, _ := newTestInstaller(rec, true, "curl", "tar", "wget")

	_, err := inst.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"apt update", "apt install -y screen"}, rec.Lines())
}

func TestEnsureInstallFailure(t *testing.T) {
	rec := (&runnertest.Recorder{}).On("sudo apt install -y curl", runnertest.Response{Err: errors.New("exit status 100")})
	inst, _ := newTestInstaller(rec, false)

	installed, err := inst.Ensure(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInstallFailed))
	assert.Empty(t, installed)
	assert.Len(t, rec.Commands, 2)
}
