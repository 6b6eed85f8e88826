// Package deps makes sure the command-line tools the installer relies on are present.
package deps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/t3rnops/t3rnctl/internal/runner"
)

// ErrInstallFailed wraps any package manager failure.
var ErrInstallFailed = errors.New("dependency installation failed")

// Required lists the tools checked before deploying.
var Required = []string{"curl", "tar", "wget", "screen"}

// Installer installs missing tools with apt.
type Installer struct {
	Tools  []string
	Runner runner.Runner
	Out    io.Writer
	Logger zerolog.Logger

	// LookPath reports whether a tool is on PATH.
	LookPath func(string) (string, error)
	// IsRoot reports whether sudo can be skipped.
	IsRoot func() bool
}

// NewInstaller creates an installer for the Required tools.
func NewInstaller(r runner.Runner, out io.Writer, logger zerolog.Logger) *Installer {
	return &Installer{
		Tools:    Required,
		Runner:   r,
		Out:      out,
		Logger:   logger.With().Str("component", "deps").Logger(),
		LookPath: exec.LookPath,
		IsRoot:   func() bool { return os.Geteuid() == 0 },
	}
}

// Ensure checks every tool and installs the missing ones. It returns the
// tools that were installed.
func (i *Installer) Ensure(ctx context.Context) ([]string, error) {
	lookPath := i.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var installed []string
	for _, tool := range i.Tools {
		if _, err := lookPath(tool); err == nil {
			fmt.Fprintf(i.Out, "%s is already installed, skipping.\n", tool)
			continue
		}

		fmt.Fprintf(i.Out, "%s not found, installing...\n", tool)
		i.Logger.Info().Str("tool", tool).Msg("installing")

		if err := i.Runner.Run(ctx, i.aptCmd("update")); err != nil {
			return installed, fmt.Errorf("%w: apt update: %v", ErrInstallFailed, err)
		}
		if err := i.Runner.Run(ctx, i.aptCmd("install", "-y", tool)); err != nil {
			return installed, fmt.Errorf("%w: install %s: %v", ErrInstallFailed, tool, err)
		}
		installed = append(installed, tool)
	}
	return installed, nil
}

func (i *Installer) aptCmd(args ...string) runner.Cmd {
	c := runner.Cmd{Name: "apt", Args: args}
	if i.IsRoot == nil || !i.IsRoot() {
		c = runner.Cmd{Name: "sudo", Args: append([]string{"apt"}, args...)}
	}
	if args[0] == "update" {
		c.Quiet = true
	} else {
		c.Interactive = true
	}
	return c
}
