// Package deploy runs the end-to-end executor deployment: preflight,
// dependencies, release download, configuration, and session launch.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/t3rnops/t3rnctl/internal/config"
	"github.com/t3rnops/t3rnctl/internal/models"
	"github.com/t3rnops/t3rnctl/internal/preflight"
	"github.com/t3rnops/t3rnctl/internal/rpcconfig"
	"github.com/t3rnops/t3rnctl/internal/session"
	"github.com/t3rnops/t3rnctl/internal/updater"
)

// ErrSessionNotStarted is returned when the session is missing after the launch grace period.
var ErrSessionNotStarted = errors.New("executor session did not start")

// Preflight verifies host resources.
type Preflight interface {
	Check(dir string) (*preflight.Report, error)
}

// Dependencies makes sure the required tools are installed.
type Dependencies interface {
	Ensure(ctx context.Context) ([]string, error)
}

// Releases resolves and downloads executor releases.
type Releases interface {
	LatestRelease(ctx context.Context) (*updater.ReleaseInfo, error)
	ArchiveURL(tag string) string
	Download(ctx context.Context, url, dir string) (string, error)
}

// Prompter asks the operator questions during configuration.
type Prompter interface {
	Ask(ctx context.Context, prompt string) (string, error)
	AskSecret(ctx context.Context, prompt string) (string, error)
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Orchestrator deploys the executor into WorkDir. Steps run in a fixed
// order; the first failure aborts and nothing already done is undone.
type Orchestrator struct {
	Settings  *models.Settings
	WorkDir   string
	Tunables  []models.Tunable
	Preflight Preflight
	Deps      Dependencies
	Releases  Releases
	Prober    rpcconfig.Prober
	Prompter  Prompter
	Sessions  session.Manager
	Out       io.Writer
	Logger    zerolog.Logger

	// Previous is the last deployment record, if any.
	Previous *models.DeploymentInfo
	// Save persists the new record. Defaults to config.SaveDeploymentInfo.
	Save func(*models.DeploymentInfo) error
	// Sleep waits for the launch grace period.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Run performs the deployment. It returns (nil, nil) when the operator
// declines to replace a running session.
func (o *Orchestrator) Run(ctx context.Context) (*models.DeploymentInfo, error) {
	log := o.Logger.With().Str("component", "deploy").Str("work_dir", o.WorkDir).Logger()
	fmt.Fprintln(o.Out, "Deploying t3rn Executor...")

	report, err := o.Preflight.Check(o.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("preflight: %w", err)
	}
	fmt.Fprintf(o.Out, "Resources OK: %dMB disk, %dMB memory available.\n", report.DiskMB, report.MemoryMB)
	log.Info().Uint64("disk_mb", report.DiskMB).Uint64("mem_mb", report.MemoryMB).Msg("preflight passed")

	if _, err := o.Deps.Ensure(ctx); err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}

	if err := os.MkdirAll(o.WorkDir, 0755); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	fmt.Fprintln(o.Out, "Fetching latest executor release...")
	release, err := o.Releases.LatestRelease(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	tag := release.TagName
	previous := ""
	if o.Previous != nil {
		previous = o.Previous.ReleaseTag
	}
	fmt.Fprintf(o.Out, "Latest version: %s (%s)\n", tag, updater.Compare(previous, tag))
	log.Info().Str("tag", tag).Str("previous", previous).Msg("release resolved")

	if err := o.install(ctx, tag); err != nil {
		return nil, err
	}

	binDir := config.BinDir(o.WorkDir)
	if info, err := os.Stat(binDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("locate %s: release layout not recognized", binDir)
	}

	address, skipped, err := o.Configure(ctx, config.EnvFile(o.WorkDir))
	if err != nil {
		return nil, err
	}

	binary := config.ExecutorBinary(o.WorkDir)
	if err := ensureExecutable(binary); err != nil {
		return nil, err
	}

	name := o.Settings.Executor.SessionName
	proceed, err := o.replaceExisting(ctx, name)
	if err != nil || !proceed {
		return nil, err
	}

	spec := session.Spec{
		Name:    name,
		Dir:     binDir,
		Command: binary,
		EnvFile: config.EnvFile(o.WorkDir),
		LogFile: config.ExecutorLogFile(o.WorkDir),
	}
	fmt.Fprintln(o.Out, "Starting t3rn Executor in a screen session...")
	if err := o.Sessions.Start(ctx, spec); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	if err := o.sleep(ctx, o.Settings.Executor.LaunchGrace); err != nil {
		return nil, err
	}
	running, err := o.Sessions.Exists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}
	if !running {
		return nil, fmt.Errorf("%w: check %s", ErrSessionNotStarted, spec.LogFile)
	}

	info := models.NewDeploymentInfo(tag, binDir, name)
	info.EnvFile = spec.EnvFile
	info.LogFile = spec.LogFile
	info.Address = address
	info.Skipped = skipped
	if err := o.save(info); err != nil {
		// The executor is running; a missing record only affects status output.
		log.Warn().Err(err).Msg("failed to save deployment record")
	}

	fmt.Fprintln(o.Out, "t3rn Executor deployed and started.")
	fmt.Fprintf(o.Out, "Logs: %s\n", spec.LogFile)
	log.Info().Str("deployment_id", info.DeploymentID).Str("session", name).Msg("deployment complete")
	return info, nil
}

func (o *Orchestrator) install(ctx context.Context, tag string) error {
	fmt.Fprintln(o.Out, "Downloading executor binary...")
	archive, err := o.Releases.Download(ctx, o.Releases.ArchiveURL(tag), o.WorkDir)
	if err != nil {
		return fmt.Errorf("download release: %w", err)
	}

	fmt.Fprintln(o.Out, "Extracting...")
	if err := updater.Extract(archive, o.WorkDir); err != nil {
		return fmt.Errorf("extract release: %w", err)
	}
	if err := os.Remove(archive); err != nil {
		return fmt.Errorf("remove archive: %w", err)
	}
	return nil
}

// replaceExisting asks before stopping a session with the same name.
func (o *Orchestrator) replaceExisting(ctx context.Context, name string) (bool, error) {
	exists, err := o.Sessions.Exists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	if !exists {
		return true, nil
	}

	fmt.Fprintf(o.Out, "Warning: a screen session named %s is already running.\n", name)
	fmt.Fprintf(o.Out, "Inspect it with 'screen -r %s' or stop it before deploying.\n", name)
	ok, err := o.Prompter.Confirm(ctx, "Replace it with a new instance? (y/n): ")
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(o.Out, "Deployment cancelled, returning to the menu.")
		return false, nil
	}
	if err := o.Sessions.Stop(ctx, name); err != nil {
		return false, fmt.Errorf("stop existing session: %w", err)
	}
	return true, nil
}

func (o *Orchestrator) save(info *models.DeploymentInfo) error {
	if o.Save != nil {
		return o.Save(info)
	}
	return config.SaveDeploymentInfo(info)
}

func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) error {
	if o.Sleep != nil {
		return o.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func ensureExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("locate executor binary: %w", err)
	}
	if info.Mode().Perm()&0100 != 0 {
		return nil
	}
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("make %s executable: %w", filepath.Base(path), err)
	}
	return nil
}
