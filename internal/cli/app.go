package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/t3rnops/t3rnctl/internal/config"
	"github.com/t3rnops/t3rnctl/internal/console"
	"github.com/t3rnops/t3rnctl/internal/deploy"
	"github.com/t3rnops/t3rnctl/internal/deps"
	"github.com/t3rnops/t3rnctl/internal/logging"
	"github.com/t3rnops/t3rnctl/internal/models"
	"github.com/t3rnops/t3rnctl/internal/preflight"
	"github.com/t3rnops/t3rnctl/internal/rpcprobe"
	"github.com/t3rnops/t3rnctl/internal/runner"
	"github.com/t3rnops/t3rnctl/internal/session"
	"github.com/t3rnops/t3rnctl/internal/updater"
)

// Shared state for one invocation, set up before any command runs.
var (
	settings  *models.Settings
	logger    = zerolog.Nop()
	logCloser io.Closer
	workDir   string
	prompt    *console.Console
)

func setup(v *viper.Viper) error {
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	s, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settings = s

	// Write the defaults out once so they can be edited.
	if path, err := config.GlobalSettingsFile(); err == nil && !config.FileExists(path) {
		if err := config.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	// Overrides apply to this run only and are never saved.
	config.ApplyOverrides(settings, v)

	workDir, err = config.ResolveWorkDir(settings.Executor.WorkDir)
	if err != nil {
		return err
	}

	logPath, err := config.GlobalLogFile()
	if err != nil {
		return err
	}
	l, closer, err := logging.OpenFile(v.GetString(config.KeyLogLevel), logPath)
	if err != nil {
		// Diagnostics are optional; keep going without them.
		fmt.Fprintln(os.Stderr, styleWarning.Render("Warning: ")+err.Error())
	} else {
		logger = l
		logCloser = closer
	}

	prompt = console.NewTerminal()
	logger.Debug().Str("work_dir", workDir).Msg("settings loaded")
	return nil
}

func teardown() {
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
}

func sessionName() string {
	if settings != nil && settings.Executor.SessionName != "" {
		return settings.Executor.SessionName
	}
	return models.NewSettings().Executor.SessionName
}

func newRunner() *runner.Exec {
	return runner.NewExec(logger)
}

func newSessions() *session.Screen {
	return session.NewScreen(newRunner(), logger)
}

func newProber(out io.Writer) *rpcprobe.Prober {
	return rpcprobe.New(settings.RPC.ProbeTimeout, out, logger)
}

func newOrchestrator(out io.Writer) *deploy.Orchestrator {
	previous, err := config.LoadDeploymentInfo()
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring unreadable deployment record")
		previous = nil
	}
	return &deploy.Orchestrator{
		Settings:  settings,
		WorkDir:   workDir,
		Tunables:  models.DefaultTunables(),
		Preflight: preflight.NewChecker(settings.Thresholds.MinDiskMB, settings.Thresholds.MinMemoryMB, logger),
		Deps:      deps.NewInstaller(newRunner(), out, logger),
		Releases:  updater.NewClient(settings.Executor.ReleaseRepo, logger),
		Prober:    newProber(out),
		Prompter:  prompt,
		Sessions:  newSessions(),
		Out:       out,
		Logger:    logger,
		Previous:  previous,
	}
}

func printScreenHint(w io.Writer, name string) {
	fmt.Fprintln(w, styleHint.Render("Tip: if the executor is running, reattach to its screen session with:"))
	fmt.Fprintln(w, "  "+styleCommand.Render("screen -r "+name))
	fmt.Fprintln(w, styleHint.Render("Inside screen, Ctrl+C stops the executor and Ctrl+A then D detaches."))
	fmt.Fprintln(w, styleHint.Render("List all sessions with: screen -list"))
}
