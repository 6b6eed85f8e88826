// Package config handles settings, state files, and the executor environment file.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global t3rnctl state directory.
	GlobalDirName = ".t3rnctl"

	// WorkDirName is the default executor work directory under the home directory.
	WorkDirName = "t3rn"
)

// File names
const (
	DeploymentFileName = "deployment.yaml"
	SettingsFileName   = "settings.yaml"
	LogFileName        = "t3rnctl.log"

	ArchiveBinDir   = "executor/executor/bin"
	ExecutorBinName = "executor"
	EnvFileName     = ".env"
	ExecutorLogName = "executor.log"
)

// GlobalDir returns the path to the global state directory (~/.t3rnctl/).
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// GlobalDeploymentFile returns the path to the deployment.yaml file.
func GlobalDeploymentFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DeploymentFileName), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// GlobalLogFile returns the path to the diagnostic log.
func GlobalLogFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}

// EnsureGlobalDir creates the global state directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ResolveWorkDir returns the executor work directory, defaulting to ~/t3rn.
func ResolveWorkDir(configured string) (string, error) {
	if configured != "" {
		return filepath.Abs(configured)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, WorkDirName), nil
}

// BinDir returns the directory holding the executor binary inside workDir.
func BinDir(workDir string) string {
	return filepath.Join(workDir, filepath.FromSlash(ArchiveBinDir))
}

// ExecutorBinary returns the path of the executor binary.
func ExecutorBinary(workDir string) string {
	return filepath.Join(BinDir(workDir), ExecutorBinName)
}

// EnvFile returns the path of the executor .env file.
func EnvFile(workDir string) string {
	return filepath.Join(BinDir(workDir), EnvFileName)
}

// ExecutorLogFile returns the path the executor session writes its output to.
func ExecutorLogFile(workDir string) string {
	return filepath.Join(BinDir(workDir), ExecutorLogName)
}
