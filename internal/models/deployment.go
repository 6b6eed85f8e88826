package models

import (
	"time"

	"github.com/google/uuid"
)

// DeploymentInfo records the last successful executor deployment.
// This corresponds to ~/.t3rnctl/deployment.yaml.
type DeploymentInfo struct {
	Version      int       `yaml:"version"`
	DeploymentID string    `yaml:"deployment_id"`
	ReleaseTag   string    `yaml:"release_tag"`
	BinDir       string    `yaml:"bin_dir"`
	EnvFile      string    `yaml:"env_file"`
	LogFile      string    `yaml:"log_file"`
	SessionName  string    `yaml:"session_name"`
	Address      string    `yaml:"address"`
	Skipped      []string  `yaml:"skipped_chains,omitempty"`
	StartedAt    time.Time `yaml:"started_at"`
}

// NewDeploymentInfo creates a deployment record with a fresh ID.
func NewDeploymentInfo(tag, binDir, sessionName string) *DeploymentInfo {
	return &DeploymentInfo{
		Version:      1,
		DeploymentID: uuid.New().String(),
		ReleaseTag:   tag,
		BinDir:       binDir,
		SessionName:  sessionName,
		StartedAt:    time.Now().UTC(),
	}
}
