package config

import (
	"github.com/t3rnops/t3rnctl/internal/models"
)

// LoadDeploymentInfo loads the last deployment record from ~/.t3rnctl/deployment.yaml.
// Returns nil if no deployment has been recorded.
func LoadDeploymentInfo() (*models.DeploymentInfo, error) {
	path, err := GlobalDeploymentFile()
	if err != nil {
		return nil, err
	}

	if !FileExists(path) {
		return nil, nil
	}

	var info models.DeploymentInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveDeploymentInfo saves the deployment record to ~/.t3rnctl/deployment.yaml.
func SaveDeploymentInfo(info *models.DeploymentInfo) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}

	path, err := GlobalDeploymentFile()
	if err != nil {
		return err
	}
	return SaveYAMLPrivate(path, info)
}
