package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/t3rnops/t3rnctl/internal/models"
)

// EnvPrefix namespaces environment overrides, e.g. T3RNCTL_WORK_DIR.
const EnvPrefix = "T3RNCTL"

// Override keys. Flags bound under the same keys take precedence over the
// environment.
const (
	KeyLogLevel    = "log_level"
	KeyWorkDir     = "work_dir"
	KeySessionName = "session_name"
	KeyReleaseRepo = "release_repo"
)

// NewOverrides returns a viper instance that reads T3RNCTL_* variables.
func NewOverrides() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyLogLevel, "info")
	return v
}

// ApplyOverrides copies any non-empty override onto settings.
func ApplyOverrides(s *models.Settings, v *viper.Viper) {
	if dir := v.GetString(KeyWorkDir); dir != "" {
		s.Executor.WorkDir = dir
	}
	if name := v.GetString(KeySessionName); name != "" {
		s.Executor.SessionName = name
	}
	if repo := v.GetString(KeyReleaseRepo); repo != "" {
		s.Executor.ReleaseRepo = repo
	}
}
