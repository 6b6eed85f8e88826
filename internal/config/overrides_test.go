package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3rnops/t3rnctl/internal/models"
)

func TestApplyOverridesFromEnv(t *testing.T) {
	t.Setenv("T3RNCTL_WORK_DIR", "/srv/t3rn")
	t.Setenv("T3RNCTL_SESSION_NAME", "executor-b")

	s := models.NewSettings()
	ApplyOverrides(s, NewOverrides())

	assert.Equal(t, "/srv/t3rn", s.Executor.WorkDir)
	assert.Equal(t, "executor-b", s.Executor.SessionName)
	assert.Equal(t, "t3rn/executor-release", s.Executor.ReleaseRepo)
}

func TestApplyOverridesFlagWinsOverEnv(t *testing.T) {
	t.Setenv("T3RNCTL_WORK_DIR", "/from/env")
	t.Setenv("T3RNCTL_LOG_LEVEL", "warn")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("work-dir", "", "")
	require.NoError(t, flags.Parse([]string{"--work-dir", "/from/flag"}))

	v := NewOverrides()
	require.NoError(t, v.BindPFlag(KeyWorkDir, flags.Lookup("work-dir")))

	s := models.NewSettings()
	ApplyOverrides(s, v)
	assert.Equal(t, "/from/flag", s.Executor.WorkDir)
	assert.Equal(t, "warn", v.GetString(KeyLogLevel))
}

func TestApplyOverridesNoneSet(t *testing.T) {
	s := models.NewSettings()
	ApplyOverrides(s, NewOverrides())
	assert.Equal(t, models.NewSettings(), s)
}
