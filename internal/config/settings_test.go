package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3rnops/t3rnctl/internal/models"
)

func TestLoadSettingsFileMissingReturnsDefaults(t *testing.T) {
	s, err := LoadSettingsFile(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)
	assert.Equal(t, models.NewSettings(), s)
}

func TestLoadSettingsFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `executor:
  session_name: relayer
  work_dir: /opt/t3rn
rpc:
  probe_timeout: 3s
  chains:
    - name: OP Sepolia
      public_rpc: https://sepolia.optimism.io
      alchemy_url: https://opt-sepolia.g.alchemy.com/v2/{key}
logs:
  stats_window: 30m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "relayer", s.Executor.SessionName)
	assert.Equal(t, "/opt/t3rn", s.Executor.WorkDir)
	assert.Equal(t, "t3rn/executor-release", s.Executor.ReleaseRepo)
	assert.Equal(t, 3*time.Second, s.RPC.ProbeTimeout)
	assert.Equal(t, 30*time.Minute, s.Logs.StatsWindow)
	assert.Equal(t, 50, s.Logs.TailLines)
	require.Len(t, s.RPC.Chains, 1)
	assert.Equal(t, "OP Sepolia", s.RPC.Chains[0].Name)
}

func TestSaveYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	in := models.NewSettings()
	in.Executor.SessionName = "other"
	require.NoError(t, SaveYAML(path, in))

	out, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveYAMLPrivatePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployment.yaml")
	require.NoError(t, SaveYAMLPrivate(path, models.NewDeploymentInfo("v1.0.0", "/bin", "t3rn-executor")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	var got models.DeploymentInfo
	require.NoError(t, LoadYAML(path, &got))
	assert.Equal(t, "v1.0.0", got.ReleaseTag)
	assert.NotEmpty(t, got.DeploymentID)
}

func TestPaths(t *testing.T) {
	work := "/home/op/t3rn"
	assert.Equal(t, "/home/op/t3rn/executor/executor/bin", BinDir(work))
	assert.Equal(t, "/home/op/t3rn/executor/executor/bin/executor", ExecutorBinary(work))
	assert.Equal(t, "/home/op/t3rn/executor/executor/bin/.env", EnvFile(work))
	assert.Equal(t, "/home/op/t3rn/executor/executor/bin/executor.log", ExecutorLogFile(work))

	dir, err := ResolveWorkDir("")
	require.NoError(t, err)
	assert.Equal(t, WorkDirName, filepath.Base(dir))
}
