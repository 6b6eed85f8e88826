package models

import "time"

// ThresholdsConfig holds the resource minimums checked before deploying.
type ThresholdsConfig struct {
	MinDiskMB   uint64 `yaml:"min_disk_mb"`
	MinMemoryMB uint64 `yaml:"min_memory_mb"`
}

// ExecutorConfig describes where the executor release lives and how it runs.
type ExecutorConfig struct {
	ReleaseRepo string        `yaml:"release_repo"` // owner/name on GitHub
	WorkDir     string        `yaml:"work_dir"`     // empty = ~/t3rn
	SessionName string        `yaml:"session_name"`
	LaunchGrace time.Duration `yaml:"launch_grace"`
}

// RPCConfig holds settings for the RPC liveness probes.
type RPCConfig struct {
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	Chains       []Chain       `yaml:"chains"`
}

// LogsConfig holds log viewer and statistics settings.
type LogsConfig struct {
	TailLines   int           `yaml:"tail_lines"`
	StatsWindow time.Duration `yaml:"stats_window"`
}

// Settings represents global application settings.
// This corresponds to ~/.t3rnctl/settings.yaml.
type Settings struct {
	Version    int              `yaml:"version"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Executor   ExecutorConfig   `yaml:"executor"`
	RPC        RPCConfig        `yaml:"rpc"`
	Logs       LogsConfig       `yaml:"logs"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Thresholds: ThresholdsConfig{
			MinDiskMB:   1024,
			MinMemoryMB: 512,
		},
		Executor: ExecutorConfig{
			ReleaseRepo: "t3rn/executor-release",
			WorkDir:     "",
			SessionName: "t3rn-executor",
			LaunchGrace: 2 * time.Second,
		},
		RPC: RPCConfig{
			ProbeTimeout: 5 * time.Second,
			Chains:       DefaultChains(),
		},
		Logs: LogsConfig{
			TailLines:   50,
			StatsWindow: time.Hour,
		},
	}
}

// FillDefaults replaces zero values left by a partial settings file.
func (s *Settings) FillDefaults() {
	def := NewSettings()
	if s.Version == 0 {
		s.Version = def.Version
	}
	if s.Thresholds.MinDiskMB == 0 {
		s.Thresholds.MinDiskMB = def.Thresholds.MinDiskMB
	}
	if s.Thresholds.MinMemoryMB == 0 {
		s.Thresholds.MinMemoryMB = def.Thresholds.MinMemoryMB
	}
	if s.Executor.ReleaseRepo == "" {
		s.Executor.ReleaseRepo = def.Executor.ReleaseRepo
	}
	if s.Executor.SessionName == "" {
		s.Executor.SessionName = def.Executor.SessionName
	}
	if s.Executor.LaunchGrace <= 0 {
		s.Executor.LaunchGrace = def.Executor.LaunchGrace
	}
	if s.RPC.ProbeTimeout <= 0 {
		s.RPC.ProbeTimeout = def.RPC.ProbeTimeout
	}
	if len(s.RPC.Chains) == 0 {
		s.RPC.Chains = def.RPC.Chains
	}
	if s.Logs.TailLines <= 0 {
		s.Logs.TailLines = def.Logs.TailLines
	}
	if s.Logs.StatsWindow <= 0 {
		s.Logs.StatsWindow = def.Logs.StatsWindow
	}
}
