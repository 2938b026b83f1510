package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostmon/internal/config"
)

func TestApplyFlagsOnlyChanged(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{
		"--cpu-threshold=42",
		"--interval=2.5",
		"--top-n=5",
		"--scratch-dir=/var/tmp/scratch",
	}))

	cfg := config.Defaults("/opt/hostmon")
	var fv flagValues
	fv.cpuThreshold, _ = cmd.Flags().GetFloat64("cpu-threshold")
	fv.interval, _ = cmd.Flags().GetFloat64("interval")
	fv.topN, _ = cmd.Flags().GetInt("top-n")
	fv.scratchDir, _ = cmd.Flags().GetString("scratch-dir")
	applyFlags(cmd.Flags(), fv, &cfg)

	assert.Equal(t, 42.0, cfg.Thresholds.CPUPercent)
	assert.Equal(t, 20.0, cfg.Thresholds.DiskFreePercent)
	assert.Equal(t, 2500*time.Millisecond, cfg.Interval)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, "/var/tmp/scratch", cfg.ScratchDir)
	assert.Equal(t, "/opt/hostmon/system.log", cfg.LogFile)
	require.NoError(t, cfg.Validate())
}

func TestRootRejectsInvalidFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--disk-threshold=150", "--log-file=" + t.TempDir() + "/system.log"})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "disk threshold")
}

func TestRootRejectsPositionalArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.Execute())
}

func TestFlagsOverrideInvalidEnv(t *testing.T) {
	t.Setenv("HOSTMON_TOP_N", "0")
	t.Setenv("HOSTMON_LOG_LEVEL", "")

	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--top-n=5", "--log-level=WARN"}))

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Error(t, cfg.Validate())

	var fv flagValues
	fv.topN, _ = cmd.Flags().GetInt("top-n")
	fv.logLevel, _ = cmd.Flags().GetString("log-level")
	applyFlags(cmd.Flags(), fv, &cfg)

	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}
