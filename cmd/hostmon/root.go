package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"hostmon/internal/agent"
	"hostmon/internal/config"
	"hostmon/internal/console"
)

type flagValues struct {
	configPath    string
	cpuThreshold  float64
	diskThreshold float64
	interval      float64
	cpuWindow     float64
	topN          int
	scratchDir    string
	diskPath      string
	logFile       string
	logLevel      string
	probeAddr     string
}

func newRootCmd() *cobra.Command {
	var fv flagValues
	cmd := &cobra.Command{
		Use:   "hostmon",
		Short: "Watch local CPU and disk health and clear the scratch directory when disk runs low",
		Long: `hostmon samples CPU utilization and free disk space on a fixed interval.

High CPU is logged together with the top consumers. Low free disk space empties the
regular files in the scratch directory. The daemon runs until interrupted.

Configuration is read from defaults, then --config (YAML), then HOSTMON_* environment
variables, then flags.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(fv.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd.Flags(), fv, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, closer, err := agent.BuildLogger(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			a, err := agent.New(cfg, logger, console.New(cmd.OutOrStdout()))
			if err != nil {
				logger.Error(fmt.Sprintf("Monitor initialization failed: %v", err))
				return err
			}
			if err := a.Run(cmd.Context()); err != nil {
				logger.Error(fmt.Sprintf("Monitor runtime failed: %v", err))
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&fv.configPath, "config", "", "path to a YAML config file")
	f.Float64Var(&fv.cpuThreshold, "cpu-threshold", config.Defaults("").Thresholds.CPUPercent, "CPU percent above which a breach is reported")
	f.Float64Var(&fv.diskThreshold, "disk-threshold", config.Defaults("").Thresholds.DiskFreePercent, "free disk percent below which the scratch dir is cleared")
	f.Float64Var(&fv.interval, "interval", config.DefaultInterval.Seconds(), "pause between cycles in seconds")
	f.Float64Var(&fv.cpuWindow, "cpu-window", config.DefaultCPUWindow.Seconds(), "CPU measurement window in seconds")
	f.IntVar(&fv.topN, "top-n", config.DefaultTopN, "number of top CPU consumers to log on a breach")
	f.StringVar(&fv.scratchDir, "scratch-dir", "", "directory emptied on a disk breach (default <binary dir>/dummy_cache)")
	f.StringVar(&fv.diskPath, "disk-path", "", "path whose volume is monitored (default <binary dir>)")
	f.StringVar(&fv.logFile, "log-file", "", "log file path (default <binary dir>/system.log)")
	f.StringVar(&fv.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	f.StringVar(&fv.probeAddr, "probe-addr", "", "listen address for the gRPC health probe (disabled when empty)")
	return cmd
}

// applyFlags overrides cfg with flags the user set explicitly.
func applyFlags(fs *pflag.FlagSet, fv flagValues, cfg *config.Config) {
	if fs.Changed("cpu-threshold") {
		cfg.Thresholds.CPUPercent = fv.cpuThreshold
	}
	if fs.Changed("disk-threshold") {
		cfg.Thresholds.DiskFreePercent = fv.diskThreshold
	}
	if fs.Changed("interval") {
		cfg.Interval = secondsToDuration(fv.interval)
	}
	if fs.Changed("cpu-window") {
		cfg.CPUWindow = secondsToDuration(fv.cpuWindow)
	}
	if fs.Changed("top-n") {
		cfg.TopN = fv.topN
	}
	if fs.Changed("scratch-dir") {
		cfg.ScratchDir = fv.scratchDir
	}
	if fs.Changed("disk-path") {
		cfg.DiskPath = fv.diskPath
	}
	if fs.Changed("log-file") {
		cfg.LogFile = fv.logFile
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = config.NormalizeLevel(fv.logLevel)
	}
	if fs.Changed("probe-addr") {
		cfg.ProbeListenAddr = fv.probeAddr
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
