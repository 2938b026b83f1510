package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"hostmon/internal/config"
	"hostmon/internal/console"
	"hostmon/internal/logging"
	"hostmon/internal/monitor"
	"hostmon/internal/remediation"
	"hostmon/internal/system"
)

type Agent struct {
	cfg     config.Config
	logger  *slog.Logger
	console *console.Console
	monitor *monitor.Monitor
	health  *HealthStatus
	probeLn net.Listener
}

// forcedDrainTimeout bounds how long Run waits for the in-flight cycle after a forced
// shutdown, so its last lines reach the log file before the caller closes it.
var forcedDrainTimeout = time.Second

type Option func(*deps)

type deps struct {
	source system.Source
	fs     afero.Fs
}

// WithSource replaces the host metrics source.
func WithSource(s system.Source) Option {
	return func(d *deps) { d.source = s }
}

// WithFs replaces the filesystem used for the scratch directory.
func WithFs(fs afero.Fs) Option {
	return func(d *deps) { d.fs = fs }
}

func New(cfg config.Config, logger *slog.Logger, con *console.Console, opts ...Option) (*Agent, error) {
	d := deps{}
	for _, opt := range opts {
		opt(&d)
	}
	if d.source == nil {
		d.source = system.NewHostSource(cfg.CPUWindow)
	}
	if d.fs == nil {
		d.fs = afero.NewOsFs()
	}
	if con == nil {
		con = console.New(nil)
	}

	cleaner := remediation.NewCleaner(d.fs)
	if err := cleaner.Prepare(cfg.ScratchDir); err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}

	hs := NewHealthStatus()
	mon := monitor.New(logger, d.source, cleaner, con, cfg.Thresholds, monitor.Options{
		Interval:   cfg.Interval,
		TopN:       cfg.TopN,
		DiskPath:   cfg.DiskPath,
		ScratchDir: cfg.ScratchDir,
	})
	a := &Agent{
		cfg:     cfg,
		logger:  logger,
		console: con,
		monitor: mon,
		health:  hs,
	}
	mon.OnCycle = a.observeCycle

	ln, err := listenProbe(cfg.ProbeListenAddr)
	if err != nil {
		return nil, err
	}
	a.probeLn = ln
	return a, nil
}

func (a *Agent) Run(ctx context.Context) error {
	a.console.Info("--- Host Health Monitor Starting ---")
	a.console.Info("Press Ctrl+C to stop.")
	a.logger.Info(fmt.Sprintf("Starting host health monitor: scratch dir %s, disk path %s, log file %s", a.cfg.ScratchDir, a.cfg.DiskPath, a.cfg.LogFile))

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- a.run(runCtx)
	}()

	var runErr error
	byUser := false
	forced := false
	select {
	case runErr = <-runErrCh:
		// parent ctx cancelled
	case sig := <-sigCh:
		byUser = true
		a.console.Info("\nStopping monitor.")
		a.logger.Info(fmt.Sprintf("Received %s, finishing current cycle (timeout %s)", sig, a.cfg.ShutdownTimeout))
		cancelRun()

		graceTimer := time.NewTimer(a.cfg.ShutdownTimeout)
		defer graceTimer.Stop()

		select {
		case runErr = <-runErrCh:
		case sig2 := <-sigCh:
			a.logger.Warn(fmt.Sprintf("Received second %s, forcing shutdown", sig2))
			runErr = context.Canceled
			forced = true
		case <-graceTimer.C:
			a.logger.Warn(fmt.Sprintf("Graceful shutdown timeout of %s reached, forcing shutdown", a.cfg.ShutdownTimeout))
			runErr = context.DeadlineExceeded
			forced = true
		}
	}

	if forced {
		drain := time.NewTimer(forcedDrainTimeout)
		select {
		case <-runErrCh:
		case <-drain.C:
			a.logger.Warn("Current cycle still running at exit.")
		}
		drain.Stop()
	}

	a.shutdown()

	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return runErr
	}
	if byUser {
		a.logger.Info("Monitor stopped by user.")
	} else {
		a.logger.Info("Host health monitor stopped.")
	}
	return nil
}

// BuildLogger opens the log file and returns a logger writing the fixed line format to it.
// The returned closer flushes and closes the file.
func BuildLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	f, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(logging.NewLineHandler(f, level)), f, nil
}
