package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"hostmon/internal/model"
	"hostmon/internal/ranker"
	"hostmon/internal/system"
)

const DefaultInterval = 5 * time.Second

// Console receives the human-readable mirror of cycle events.
type Console interface {
	Healthy(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Cleaner runs remediation against the scratch directory.
type Cleaner interface {
	Clean(target string) model.RemediationResult
}

type Options struct {
	Interval   time.Duration
	TopN       int
	DiskPath   string
	ScratchDir string
}

type Monitor struct {
	logger     *slog.Logger
	source     system.Source
	cleaner    Cleaner
	console    Console
	thresholds model.ThresholdConfig
	opts       Options
	state      atomic.Value
	cycles     atomic.Uint64

	// OnCycle, when set, is called with every finished cycle report.
	OnCycle func(CycleReport)
}

func New(
	logger *slog.Logger,
	source system.Source,
	cleaner Cleaner,
	console Console,
	thresholds model.ThresholdConfig,
	opts Options,
) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.TopN <= 0 {
		opts.TopN = ranker.DefaultTopN
	}
	if console == nil {
		console = discardConsole{}
	}
	m := &Monitor{
		logger:     logger,
		source:     source,
		cleaner:    cleaner,
		console:    console,
		thresholds: thresholds,
		opts:       opts,
	}
	m.state.Store(StateIdle)
	return m
}

func (m *Monitor) State() State {
	return m.state.Load().(State)
}

func (m *Monitor) Cycles() uint64 {
	return m.cycles.Load()
}

// Run executes cycles back to back with a pause between them until ctx is cancelled.
// Cancellation is only observed at the pause: a cycle in progress always completes.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info(fmt.Sprintf("Monitor started: cpu threshold %g%%, disk free threshold %g%%, interval %s, scratch dir %s",
		m.thresholds.CPUPercent, m.thresholds.DiskFreePercent, m.opts.Interval, m.opts.ScratchDir))
	cycleCtx := context.WithoutCancel(ctx)
	for {
		report := m.RunCycle(cycleCtx)
		if m.OnCycle != nil {
			m.OnCycle(report)
		}

		m.setState(StateSleeping)
		if !m.sleepWithContext(ctx, m.opts.Interval) {
			m.setState(StateStopped)
			m.logger.Info("Monitor stopped.")
			m.logger.Debug("monitor cycles run", "cycles", m.Cycles())
			return nil
		}
	}
}

func (m *Monitor) setState(s State) {
	m.state.Store(s)
	m.logger.Debug("monitor state", "state", s.String())
}

// sleepWithContext reports false when ctx ended before d elapsed.
func (m *Monitor) sleepWithContext(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

type discardConsole struct{}

func (discardConsole) Healthy(string, ...any) {}
func (discardConsole) Warn(string, ...any)    {}
func (discardConsole) Error(string, ...any)   {}
