package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"hostmon/internal/model"
	"hostmon/internal/policy"
	"hostmon/internal/ranker"
)

// CycleReport records what one cycle observed and did.
type CycleReport struct {
	ID           string
	Number       uint64
	StartedAt    time.Time
	CPU          *model.MetricSample
	CPUBreach    bool
	TopConsumers []model.ProcessRecord
	Disk         *model.MetricSample
	DiskBreach   bool
	Remediation  *model.RemediationResult
	Errors       []error
}

// RunCycle performs one sample-evaluate-act pass without the trailing pause.
// A failed check is logged and skipped; the other check still runs.
func (m *Monitor) RunCycle(ctx context.Context) CycleReport {
	report := CycleReport{
		ID:        uuid.New().String(),
		Number:    m.cycles.Add(1),
		StartedAt: time.Now(),
	}
	logger := m.logger.With("cycle", report.Number, "cycle_id", report.ID)
	logger.Debug("cycle started")

	m.setState(StateSamplingCPU)
	cpu, err := m.source.SampleCPU(ctx)
	if err != nil {
		report.Errors = append(report.Errors, err)
		logger.Error(fmt.Sprintf("CPU check skipped: %v", err))
		m.console.Error("CPU check failed: %v", err)
	} else {
		report.CPU = &cpu
		report.CPUBreach = policy.Exceeds(cpu, m.thresholds)
		if report.CPUBreach {
			logger.Warn(fmt.Sprintf("High CPU detected: %.1f%%", cpu.Value))
			m.console.Warn("HIGH CPU DETECTED: %.1f%%", cpu.Value)
			report.TopConsumers = m.rankConsumers(ctx, logger, &report)
		} else {
			logger.Info(fmt.Sprintf("CPU is healthy: %.1f%%", cpu.Value))
			m.console.Healthy("CPU is healthy: %.1f%%", cpu.Value)
		}
	}

	m.setState(StateSamplingDisk)
	usage, err := m.source.DiskUsage(ctx, m.opts.DiskPath)
	if err != nil {
		report.Errors = append(report.Errors, err)
		logger.Error(fmt.Sprintf("Disk check skipped for %s: %v", m.opts.DiskPath, err))
		m.console.Error("Disk check failed: %v", err)
		return report
	}
	disk := policy.DiskFreeSample(usage, time.Now())
	report.Disk = &disk
	report.DiskBreach = policy.Exceeds(disk, m.thresholds)
	if !report.DiskBreach {
		logger.Info(fmt.Sprintf("Disk is healthy: %.1f%% free", disk.Value))
		m.console.Healthy("Disk is healthy: %.1f%% free", disk.Value)
		return report
	}

	logger.Warn(fmt.Sprintf("Disk critical: %.1f%% free, starting auto-fix", disk.Value))
	m.console.Warn("DISK CRITICAL: %.1f%% free, starting auto-fix", disk.Value)
	m.setState(StateRemediating)
	res := m.cleaner.Clean(m.opts.ScratchDir)
	report.Remediation = &res
	for _, fe := range res.Errors {
		logger.Error(fmt.Sprintf("Auto-fix could not remove %s: %v", fe.Name, fe.Err))
		m.console.Error("could not remove %s: %v", fe.Name, fe.Err)
	}
	logger.Info(fmt.Sprintf("Auto-fix removed %d file(s) from %s", res.Removed, res.Target))
	m.console.Healthy("Auto-fix removed %d file(s) from %s", res.Removed, res.Target)
	return report
}

func (m *Monitor) rankConsumers(ctx context.Context, logger *slog.Logger, report *CycleReport) []model.ProcessRecord {
	m.setState(StateRanking)
	procs, err := m.source.ListProcesses(ctx)
	if err != nil {
		report.Errors = append(report.Errors, err)
		logger.Error(fmt.Sprintf("Process ranking skipped: %v", err))
		m.console.Error("Process ranking failed: %v", err)
		return nil
	}
	top := ranker.TopN(procs, m.opts.TopN)
	logger.Info("Top CPU consumers: " + formatConsumers(top))
	m.console.Warn("Top CPU consumers: %s", formatConsumers(top))
	return top
}

func formatConsumers(top []model.ProcessRecord) string {
	parts := make([]string, 0, len(top))
	for _, p := range top {
		parts = append(parts, p.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
