package system

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/process"

	"hostmon/internal/model"
)

// HostSource reads the local host through gopsutil.
type HostSource struct {
	window time.Duration
}

func NewHostSource(window time.Duration) *HostSource {
	if window <= 0 {
		window = DefaultCPUWindow
	}
	return &HostSource{window: window}
}

func (s *HostSource) Window() time.Duration {
	return s.window
}

func (s *HostSource) SampleCPU(ctx context.Context) (model.MetricSample, error) {
	vals, err := cpu.PercentWithContext(ctx, s.window, false)
	if err != nil {
		return model.MetricSample{}, fmt.Errorf("%w: cpu percent: %v", ErrMetricsUnavailable, err)
	}
	if len(vals) == 0 {
		return model.MetricSample{}, fmt.Errorf("%w: cpu percent: empty result", ErrMetricsUnavailable)
	}
	return model.MetricSample{
		Kind:      model.MetricKindCPU,
		Value:     clampPercent(vals[0]),
		Timestamp: time.Now(),
	}, nil
}

func (s *HostSource) ListProcesses(ctx context.Context) ([]model.ProcessRecord, error) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list pids: %v", ErrMetricsUnavailable, err)
	}
	return collectProcesses(pids, func(pid int32) (model.ProcessRecord, error) {
		return inspectProcess(ctx, pid)
	}), nil
}

func (s *HostSource) DiskUsage(ctx context.Context, path string) (model.DiskUsage, error) {
	st, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return model.DiskUsage{}, fmt.Errorf("%w: %s: %v", ErrPathUnreadable, path, err)
	}
	if st.Total == 0 {
		return model.DiskUsage{}, fmt.Errorf("%w: %s: volume reports zero capacity", ErrPathUnreadable, path)
	}
	return model.DiskUsage{Path: path, FreeBytes: st.Free, TotalBytes: st.Total}, nil
}

func inspectProcess(ctx context.Context, pid int32) (model.ProcessRecord, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return model.ProcessRecord{}, err
	}
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return model.ProcessRecord{}, err
	}
	pct, err := p.CPUPercentWithContext(ctx)
	if err != nil {
		return model.ProcessRecord{}, err
	}
	return model.ProcessRecord{PID: pid, Name: name, CPUPercent: pct}, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
