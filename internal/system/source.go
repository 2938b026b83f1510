package system

import (
	"context"
	"errors"
	"time"

	"hostmon/internal/model"
)

var (
	ErrMetricsUnavailable = errors.New("metrics unavailable")
	ErrPathUnreadable     = errors.New("path unreadable")
)

const DefaultCPUWindow = time.Second

// Source reads host metrics. Implementations must be safe to call from a single goroutine;
// no method retries on failure.
type Source interface {
	// SampleCPU blocks for the measurement window and returns aggregate utilization
	// across all logical CPUs, normalized to 0-100.
	SampleCPU(ctx context.Context) (model.MetricSample, error)

	// ListProcesses returns visible processes in discovery order. Processes that vanish
	// or deny access mid-enumeration are left out rather than failing the call.
	ListProcesses(ctx context.Context) ([]model.ProcessRecord, error)

	// DiskUsage reports free and total bytes of the volume holding path.
	DiskUsage(ctx context.Context, path string) (model.DiskUsage, error)
}
