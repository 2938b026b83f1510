package agent

import (
	"math"
	"sync/atomic"
	"time"

	"hostmon/internal/monitor"
)

// HealthStatus is the agent's view of the last cycle. The monitor goroutine writes it and
// the probe and debug logging read it.
type HealthStatus struct {
	createdAt     time.Time
	running       atomic.Bool
	lastCycleAt   atomic.Int64
	cycles        atomic.Uint64
	lastCPUBits   atomic.Uint64
	lastDiskBits  atomic.Uint64
	cpuBreaches   atomic.Uint64
	diskBreaches  atomic.Uint64
	filesRemoved  atomic.Uint64
	checkFailures atomic.Uint64
}

func NewHealthStatus() *HealthStatus {
	h := &HealthStatus{createdAt: time.Now()}
	h.running.Store(true)
	h.lastCPUBits.Store(math.Float64bits(math.NaN()))
	h.lastDiskBits.Store(math.Float64bits(math.NaN()))
	return h
}

func (h *HealthStatus) SetRunning(ok bool) {
	h.running.Store(ok)
}

func (h *HealthStatus) Running() bool {
	return h.running.Load()
}

// Fresh reports whether the monitor is running and its last cycle started within maxAge of now.
// Before the first cycle the age counts from when the status was created.
func (h *HealthStatus) Fresh(now time.Time, maxAge time.Duration) bool {
	if !h.running.Load() {
		return false
	}
	last := h.createdAt
	if v := h.lastCycleAt.Load(); v > 0 {
		last = time.Unix(0, v)
	}
	return now.Sub(last) <= maxAge
}

func (h *HealthStatus) Observe(r monitor.CycleReport) {
	h.cycles.Store(r.Number)
	h.lastCycleAt.Store(r.StartedAt.UnixNano())
	if r.CPU != nil {
		h.lastCPUBits.Store(math.Float64bits(r.CPU.Value))
	}
	if r.Disk != nil {
		h.lastDiskBits.Store(math.Float64bits(r.Disk.Value))
	}
	if r.CPUBreach {
		h.cpuBreaches.Add(1)
	}
	if r.DiskBreach {
		h.diskBreaches.Add(1)
	}
	if r.Remediation != nil {
		h.filesRemoved.Add(uint64(r.Remediation.Removed))
	}
	h.checkFailures.Add(uint64(len(r.Errors)))
}

func (h *HealthStatus) Snapshot() map[string]any {
	out := map[string]any{
		"running":        h.running.Load(),
		"cycles":         h.cycles.Load(),
		"cpu_breaches":   h.cpuBreaches.Load(),
		"disk_breaches":  h.diskBreaches.Load(),
		"files_removed":  h.filesRemoved.Load(),
		"check_failures": h.checkFailures.Load(),
	}
	if v := h.lastCycleAt.Load(); v > 0 {
		out["last_cycle_at"] = time.Unix(0, v).UTC()
	}
	if v := math.Float64frombits(h.lastCPUBits.Load()); !math.IsNaN(v) {
		out["last_cpu_percent"] = v
	}
	if v := math.Float64frombits(h.lastDiskBits.Load()); !math.IsNaN(v) {
		out["last_disk_free_percent"] = v
	}
	return out
}
