// Package policy decides whether a metric sample is a breach.
//
// CPU is high-is-bad and breaches strictly above its threshold. Disk free space is
// low-is-bad and breaches strictly below its threshold. A value equal to the threshold
// never breaches in either direction.
package policy

import (
	"time"

	"hostmon/internal/model"
)

func ExceedsCPU(percent, threshold float64) bool {
	return percent > threshold
}

func ExceedsDisk(freePercent, threshold float64) bool {
	return freePercent < threshold
}

// Exceeds evaluates a sample against the threshold matching its kind.
// Unknown kinds never breach.
func Exceeds(s model.MetricSample, cfg model.ThresholdConfig) bool {
	switch s.Kind {
	case model.MetricKindCPU:
		return ExceedsCPU(s.Value, cfg.CPUPercent)
	case model.MetricKindDiskFree:
		return ExceedsDisk(s.Value, cfg.DiskFreePercent)
	default:
		return false
	}
}

func DiskFreeSample(u model.DiskUsage, at time.Time) model.MetricSample {
	return model.MetricSample{
		Kind:      model.MetricKindDiskFree,
		Value:     u.FreePercent(),
		Timestamp: at,
	}
}
