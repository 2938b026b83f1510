package model

import "time"

type MetricKind string

const (
	MetricKindCPU      MetricKind = "cpu_percent"
	MetricKindDiskFree MetricKind = "disk_free_percent"
)

// MetricSample is a single point-in-time reading. It lives for one cycle.
type MetricSample struct {
	Kind      MetricKind `json:"kind"`
	Value     float64    `json:"value"`
	Timestamp time.Time  `json:"timestamp"`
}
