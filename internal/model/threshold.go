package model

const (
	DefaultCPUThresholdPercent      = 10.0
	DefaultDiskFreeThresholdPercent = 20.0
)

// ThresholdConfig is fixed at startup and handed to components by value.
type ThresholdConfig struct {
	CPUPercent      float64 `json:"cpu_percent" yaml:"cpu_percent"`
	DiskFreePercent float64 `json:"disk_free_percent" yaml:"disk_free_percent"`
}

func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		CPUPercent:      DefaultCPUThresholdPercent,
		DiskFreePercent: DefaultDiskFreeThresholdPercent,
	}
}
