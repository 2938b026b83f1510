package model

import "fmt"

type ProcessRecord struct {
	PID        int32   `json:"pid"`
	Name       string  `json:"name"`
	CPUPercent float64 `json:"cpu_percent"`
}

func (p ProcessRecord) String() string {
	return fmt.Sprintf("pid=%d name=%s cpu=%.1f%%", p.PID, p.Name, p.CPUPercent)
}
