package monitor

type State int

const (
	StateIdle State = iota
	StateSamplingCPU
	StateRanking
	StateSamplingDisk
	StateRemediating
	StateSleeping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSamplingCPU:
		return "sampling_cpu"
	case StateRanking:
		return "ranking"
	case StateSamplingDisk:
		return "sampling_disk"
	case StateRemediating:
		return "remediating"
	case StateSleeping:
		return "sleeping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
