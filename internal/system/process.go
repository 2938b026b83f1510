package system

import "hostmon/internal/model"

// idlePID is the kernel's idle placeholder. It is never a useful culprit.
const idlePID int32 = 0

// collectProcesses maps pids to records over a copy of the snapshot, dropping any pid
// that fails inspection and the idle placeholder.
func collectProcesses(pids []int32, inspect func(int32) (model.ProcessRecord, error)) []model.ProcessRecord {
	snapshot := append([]int32(nil), pids...)
	out := make([]model.ProcessRecord, 0, len(snapshot))
	for _, pid := range snapshot {
		if pid == idlePID {
			continue
		}
		rec, err := inspect(pid)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}
