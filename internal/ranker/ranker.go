package ranker

import (
	"cmp"
	"slices"

	"hostmon/internal/model"
)

const DefaultTopN = 3

// TopN returns the n heaviest CPU consumers, highest first. Equal values keep their
// discovery order. The input slice is left untouched.
func TopN(records []model.ProcessRecord, n int) []model.ProcessRecord {
	if n <= 0 || len(records) == 0 {
		return []model.ProcessRecord{}
	}
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.ProcessRecord) int {
		return cmp.Compare(b.CPUPercent, a.CPUPercent)
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
