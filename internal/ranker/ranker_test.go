package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostmon/internal/model"
)

func procs(cpus ...float64) []model.ProcessRecord {
	out := make([]model.ProcessRecord, 0, len(cpus))
	for i, c := range cpus {
		out = append(out, model.ProcessRecord{PID: int32(i + 1), Name: "p", CPUPercent: c})
	}
	return out
}

func cpuOf(recs []model.ProcessRecord) []float64 {
	out := make([]float64, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.CPUPercent)
	}
	return out
}

func TestTopN(t *testing.T) {
	tests := []struct {
		name string
		in   []model.ProcessRecord
		n    int
		want []float64
	}{
		{name: "empty input", in: nil, n: 3, want: []float64{}},
		{name: "fewer than n", in: procs(1, 5), n: 3, want: []float64{5, 1}},
		{name: "truncates", in: procs(3, 9, 1, 7, 5), n: 3, want: []float64{9, 7, 5}},
		{name: "zero n", in: procs(3, 9), n: 0, want: []float64{}},
		{name: "negative n", in: procs(3, 9), n: -1, want: []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopN(tt.in, tt.n)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, cpuOf(got))
			assert.Len(t, got, min(max(tt.n, 0), len(tt.in)))
		})
	}
}

func TestTopNStableOnTies(t *testing.T) {
	in := []model.ProcessRecord{
		{PID: 10, Name: "a", CPUPercent: 4},
		{PID: 11, Name: "b", CPUPercent: 8},
		{PID: 12, Name: "c", CPUPercent: 4},
		{PID: 13, Name: "d", CPUPercent: 4},
	}
	got := TopN(in, 3)

	require.Len(t, got, 3)
	assert.Equal(t, int32(11), got[0].PID)
	assert.Equal(t, int32(10), got[1].PID)
	assert.Equal(t, int32(12), got[2].PID)
}

func TestTopNIdempotent(t *testing.T) {
	in := procs(2, 8, 8, 1, 6, 3)
	once := TopN(in, len(in))
	twice := TopN(once, len(once))

	assert.Equal(t, once, twice)
}

func TestTopNLeavesInputAlone(t *testing.T) {
	in := procs(1, 3, 2)
	_ = TopN(in, 2)

	assert.Equal(t, []float64{1, 3, 2}, cpuOf(in))
}
