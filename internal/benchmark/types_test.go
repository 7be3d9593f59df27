package benchmark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonRow_Speedup(t *testing.T) {
	tests := []struct {
		name    string
		row     ComparisonRow
		want    string
		jitCell string
		noCell  string
	}{
		{
			name:    "both succeeded",
			row:     ComparisonRow{JIT: RunResult{OK: true, Millis: 5.0}, NoJIT: RunResult{OK: true, Millis: 12.5}},
			want:    "2.50x",
			jitCell: "5.00",
			noCell:  "12.50",
		},
		{
			name:    "no-jit failed",
			row:     ComparisonRow{JIT: RunResult{OK: true, Millis: 5.0}, NoJIT: Failed("exit status 1")},
			want:    "N/A",
			jitCell: "5.00",
			noCell:  "FAIL",
		},
		{
			name:    "jit failed",
			row:     ComparisonRow{JIT: Failed("file not found"), NoJIT: RunResult{OK: true, Millis: 3}},
			want:    "N/A",
			jitCell: "FAIL",
			noCell:  "3.00",
		},
		{
			name:    "zero jit time",
			row:     ComparisonRow{JIT: RunResult{OK: true, Millis: 0}, NoJIT: RunResult{OK: true, Millis: 3}},
			want:    "N/A",
			jitCell: "0.00",
			noCell:  "3.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.row.FormatSpeedup())
			assert.Equal(t, tt.jitCell, tt.row.JIT.Format())
			assert.Equal(t, tt.noCell, tt.row.NoJIT.Format())
		})
	}
}

func TestFailedResultCarriesNoTime(t *testing.T) {
	r := Failed("boom")
	assert.False(t, r.OK)
	assert.Zero(t, r.Millis)

	var zero RunResult
	assert.Equal(t, "FAIL", zero.Format())
}

func TestMeasured(t *testing.T) {
	r := Measured(1500 * time.Microsecond)
	assert.True(t, r.OK)
	assert.InDelta(t, 1.5, r.Millis, 1e-9)
}

func TestCaseStrings(t *testing.T) {
	c := Case{Workload: "quick_sort.sr", Args: []string{"1000", "-1000000000", "1000000000"}}
	assert.Equal(t, "1000 -1000000000 1000000000", c.ArgString())
	assert.Equal(t, "quick_sort.sr 1000 -1000000000 1000000000", c.String())
	assert.Equal(t, "nbody.sr", Case{Workload: "nbody.sr"}.String())
}

func TestNewSession(t *testing.T) {
	rows := []ComparisonRow{
		{Case: Case{"fibonacci.sr", []string{"10"}}, JIT: RunResult{OK: true, Millis: 5}, NoJIT: RunResult{OK: true, Millis: 12.5}},
		{Case: Case{"nbody.sr", nil}, JIT: RunResult{OK: true, Millis: 5}, NoJIT: Failed("x")},
	}

	s := NewSession("target/app.jar", rows)
	assert.Equal(t, "target/app.jar", s.Artifact)
	require.Len(t, s.Rows, 2)

	require.NotNil(t, s.Rows[0].Speedup)
	assert.InDelta(t, 2.5, *s.Rows[0].Speedup, 1e-9)
	assert.Nil(t, s.Rows[1].NoJITMillis)
	assert.Nil(t, s.Rows[1].Speedup)
	require.NotNil(t, s.Rows[1].JITMillis)
	assert.Equal(t, 5.0, *s.Rows[1].JITMillis)
}

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	require.Len(t, cat, 35)
	assert.Equal(t, Case{"factorial.sr", []string{"10"}}, cat[0])
	assert.Equal(t, Case{"merge_sort.sr", []string{"1000", "-1000000000", "1000000000"}}, cat[15])
	assert.Equal(t, "nbody.sr", cat[24].Workload)
	assert.Empty(t, cat[24].Args)
	assert.Equal(t, Case{"jit_dead_code_elimination.sr", []string{"900"}}, cat[34])

	// Fresh copy on every call.
	cat[0].Args[0] = "mutated"
	assert.Equal(t, "10", DefaultCatalog()[0].Args[0])
}
