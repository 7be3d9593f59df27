package benchmark

import (
	"fmt"
	"strings"
	"time"
)

// Case is one workload file plus the arguments passed to it.
type Case struct {
	Workload string   `json:"workload"`
	Args     []string `json:"args"`
}

// ArgString joins the arguments the way they are shown in the report.
func (c Case) ArgString() string {
	return strings.Join(c.Args, " ")
}

func (c Case) String() string {
	if len(c.Args) == 0 {
		return c.Workload
	}
	return c.Workload + " " + c.ArgString()
}

// RunResult is the outcome of a single timed invocation.
// A zero RunResult is a failure.
type RunResult struct {
	OK     bool
	Millis float64
	Reason string // why the run failed; never rendered in the table
}

// Measured returns a successful result.
func Measured(d time.Duration) RunResult {
	return RunResult{OK: true, Millis: float64(d.Nanoseconds()) / float64(time.Millisecond)}
}

// Failed returns a failure marker.
func Failed(reason string) RunResult {
	return RunResult{Reason: reason}
}

// Format renders the time cell: milliseconds with two decimals, or FAIL.
func (r RunResult) Format() string {
	if !r.OK {
		return "FAIL"
	}
	return fmt.Sprintf("%.2f", r.Millis)
}

// ComparisonRow pairs the JIT and no-JIT measurements of one Case.
type ComparisonRow struct {
	Case  Case
	JIT   RunResult
	NoJIT RunResult
}

// Speedup returns NoJIT/JIT. ok is false unless both runs succeeded
// and the JIT time is strictly positive.
func (r ComparisonRow) Speedup() (ratio float64, ok bool) {
	if !r.JIT.OK || !r.NoJIT.OK || r.JIT.Millis <= 0 {
		return 0, false
	}
	return r.NoJIT.Millis / r.JIT.Millis, true
}

// FormatSpeedup renders the speedup cell, e.g. "2.50x" or "N/A".
func (r ComparisonRow) FormatSpeedup() string {
	ratio, ok := r.Speedup()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2fx", ratio)
}

// RowRecord is the persisted form of a ComparisonRow.
type RowRecord struct {
	Workload    string   `json:"workload"`
	Args        []string `json:"args"`
	JITMillis   *float64 `json:"jit_ms,omitempty"`
	NoJITMillis *float64 `json:"no_jit_ms,omitempty"`
	Speedup     *float64 `json:"speedup,omitempty"`
}

// Record converts the row for storage. Failed runs are stored as nil.
func (r ComparisonRow) Record() RowRecord {
	rec := RowRecord{Workload: r.Case.Workload, Args: r.Case.Args}
	if r.JIT.OK {
		v := r.JIT.Millis
		rec.JITMillis = &v
	}
	if r.NoJIT.OK {
		v := r.NoJIT.Millis
		rec.NoJITMillis = &v
	}
	if s, ok := r.Speedup(); ok {
		rec.Speedup = &s
	}
	return rec
}

// Key identifies the case a record belongs to across sessions.
func (r RowRecord) Key() string {
	return Case{Workload: r.Workload, Args: r.Args}.String()
}

// Session represents the rows produced by one harness invocation.
type Session struct {
	ID        int64       `json:"id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Artifact  string      `json:"artifact"`
	Commit    string      `json:"commit,omitempty"` // Git commit hash
	Branch    string      `json:"branch,omitempty"`
	Rows      []RowRecord `json:"rows"`
}

// NewSession captures rows for persistence.
func NewSession(artifact string, rows []ComparisonRow) Session {
	s := Session{Timestamp: time.Now(), Artifact: artifact}
	for _, r := range rows {
		s.Rows = append(s.Rows, r.Record())
	}
	return s
}
