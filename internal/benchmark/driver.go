package benchmark

import (
	"context"
	"log/slog"

	"slowbench/internal/metrics"
)

// Reporter receives rows as soon as they are measured.
type Reporter interface {
	Begin()
	Row(row ComparisonRow)
	End()
}

// Driver runs every Case of a catalog with and without the JIT.
type Driver struct {
	Executor Executor
	Artifact string
	Catalog  []Case
	Reporter Reporter
	Metrics  *metrics.Metrics // optional
}

// Run measures the catalog in order. Each Case is attempted exactly once
// per mode, JIT first. Per-run failures are part of the returned rows; the
// only error is ctx's, in which case the fully measured rows are returned.
func (d *Driver) Run(ctx context.Context) ([]ComparisonRow, error) {
	if d.Reporter != nil {
		d.Reporter.Begin()
		defer d.Reporter.End()
	}

	rows := make([]ComparisonRow, 0, len(d.Catalog))
	for _, c := range d.Catalog {
		if err := ctx.Err(); err != nil {
			slog.Info("Benchmark run interrupted", "completed", len(rows), "total", len(d.Catalog))
			return rows, err
		}

		row := ComparisonRow{Case: c}
		row.JIT = d.measure(ctx, c, true)
		if err := ctx.Err(); err != nil {
			// Only complete pairs are reported.
			slog.Info("Benchmark run interrupted", "completed", len(rows), "total", len(d.Catalog))
			return rows, err
		}
		row.NoJIT = d.measure(ctx, c, false)

		if ratio, ok := row.Speedup(); ok {
			d.Metrics.RecordSpeedup(c.Workload, c.ArgString(), ratio)
		}
		if d.Reporter != nil {
			d.Reporter.Row(row)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (d *Driver) measure(ctx context.Context, c Case, jit bool) RunResult {
	res := d.Executor.Run(ctx, d.Artifact, c, jit)
	d.Metrics.RecordRun(metrics.Mode(jit), res.OK, res.Millis)
	return res
}
