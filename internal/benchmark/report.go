package benchmark

import (
	"fmt"
	"io"
	"strings"
)

const ruleWidth = 100

// TableReporter prints the fixed-width comparison table.
type TableReporter struct {
	out io.Writer
}

func NewTableReporter(out io.Writer) *TableReporter {
	return &TableReporter{out: out}
}

func (t *TableReporter) Begin() {
	fmt.Fprintf(t.out, "%-25s | %-30s | %-10s | %-12s | %-10s\n",
		"Benchmark", "Args", "JIT (ms)", "No-JIT (ms)", "Speedup")
	t.rule()
}

func (t *TableReporter) Row(row ComparisonRow) {
	fmt.Fprintf(t.out, "%-25s | %-30s | %10s | %12s | %10s\n",
		row.Case.Workload, row.Case.ArgString(), row.JIT.Format(), row.NoJIT.Format(), row.FormatSpeedup())
}

func (t *TableReporter) End() {
	t.rule()
}

func (t *TableReporter) rule() {
	fmt.Fprintln(t.out, strings.Repeat("-", ruleWidth))
}
