package benchmark

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"slowbench/internal/command"
)

// NoJITFlag disables the JIT for a single run of the VM.
const NoJITFlag = "--no-jit"

// Executor runs one workload against the packaged VM.
type Executor interface {
	Run(ctx context.Context, artifact string, c Case, jit bool) RunResult
}

// ProcessExecutor implements Executor by launching the VM as a child process.
type ProcessExecutor struct {
	Runner command.Runner

	// Launcher is the program and leading arguments that execute the
	// artifact, e.g. ["java", "-jar"].
	Launcher []string
	// ExamplesDir is where workload files are resolved.
	ExamplesDir string
	// Timeout bounds each run. Zero means no limit.
	Timeout time.Duration
	// Diag receives the inline diagnostics for failed runs.
	Diag io.Writer

	now func() time.Time
}

// NewProcessExecutor returns an executor that runs "java -jar <artifact>".
func NewProcessExecutor(runner command.Runner, examplesDir string, diag io.Writer) *ProcessExecutor {
	return &ProcessExecutor{
		Runner:      runner,
		Launcher:    []string{"java", "-jar"},
		ExamplesDir: examplesDir,
		Diag:        diag,
		now:         time.Now,
	}
}

// Command builds the invocation for one run without starting it.
func (e *ProcessExecutor) Command(artifact, workloadPath string, args []string, jit bool) command.Command {
	argv := append([]string{}, e.Launcher[1:]...)
	argv = append(argv, artifact)
	if !jit {
		argv = append(argv, NoJITFlag)
	}
	argv = append(argv, "run", workloadPath)
	argv = append(argv, args...)
	return command.Command{Name: e.Launcher[0], Args: argv}
}

func (e *ProcessExecutor) Run(ctx context.Context, artifact string, c Case, jit bool) RunResult {
	path := filepath.Join(e.ExamplesDir, c.Workload)
	if _, err := os.Stat(path); err != nil {
		slog.Debug("Workload file not found", "path", path)
		e.diagf("File %s not found.\n", path)
		return Failed("file not found")
	}

	cmd := e.Command(artifact, path, c.Args, jit)
	slog.Debug("Running workload", "command", cmd.String(), "jit", jit)

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	now := e.now
	if now == nil {
		now = time.Now
	}

	start := now()
	res, err := e.Runner.Run(ctx, cmd)
	elapsed := now().Sub(start)

	if err != nil {
		slog.Debug("Run did not complete", "workload", c.Workload, "jit", jit, "error", err)
		e.diagf("Error running %s: %v\n", c.Workload, err)
		return Failed(err.Error())
	}
	if !res.Success() {
		slog.Debug("Run exited non-zero", "workload", c.Workload, "jit", jit, "exit_code", res.ExitCode)
		e.diagf("Error running %s: %s\n", c.Workload, strings.TrimRight(res.Stderr, "\n"))
		return Failed(fmt.Sprintf("exit status %d", res.ExitCode))
	}
	return Measured(elapsed)
}

func (e *ProcessExecutor) diagf(format string, args ...any) {
	if e.Diag != nil {
		fmt.Fprintf(e.Diag, format, args...)
	}
}
