package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"slowbench/internal/command"
)

var (
	// ErrBuildFailed is returned when the build tool exits non-zero.
	ErrBuildFailed = errors.New("build failed")
	// ErrBuildToolNotFound is returned when the build tool is not on PATH.
	ErrBuildToolNotFound = errors.New("build tool not found")
)

// DefaultArgs are the Maven goals for "clean and package, skipping tests".
var DefaultArgs = []string{"clean", "package", "-DskipTests"}

// DefaultTool returns the Maven launcher name for the current platform.
func DefaultTool() string {
	if runtime.GOOS == "windows" {
		return "mvn.cmd"
	}
	return "mvn"
}

// Trigger runs the external build once in the project root.
type Trigger struct {
	Runner      command.Runner
	Tool        string
	Args        []string
	ProjectRoot string

	// Output receives the build tool's stdout and stderr.
	Output io.Writer
}

// Run blocks until the build finishes. A nil error means the package step
// succeeded; otherwise the error wraps ErrBuildFailed or ErrBuildToolNotFound.
func (t *Trigger) Run(ctx context.Context) error {
	tool := t.Tool
	if tool == "" {
		tool = DefaultTool()
	}
	args := t.Args
	if args == nil {
		args = DefaultArgs
	}

	c := command.Command{
		Name:   tool,
		Args:   args,
		Dir:    t.ProjectRoot,
		Stdout: t.Output,
		Stderr: t.Output,
	}
	slog.Debug("Starting build", "command", c.String(), "dir", t.ProjectRoot)

	res, err := t.Runner.Run(ctx, c)
	if err != nil {
		if errors.Is(err, command.ErrNotFound) {
			return fmt.Errorf("%w: Maven executable '%s' not found in PATH", ErrBuildToolNotFound, tool)
		}
		return fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	if !res.Success() {
		slog.Debug("Build exited non-zero", "exit_code", res.ExitCode)
		return fmt.Errorf("%w (%s exited with status %d), please check Maven output", ErrBuildFailed, tool, res.ExitCode)
	}
	return nil
}
