package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ErrNotFound is returned when the program cannot be located on PATH.
var ErrNotFound = errors.New("executable not found")

// Command describes one child process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string

	// Stdout receives the child's standard output. Nil discards it.
	Stdout io.Writer
	// Stderr, if set, receives a copy of the child's standard error.
	// The error stream is always captured into Result.Stderr as well.
	Stderr io.Writer
}

// String renders the command line in shell-quoted form.
func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Result is the outcome of a process that was started and ran to exit.
type Result struct {
	ExitCode int
	Stderr   string
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner starts a command and blocks until it exits.
// A non-zero exit is reported through Result, not as an error; the error
// return is reserved for processes that could not be launched or were
// killed because ctx ended.
type Runner interface {
	Run(ctx context.Context, c Command) (Result, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, c Command) (Result, error)

func (f RunnerFunc) Run(ctx context.Context, c Command) (Result, error) {
	return f(ctx, c)
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct{}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// execCommand allows mocking in tests.
var execCommand = exec.CommandContext

func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := execCommand(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	if c.Stdout != nil {
		cmd.Stdout = c.Stdout
	} else {
		cmd.Stdout = io.Discard
	}

	var stderr bytes.Buffer
	if c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, c.Stderr)
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	if err == nil {
		return Result{Stderr: stderr.String()}, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, c.Name)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{Stderr: stderr.String()}, fmt.Errorf("%s: %w", c.Name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}, nil
	}
	return Result{}, fmt.Errorf("failed to start %s: %w", c.Name, err)
}

// Split parses a shell-quoted argument string such as
// "clean package -DskipTests".
func Split(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return shellquote.Split(s)
}
