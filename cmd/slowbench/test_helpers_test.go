package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"slowbench/internal/command"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// fakeRunner stands in for mvn, java and git.
type fakeRunner struct {
	calls       []command.Command
	buildResult command.Result
	buildErr    error
	// java runs of this workload exit 1 with "boom" on stderr
	failWorkload string
}

func (f *fakeRunner) Run(ctx context.Context, c command.Command) (command.Result, error) {
	f.calls = append(f.calls, c)
	switch c.Name {
	case "mvn":
		return f.buildResult, f.buildErr
	case "git":
		if c.Stdout != nil && len(c.Args) > 0 {
			switch c.Args[0] {
			case "rev-parse":
				io.WriteString(c.Stdout, "abc1234\n")
			case "branch":
				io.WriteString(c.Stdout, "main\n")
			}
		}
		return command.Result{}, nil
	case "java":
		time.Sleep(time.Millisecond)
		if f.failWorkload != "" && filepath.Base(workloadOf(c)) == f.failWorkload {
			return command.Result{ExitCode: 1, Stderr: "boom"}, nil
		}
		return command.Result{}, nil
	}
	return command.Result{}, command.ErrNotFound
}

func (f *fakeRunner) callsTo(name string) []command.Command {
	var out []command.Command
	for _, c := range f.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func workloadOf(c command.Command) string {
	for i, a := range c.Args {
		if a == "run" && i+1 < len(c.Args) {
			return c.Args[i+1]
		}
	}
	return ""
}

type testProject struct {
	root     string
	target   string
	examples string
	history  string
}

// setupProject lays out a built project with one workload file and points
// the configuration at it through the environment.
func setupProject(t *testing.T, runner *fakeRunner) testProject {
	t.Helper()
	base := t.TempDir()
	t.Chdir(base)

	p := testProject{
		root:     filepath.Join(base, "language"),
		examples: filepath.Join(base, "examples"),
		history:  filepath.Join(base, "state", "history.json"),
	}
	p.target = filepath.Join(p.root, "target")
	require.NoError(t, os.MkdirAll(p.target, 0755))
	require.NoError(t, os.MkdirAll(p.examples, 0755))
	for _, jar := range []string{"language-1.0-SNAPSHOT.jar", "language-1.0-SNAPSHOT-jar-with-dependencies.jar"} {
		require.NoError(t, os.WriteFile(filepath.Join(p.target, jar), []byte("PK"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(p.examples, "fibonacci.sr"), []byte("fn main() {}"), 0644))

	t.Setenv("SLOWBENCH_PROJECT_ROOT", p.root)
	t.Setenv("SLOWBENCH_EXAMPLES_DIR", p.examples)
	t.Setenv("SLOWBENCH_HISTORY_PATH", p.history)
	t.Setenv("SLOWBENCH_BUILD_TOOL", "mvn")

	oldRunner := newCommandRunner
	newCommandRunner = func() command.Runner { return runner }
	t.Cleanup(func() { newCommandRunner = oldRunner })
	return p
}

// executeCommand runs a fresh command tree and returns stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	oldLogger := slog.Default()
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		slog.SetDefault(oldLogger)
	})

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(bytes.NewBufferString(""))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

// tableRows returns the report lines between the two rules.
func tableRows(out string) []string {
	rule := strings.Repeat("-", 100)
	lines := strings.Split(out, "\n")
	var rows []string
	inside := false
	for _, l := range lines {
		if l == rule {
			if inside {
				break
			}
			inside = true
			continue
		}
		if inside {
			rows = append(rows, l)
		}
	}
	return rows
}
