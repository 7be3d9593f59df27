package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"slowbench/internal/artifact"
	"slowbench/internal/benchmark"
	"slowbench/internal/build"
	"slowbench/internal/command"
	"slowbench/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCmd(t *testing.T) {
	runner := &fakeRunner{}
	p := setupProject(t, runner)

	out, errOut, err := executeCommand(t, "run")
	require.NoError(t, err)

	jar := filepath.Join(p.target, "language-1.0-SNAPSHOT-jar-with-dependencies.jar")
	assert.Contains(t, out, "Building project with Maven...")
	assert.Contains(t, out, "Build successful.")
	assert.Contains(t, out, "Using JAR: "+jar)
	assert.Contains(t, out, "Benchmark                 | Args")

	builds := runner.callsTo("mvn")
	require.Len(t, builds, 1)
	assert.Equal(t, p.root, builds[0].Dir)
	assert.Equal(t, []string{"clean", "package", "-DskipTests"}, builds[0].Args)
	assert.Equal(t, "mvn", runner.calls[0].Name, "build must run first")

	// Only fibonacci.sr exists: 5 cases, two runs each.
	runs := runner.callsTo("java")
	require.Len(t, runs, 10)
	for i := 0; i < len(runs); i += 2 {
		assert.NotContains(t, runs[i].Args, benchmark.NoJITFlag)
		assert.Contains(t, runs[i+1].Args, benchmark.NoJITFlag)
		assert.Equal(t, jar, runs[i].Args[1])
		assert.Equal(t, runs[i].Args[len(runs[i].Args)-1], runs[i+1].Args[len(runs[i+1].Args)-1])
	}

	rows := tableRows(out)
	require.Len(t, rows, 35, "every catalog case gets a row")
	assert.True(t, strings.HasPrefix(rows[0], "factorial.sr"))
	assert.True(t, strings.HasSuffix(rows[0], "FAIL |         FAIL |        N/A"))
	assert.True(t, strings.HasPrefix(rows[10], "fibonacci.sr"))
	assert.True(t, strings.HasSuffix(rows[10], "x"), rows[10])

	assert.Contains(t, errOut, "File "+filepath.Join(p.examples, "factorial.sr")+" not found.")
}

func TestRunCmd_BuildFailed(t *testing.T) {
	runner := &fakeRunner{buildResult: command.Result{ExitCode: 1}}
	setupProject(t, runner)

	out, _, err := executeCommand(t, "run")
	require.Error(t, err)
	assert.ErrorIs(t, err, build.ErrBuildFailed)
	assert.EqualError(t, err, "build failed (mvn exited with status 1), please check Maven output")
	assert.Empty(t, runner.callsTo("java"))
	assert.NotContains(t, out, "Benchmark")
	assert.NotContains(t, out, "Build successful.")
}

func TestRunCmd_BuildToolMissing(t *testing.T) {
	runner := &fakeRunner{buildErr: command.ErrNotFound}
	setupProject(t, runner)

	_, _, err := executeCommand(t, "run")
	assert.ErrorIs(t, err, build.ErrBuildToolNotFound)
	assert.Empty(t, runner.callsTo("java"))
}

func TestRunCmd_NoTargetDir(t *testing.T) {
	runner := &fakeRunner{}
	setupProject(t, runner)
	t.Setenv("SLOWBENCH_TARGET_DIR", filepath.Join(t.TempDir(), "missing"))

	_, _, err := executeCommand(t, "run")
	assert.ErrorIs(t, err, artifact.ErrOutputDirMissing)
	assert.Empty(t, runner.callsTo("java"))
}

func TestRunCmd_NoArtifact(t *testing.T) {
	runner := &fakeRunner{}
	setupProject(t, runner)
	t.Setenv("SLOWBENCH_TARGET_DIR", t.TempDir())

	_, _, err := executeCommand(t, "run")
	assert.ErrorIs(t, err, artifact.ErrNoArtifact)
}

func TestRunCmd_SkipBuild(t *testing.T) {
	runner := &fakeRunner{}
	setupProject(t, runner)

	out, _, err := executeCommand(t, "run", "--skip-build")
	require.NoError(t, err)
	assert.Empty(t, runner.callsTo("mvn"))
	assert.NotContains(t, out, "Building project")
	assert.Len(t, runner.callsTo("java"), 10)
}

func TestRunCmd_RunFailureIsNotFatal(t *testing.T) {
	runner := &fakeRunner{failWorkload: "fibonacci.sr"}
	setupProject(t, runner)

	out, errOut, err := executeCommand(t, "run", "--skip-build")
	require.NoError(t, err)

	assert.Contains(t, errOut, "Error running fibonacci.sr: boom")
	for _, row := range tableRows(out) {
		assert.True(t, strings.HasSuffix(row, "N/A"), row)
	}
}

func TestRunCmd_CustomLauncher(t *testing.T) {
	runner := &fakeRunner{}
	setupProject(t, runner)
	t.Setenv("SLOWBENCH_LAUNCHER", "java -Xss16m -jar")

	_, _, err := executeCommand(t, "run", "--skip-build")
	require.NoError(t, err)

	runs := runner.callsTo("java")
	require.NotEmpty(t, runs)
	assert.Equal(t, []string{"-Xss16m", "-jar"}, runs[0].Args[:2])
}

func TestRunCmd_InvalidConfig(t *testing.T) {
	runner := &fakeRunner{}
	setupProject(t, runner)
	t.Setenv("SLOWBENCH_HISTORY_DRIVER", "mongo")

	_, _, err := executeCommand(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history.driver")
	assert.Empty(t, runner.calls)
}

func TestRunCmd_SaveAndCompare(t *testing.T) {
	for _, driver := range []string{"json", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			runner := &fakeRunner{}
			p := setupProject(t, runner)
			t.Setenv("SLOWBENCH_HISTORY_DRIVER", driver)

			out, _, err := executeCommand(t, "run", "--skip-build", "--compare")
			require.NoError(t, err)
			assert.Contains(t, out, "No previous session to compare against.")

			out, _, err = executeCommand(t, "run", "--skip-build", "--save")
			require.NoError(t, err)
			assert.Contains(t, out, "Results saved to "+p.history)

			out, _, err = executeCommand(t, "run", "--skip-build", "--compare", "--save")
			require.NoError(t, err)
			assert.Contains(t, out, "Comparison with session 1")
			assert.Contains(t, out, "fibonacci.sr 10")

			out, _, err = executeCommand(t, "history")
			require.NoError(t, err)
			assert.Contains(t, out, "abc1234")
			assert.Contains(t, out, "BRANCH")
			assert.Contains(t, out, "main")
			lines := strings.Split(strings.TrimSpace(out), "\n")
			assert.Len(t, lines, 3) // header + 2 sessions

			out, _, err = executeCommand(t, "history", "--limit", "1")
			require.NoError(t, err)
			lines = strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, 2)
			assert.True(t, strings.HasPrefix(lines[1], "2 "), lines[1])
		})
	}
}

func TestRunCmd_HistoryErrorIsNotFatal(t *testing.T) {
	runner := &fakeRunner{}
	setupProject(t, runner)

	old := newStoreFunc
	newStoreFunc = func(driver, path string) (benchmark.Store, error) {
		return nil, errors.New("disk full")
	}
	t.Cleanup(func() { newStoreFunc = old })

	_, errOut, err := executeCommand(t, "run", "--skip-build", "--save")
	require.NoError(t, err)
	assert.Contains(t, errOut, "disk full")
}

func TestRunCmd_MetricsServer(t *testing.T) {
	runner := &fakeRunner{}
	setupProject(t, runner)

	_, errOut, err := executeCommand(t, "run", "--skip-build", "--metrics-addr", "127.0.0.1:0")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "failed to start metrics server")

	_, errOut, err = executeCommand(t, "run", "--skip-build", "--metrics-addr", "not-an-address")
	require.NoError(t, err)
	assert.Contains(t, errOut, "failed to start metrics server")
}

func TestHistoryLocation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"file", config.Config{HistoryDriver: config.HistoryJSON, HistoryPath: ".slowbench/history.json"}, ".slowbench/history.json"},
		{"url dsn", config.Config{HistoryDriver: config.HistoryPostgres, HistoryPath: "postgres://bench:secret@db:5432/history"}, "postgres://bench:xxxxx@db:5432/history"},
		{"keyword dsn", config.Config{HistoryDriver: config.HistoryPostgres, HistoryPath: "host=db user=bench password=secret"}, "postgres history"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, historyLocation(tt.cfg))
		})
	}
}
