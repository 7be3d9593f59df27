package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"slowbench/internal/artifact"
	"slowbench/internal/benchmark"
	"slowbench/internal/build"
	"slowbench/internal/command"
	"slowbench/internal/config"
	"slowbench/internal/git"
	"slowbench/internal/metrics"
	"slowbench/internal/telemetry"
)

// Replaced in tests.
var (
	newCommandRunner = func() command.Runner { return command.NewExecRunner() }
	newStoreFunc     = benchmark.OpenStore
)

type runOptions struct {
	skipBuild bool
	save      bool
	compare   bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the VM and run the JIT benchmark catalog",
		Long: `Runs "mvn clean package -DskipTests" in the project root, picks the
packaged JAR from the target directory and times every catalog workload with
the JIT enabled and disabled. Rows are printed as soon as they are measured.

Failed runs show up as FAIL with a speedup of N/A; they do not change the exit
status. Only a failed build or a missing JAR does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runBenchmarks(ctx, cmd, cfg, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.skipBuild, "skip-build", false, "Use the existing build output instead of running Maven")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Save results to history")
	cmd.Flags().BoolVar(&opts.compare, "compare", false, "Compare speedups with the latest saved session")
	cmd.Flags().Duration("timeout", 0, "Per-run timeout (0 means wait forever)")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while running")

	viper.BindPFlag("timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("metrics_addr", cmd.Flags().Lookup("metrics-addr"))
	return cmd
}

func runBenchmarks(ctx context.Context, cmd *cobra.Command, cfg config.Config, opts runOptions) error {
	out := cmd.OutOrStdout()
	runner := newCommandRunner()

	// 1. Build
	if !opts.skipBuild {
		fmt.Fprintln(out, statusStyle.Render("Building project with Maven..."))
		trigger := &build.Trigger{
			Runner:      runner,
			Tool:        cfg.BuildTool,
			Args:        cfg.BuildArgs,
			ProjectRoot: cfg.ProjectRoot,
			Output:      out,
		}
		if err := trigger.Run(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, successStyle.Render("Build successful."))
		fmt.Fprintln(out)
	}

	// 2. Find JAR
	locator := artifact.NewLocator()
	locator.DefaultName = cfg.ArtifactName
	jar, err := locator.Find(cfg.TargetDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Using JAR: %s\n\n", jar)
	telemetry.LogInfof("Benchmarking %d cases", len(cfg.Catalog))

	m := metrics.NewMetrics()
	if cfg.MetricsAddr != "" {
		srv, err := telemetry.StartMetricsServer(cfg.MetricsAddr, m.Handler())
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(fmt.Sprintf("Warning: failed to start metrics server: %v", err)))
		} else {
			defer srv.Close()
		}
	}

	// 3. Run Benchmarks
	executor := benchmark.NewProcessExecutor(runner, cfg.ExamplesDir, cmd.ErrOrStderr())
	executor.Launcher = cfg.Launcher
	executor.Timeout = cfg.Timeout

	driver := &benchmark.Driver{
		Executor: executor,
		Artifact: jar,
		Catalog:  cfg.Catalog,
		Reporter: benchmark.NewTableReporter(out),
		Metrics:  m,
	}
	rows, err := driver.Run(ctx)
	if err != nil {
		return fmt.Errorf("benchmark run interrupted after %d of %d cases: %w", len(rows), len(cfg.Catalog), err)
	}

	// 4. History
	if opts.save || opts.compare {
		session := benchmark.NewSession(jar, rows)
		repo := git.NewClient(runner)
		if sha, err := repo.CurrentCommit(ctx, cfg.ProjectRoot); err == nil {
			session.Commit = sha
			session.Branch, _ = repo.CurrentBranch(ctx, cfg.ProjectRoot)
		} else {
			slog.Debug("No commit recorded for session", "error", err)
		}
		if err := recordHistory(cmd, cfg, opts, session); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render(fmt.Sprintf("Warning: %v", err)))
		}
	}
	return nil
}

func recordHistory(cmd *cobra.Command, cfg config.Config, opts runOptions, session benchmark.Session) error {
	store, err := newStoreFunc(cfg.HistoryDriver, cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if opts.compare {
		prev, err := store.LoadLatest()
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		if prev == nil {
			fmt.Fprintln(out, "\nNo previous session to compare against.")
		} else {
			printComparison(out, *prev, session)
		}
	}

	if opts.save {
		if err := store.Save(session); err != nil {
			return fmt.Errorf("failed to save history: %w", err)
		}
		fmt.Fprintf(out, "\nResults saved to %s\n", historyLocation(cfg))
	}
	return nil
}

func printComparison(out io.Writer, prev, curr benchmark.Session) {
	fmt.Fprintf(out, "\n%s\n", titleStyle.Render(fmt.Sprintf("Comparison with session %d (%s)", prev.ID, prev.Timestamp.Format("2006-01-02 15:04"))))

	comps := benchmark.Compare(prev, curr)
	if len(comps) == 0 {
		fmt.Fprintln(out, "No comparable cases.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "BENCHMARK\tPREV\tCURR\tDIFF %")
	for _, c := range comps {
		fmt.Fprintf(w, "%s\t%.2fx\t%.2fx\t%+.2f%%\n", c.Key, c.Prev, c.Curr, c.SpeedupDiff)
	}
	w.Flush()
}

// historyLocation names the store for display without leaking DSN passwords.
func historyLocation(cfg config.Config) string {
	if cfg.HistoryDriver != config.HistoryPostgres {
		return cfg.HistoryPath
	}
	if u, err := url.Parse(cfg.HistoryPath); err == nil && u.Scheme != "" {
		return u.Redacted()
	}
	return "postgres history"
}
