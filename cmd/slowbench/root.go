package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"slowbench/internal/config"
	"slowbench/internal/telemetry"
)

var exit = os.Exit

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "slowbench",
		Short: "Benchmark the Slowrace VM with and without its JIT",
		Long: `slowbench builds the Slowrace language project with Maven, locates the
packaged JAR and runs a fixed catalog of workload scripts twice each, once
with the JIT enabled and once with --no-jit. It prints a table of wall-clock
times and the resulting speedups.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./slowbench.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	root.PersistentFlags().String("log-file", "", "Also write logs to this file")

	viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_file", root.PersistentFlags().Lookup("log-file"))

	root.AddCommand(newRunCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(NewVersionCmd())
	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig(cfgFile string) error {
	if err := config.Load(cfgFile); err != nil {
		return err
	}
	if err := config.ValidateConfig(); err != nil {
		return err
	}
	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
	return nil
}
