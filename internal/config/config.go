package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"slowbench/internal/benchmark"
	"slowbench/internal/command"
)

// History store drivers.
const (
	HistoryJSON     = "json"
	HistorySQLite   = "sqlite"
	HistoryPostgres = "postgres" // history.path holds the DSN
)

// Config is the resolved harness configuration handed to the driver.
type Config struct {
	ProjectRoot  string
	TargetDir    string
	ExamplesDir  string
	BuildTool    string
	BuildArgs    []string
	ArtifactName string
	Launcher     []string
	Timeout      time.Duration

	HistoryDriver string
	HistoryPath   string
	MetricsAddr   string

	Catalog []benchmark.Case
}

// FromViper builds a Config from the loaded viper settings.
func FromViper() (Config, error) {
	cfg := Config{
		ProjectRoot:   viper.GetString("project_root"),
		TargetDir:     viper.GetString("target_dir"),
		ExamplesDir:   viper.GetString("examples_dir"),
		BuildTool:     viper.GetString("build.tool"),
		ArtifactName:  viper.GetString("artifact.default_name"),
		Timeout:       durationSetting("timeout"),
		HistoryDriver: viper.GetString("history.driver"),
		HistoryPath:   viper.GetString("history.path"),
		MetricsAddr:   viper.GetString("metrics_addr"),
		Catalog:       benchmark.DefaultCatalog(),
	}

	if cfg.TargetDir == "" {
		cfg.TargetDir = filepath.Join(cfg.ProjectRoot, "target")
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = DefaultHistoryPath(cfg.HistoryDriver)
	}

	var err error
	if cfg.BuildArgs, err = command.Split(viper.GetString("build.args")); err != nil {
		return Config{}, fmt.Errorf("invalid build.args: %w", err)
	}
	if cfg.Launcher, err = command.Split(viper.GetString("launcher")); err != nil {
		return Config{}, fmt.Errorf("invalid launcher: %w", err)
	}
	if len(cfg.Launcher) == 0 {
		return Config{}, fmt.Errorf("launcher must not be empty")
	}
	return cfg, nil
}

// DefaultHistoryPath returns where sessions are saved for a driver.
// Postgres has no default; its DSN must be configured.
func DefaultHistoryPath(driver string) string {
	switch driver {
	case HistorySQLite:
		return filepath.Join(".slowbench", "history.db")
	case HistoryPostgres:
		return ""
	}
	return filepath.Join(".slowbench", "history.json")
}

// durationSetting accepts Go durations ("90s") or bare numbers of seconds.
func durationSetting(key string) time.Duration {
	switch v := viper.Get(key).(type) {
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return time.Duration(n * float64(time.Second))
		}
	}
	return viper.GetDuration(key)
}
