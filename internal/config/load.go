package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"slowbench/internal/artifact"
	"slowbench/internal/build"
)

// EnvPrefix is prepended to every environment override, e.g. SLOWBENCH_TIMEOUT.
const EnvPrefix = "SLOWBENCH"

// Load initializes the configuration from file and environment variables.
// A missing default config file is not an error; a missing explicit one is.
func Load(cfgFile string) error {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("slowbench")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			slog.Debug("No config file found, using defaults")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	slog.Debug("Using config file", "path", viper.ConfigFileUsed())
	return nil
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("project_root", filepath.Join("..", "language"))
	viper.SetDefault("target_dir", "")
	viper.SetDefault("examples_dir", ".")
	viper.SetDefault("build.tool", build.DefaultTool())
	viper.SetDefault("build.args", strings.Join(build.DefaultArgs, " "))
	viper.SetDefault("artifact.default_name", artifact.DefaultName)
	viper.SetDefault("launcher", "java -jar")
	viper.SetDefault("timeout", 0)
	viper.SetDefault("history.driver", HistoryJSON)
	viper.SetDefault("history.path", "")
	viper.SetDefault("metrics_addr", "")
	viper.SetDefault("verbose", false)
	viper.SetDefault("log_file", "")
}
