package index

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds tunable engine defaults: a thin viper-backed loader
// over an optional YAML file plus environment variables, available to
// embedders that never touch the CLI.
type Config struct {
	MaxWorkers int    `mapstructure:"max_workers"`
	BufferSize int    `mapstructure:"buffer_size"`
	ShardCount int    `mapstructure:"shard_count"`
	LogDir     string `mapstructure:"log_dir"`
	LogLevel   string `mapstructure:"log_level"`
}

// DefaultConfig returns the baseline defaults: MaxWorkers of 0 asks
// Engine to fall back to max(hardwareParallelism, 4), and ShardCount
// of 1 makes the trie and the path/extension maps share one mutex, so
// every insert is a single critical section across all three indices.
func DefaultConfig() Config {
	return Config{
		MaxWorkers: 0,
		BufferSize: 1000,
		ShardCount: 1,
		LogDir:     "",
		LogLevel:   "info",
	}
}

// LoadConfig reads configPath (if non-empty) and the FILEINDEXER_*
// environment variables on top of DefaultConfig.
func LoadConfig(configPath string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("FILEINDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("max_workers", cfg.MaxWorkers)
	v.SetDefault("buffer_size", cfg.BufferSize)
	v.SetDefault("shard_count", cfg.ShardCount)
	v.SetDefault("log_dir", cfg.LogDir)
	v.SetDefault("log_level", cfg.LogLevel)

	if configPath != "" {
		if _, statErr := os.Stat(configPath); statErr == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					return cfg, err
				}
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func parseLogLevel(s string) logLevel {
	switch strings.ToLower(s) {
	case "debug":
		return logDebug
	case "warning", "warn":
		return logWarning
	case "error":
		return logError
	default:
		return logInfo
	}
}
