package main

import (
	"context"
	"os"

	"github.com/desertthunder/statsdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// ConfigPathEnv selects the configuration file, defaulting to ./config.toml.
const ConfigPathEnv = "STATSDASH_CONFIG"

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv(ConfigPathEnv)
	if configPath == "" {
		configPath = "config.toml"
	}

	config, err := shared.LoadConfigOrDefault(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "statsdash",
		Usage:    "Listening statistics dashboard for your music analytics backend",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
