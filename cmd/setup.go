package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/statsdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set backend.base_url to your analytics service\n")
	r.writePlain("2. Run 'statsdash stats' to log in and load your stats\n")
	return nil
}

// SetupDatabase creates the snapshot archive named by the --config file and applies pending migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config, err := shared.LoadConfigOrDefault(configPath)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
	}

	r.logger.Info("initializing snapshot archive", "path", config.Database.Path)

	db, err := shared.OpenArchive(config.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize archive: %w", err)
	}
	defer db.Close()

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return r.writePlain("✓ Snapshot archive ready at %s\n", config.Database.Path)
}
