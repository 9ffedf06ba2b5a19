package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/statsdash/internal/formatter"
	"github.com/desertthunder/statsdash/internal/models"
	"github.com/desertthunder/statsdash/internal/repositories"
	"github.com/desertthunder/statsdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// Stats authenticates, loads the dashboard once and prints or writes the snapshot.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")
	outputFile := cmd.String("output")

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if useJSON {
		format = formatter.JSON
	}

	machine := r.newMachine()
	if err := r.authenticate(ctx, cmd, machine); err != nil {
		return err
	}

	r.logger.Info("loading listening stats", "backend", r.api.BaseURL())
	if err := machine.Load(ctx, r.engine); err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	snap, ok := machine.State().Snapshot()
	if !ok {
		return fmt.Errorf("%w: load finished in state %v", shared.ErrInvalidTransition, machine.State())
	}

	if save {
		sequence, err := r.archiveSnapshot(snap)
		if err != nil {
			r.logger.Warn("failed to archive snapshot", "error", err)
		} else {
			r.logger.Info("snapshot archived", "sequence", sequence)
		}
	}

	if outputFile != "" {
		path, err := formatter.WriteFile(snap, format, outputFile)
		if err != nil {
			return err
		}
		r.writePlain("✓ Stats written to %s\n", path)
		return nil
	}

	if format == formatter.JSON {
		return r.writeJSON(snap, pretty)
	}

	data, err := formatter.Render(snap, format)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// archiveSnapshot stores snap in the configured archive and returns its sequence number.
func (r *Runner) archiveSnapshot(snap *models.DashboardSnapshot) (int, error) {
	repo, closeFn, err := r.openArchive()
	if err != nil {
		return 0, err
	}
	defer closeFn()

	persisted := models.NewPersistedSnapshot(snap)
	if err := repo.Create(persisted); err != nil {
		return 0, err
	}
	return persisted.Sequence(), nil
}

// openArchive opens the snapshot archive, migrating it when needed.
func (r *Runner) openArchive() (*repositories.SnapshotRepository, func(), error) {
	db, err := shared.OpenArchive(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return repositories.NewSnapshotRepository(db), func() { db.Close() }, nil
}
