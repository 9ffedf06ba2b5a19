package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/statsdash/internal/formatter"
	"github.com/desertthunder/statsdash/internal/models"
	"github.com/desertthunder/statsdash/internal/repositories"
	"github.com/desertthunder/statsdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints archived snapshots, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	criteria := map[string]any{"limit": cmd.Int("limit")}
	if artist := cmd.String("artist"); artist != "" {
		criteria["top_artist"] = artist
	}
	if since := cmd.String("since"); since != "" {
		t, err := time.Parse(time.DateOnly, since)
		if err != nil {
			return fmt.Errorf("%w: --since must be YYYY-MM-DD: %v", shared.ErrInvalidFlag, err)
		}
		criteria["since"] = t
	}

	repo, closeFn, err := r.openArchive()
	if err != nil {
		return err
	}
	defer closeFn()

	snapshots, err := repo.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		type entry struct {
			ID        string                    `json:"id"`
			Sequence  int                       `json:"sequence"`
			CreatedAt time.Time                 `json:"created_at"`
			Snapshot  *models.DashboardSnapshot `json:"snapshot"`
		}
		entries := make([]entry, 0, len(snapshots))
		for _, s := range snapshots {
			entries = append(entries, entry{s.ID(), s.Sequence(), s.CreatedAt(), s.Snapshot()})
		}
		return r.writeJSON(entries, true)
	}

	if len(snapshots) == 0 {
		return r.writePlain("No archived snapshots.\n")
	}

	r.writePlain("Found %d snapshots:\n\n", len(snapshots))
	for _, s := range snapshots {
		snap := s.Snapshot()
		r.writePlain("#%d  %s\n", s.Sequence(), snap.LoadedAt.UTC().Format(time.RFC3339))
		r.writePlain("   ID: %s\n", s.ID())
		if artist := s.TopArtist(); artist != "" {
			r.writePlain("   Top artist: %s\n", artist)
		}
		r.writePlain("   Avg popularity: %.1f\n", snap.AvgPopularity)
		r.writePlain("   Streak: %g days\n\n", snap.LongestStreakDays)
	}
	return nil
}

// HistoryShow renders one archived snapshot.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	repo, closeFn, err := r.openArchive()
	if err != nil {
		return err
	}
	defer closeFn()

	persisted, err := findSnapshot(repo, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if format == formatter.JSON {
		return r.writeJSON(persisted.Snapshot(), true)
	}

	data, err := formatter.Render(persisted.Snapshot(), format)
	if err != nil {
		return err
	}
	r.writePlainHeader(fmt.Sprintf("Snapshot #%d", persisted.Sequence()))
	return r.writePlain("%s", data)
}

// HistoryDelete soft-deletes one archived snapshot.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	repo, closeFn, err := r.openArchive()
	if err != nil {
		return err
	}
	defer closeFn()

	persisted, err := findSnapshot(repo, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if err := repo.Delete(persisted.ID()); err != nil {
		return err
	}

	r.logger.Info("snapshot deleted", "id", persisted.ID())
	return r.writePlain("✓ Deleted snapshot #%d\n", persisted.Sequence())
}

// findSnapshot resolves ref as a sequence number when numeric, otherwise as an ID.
func findSnapshot(repo *repositories.SnapshotRepository, ref string) (*models.PersistedSnapshot, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: snapshot ID or sequence number", shared.ErrMissingArgument)
	}
	if sequence, err := strconv.Atoi(ref); err == nil {
		return repo.GetBySequence(sequence)
	}
	return repo.Get(ref)
}
