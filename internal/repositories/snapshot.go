package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/statsdash/internal/models"
	"github.com/desertthunder/statsdash/internal/shared"
)

const snapshotColumns = `id, sequence, payload, created_at, updated_at, deleted_at`

// SnapshotRepository implements models.Repository[*models.PersistedSnapshot] for the snapshot archive.
type SnapshotRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.PersistedSnapshot] = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create archives a snapshot with a generated ID and the next sequence number
func (r *SnapshotRepository) Create(snapshot *models.PersistedSnapshot) error {
	snapshot.SetID(shared.GenerateID())
	if err := snapshot.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	payload, err := json.Marshal(snapshot.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	sequence, err := NextSequence(r.db, "snapshots")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	query := `
		INSERT INTO snapshots (id, sequence, payload, top_artist, avg_popularity, loaded_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		snapshot.ID(),
		sequence,
		string(payload),
		snapshot.TopArtist(),
		snapshot.Snapshot().AvgPopularity,
		snapshot.Snapshot().LoadedAt,
		snapshot.CreatedAt(),
		snapshot.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	snapshot.SetSequence(sequence)

	return nil
}

// Get retrieves an archived snapshot by ID, excluding soft-deleted entries
func (r *SnapshotRepository) Get(id string) (*models.PersistedSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE id = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, id))
}

// GetBySequence retrieves an archived snapshot by its sequence number
func (r *SnapshotRepository) GetBySequence(sequence int) (*models.PersistedSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE sequence = ? AND deleted_at IS NULL`
	return r.scan(r.db.QueryRow(query, sequence))
}

// Latest retrieves the most recently archived snapshot
func (r *SnapshotRepository) Latest() (*models.PersistedSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE deleted_at IS NULL ORDER BY sequence DESC LIMIT 1`
	return r.scan(r.db.QueryRow(query))
}

// Delete soft-deletes an archived snapshot by ID
func (r *SnapshotRepository) Delete(id string) error {
	now := time.Now().UTC()

	query := `
		UPDATE snapshots
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
	}

	return nil
}

// List retrieves archived snapshots newest first, excluding soft-deleted entries.
//
// Supported criteria: "limit" (int) caps the result count, "since" (time.Time) keeps snapshots loaded at
// or after the given time, "top_artist" (string) matches the first top artist.
func (r *SnapshotRepository) List(criteria map[string]any) ([]*models.PersistedSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots WHERE deleted_at IS NULL`
	args := []any{}

	if since, ok := criteria["since"].(time.Time); ok && !since.IsZero() {
		query += " AND loaded_at >= ?"
		args = append(args, since.UTC())
	}

	if artist, ok := criteria["top_artist"].(string); ok && artist != "" {
		query += " AND top_artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []*models.PersistedSnapshot{}
	for rows.Next() {
		snapshot, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return snapshots, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scan reads one row into a [models.PersistedSnapshot]
func (r *SnapshotRepository) scan(row scanner) (*models.PersistedSnapshot, error) {
	var (
		id        string
		sequence  int
		payload   string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &payload, &createdAt, &updatedAt, &deletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	var snapshot models.DashboardSnapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	snapshot.FillDefaults()

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RestorePersistedSnapshot(id, sequence, &snapshot, createdAt, updatedAt, deleted), nil
}
