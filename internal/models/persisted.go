package models

import (
	"fmt"
	"time"
)

// PersistedSnapshot is a [DashboardSnapshot] stored in the archive.
type PersistedSnapshot struct {
	id        string
	sequence  int
	snapshot  *DashboardSnapshot
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPersistedSnapshot wraps snapshot for archiving. The repository assigns ID and sequence.
func NewPersistedSnapshot(snapshot *DashboardSnapshot) *PersistedSnapshot {
	now := time.Now().UTC()
	return &PersistedSnapshot{snapshot: snapshot, createdAt: now, updatedAt: now}
}

// RestorePersistedSnapshot rebuilds an archived entry from stored columns.
func RestorePersistedSnapshot(id string, sequence int, snapshot *DashboardSnapshot, createdAt, updatedAt time.Time, deletedAt *time.Time) *PersistedSnapshot {
	return &PersistedSnapshot{
		id:        id,
		sequence:  sequence,
		snapshot:  snapshot,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (p *PersistedSnapshot) ID() string                   { return p.id }
func (p *PersistedSnapshot) Sequence() int                { return p.sequence }
func (p *PersistedSnapshot) Snapshot() *DashboardSnapshot { return p.snapshot }
func (p *PersistedSnapshot) CreatedAt() time.Time         { return p.createdAt }
func (p *PersistedSnapshot) UpdatedAt() time.Time         { return p.updatedAt }
func (p *PersistedSnapshot) DeletedAt() *time.Time        { return p.deletedAt }
func (p *PersistedSnapshot) SetID(id string)              { p.id = id }
func (p *PersistedSnapshot) SetSequence(sequence int)     { p.sequence = sequence }
func (p *PersistedSnapshot) IsDeleted() bool              { return p.deletedAt != nil }

// TopArtist returns the first top artist, or "" when the list is empty.
func (p *PersistedSnapshot) TopArtist() string {
	if p.snapshot == nil || len(p.snapshot.TopArtists) == 0 {
		return ""
	}
	return p.snapshot.TopArtists[0]
}

// Validate checks the entry is ready to be stored.
func (p *PersistedSnapshot) Validate() error {
	if p.id == "" {
		return fmt.Errorf("id is required")
	}
	if p.snapshot == nil {
		return fmt.Errorf("snapshot is required")
	}
	if p.snapshot.LoadedAt.IsZero() {
		return fmt.Errorf("snapshot loaded_at is required")
	}
	return nil
}
