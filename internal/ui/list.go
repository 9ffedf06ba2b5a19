package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/statsdash/internal/models"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = gemItem{}
	_ list.Item = playItem{}
)

// section is one browsable list of the loaded snapshot.
type section int

const (
	topTracksSection section = iota
	hiddenGemsSection
	recentSection
	sectionCount
)

func (s section) title() string {
	switch s {
	case hiddenGemsSection:
		return "Hidden Gems"
	case recentSection:
		return "Recently Played"
	default:
		return "Top Tracks (4 weeks)"
	}
}

// items returns the list items for s from snap.
func (s section) items(snap *models.DashboardSnapshot) []list.Item {
	var items []list.Item
	switch s {
	case topTracksSection:
		for i, t := range snap.TopTracks {
			items = append(items, trackItem{rank: i + 1, track: t})
		}
	case hiddenGemsSection:
		for _, g := range snap.HiddenGems {
			items = append(items, gemItem{gem: g})
		}
	case recentSection:
		for _, p := range snap.RecentlyPlayed {
			items = append(items, playItem{play: p})
		}
	}
	return items
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	rank  int
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return fmt.Sprintf("%d. %s", i.rank, i.track.Name) }
func (i trackItem) Description() string { return i.track.Artist }

// gemItem wraps [models.RankedTrack] to implement [list.Item].
type gemItem struct {
	gem models.RankedTrack
}

func (i gemItem) FilterValue() string { return i.gem.Name }
func (i gemItem) Title() string       { return i.gem.Name }
func (i gemItem) Description() string {
	return fmt.Sprintf("%s • popularity %g", i.gem.Artist, i.gem.Popularity)
}

// playItem wraps [models.RecentPlay] to implement [list.Item].
type playItem struct {
	play models.RecentPlay
}

func (i playItem) FilterValue() string { return i.play.Name }
func (i playItem) Title() string       { return i.play.Name }
func (i playItem) Description() string {
	if i.play.PlayedAt.IsZero() {
		return i.play.Artist
	}
	return fmt.Sprintf("%s • %s", i.play.Artist, i.play.PlayedAt.Local().Format("Jan 2 15:04"))
}
