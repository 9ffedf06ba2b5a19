package models

import "time"

// Track is a track name with its primary artist.
type Track struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// RankedTrack is a track with its popularity score (0-100).
type RankedTrack struct {
	Name       string  `json:"name"`
	Artist     string  `json:"artist"`
	Popularity float64 `json:"popularity"`
}

// RecentPlay is a recently played track with its play time.
type RecentPlay struct {
	Name     string    `json:"name"`
	Artist   string    `json:"artist"`
	PlayedAt time.Time `json:"played_at"`
}

// TrackPopularity is the most or least popular track record.
type TrackPopularity struct {
	Track      string  `json:"track"`
	Artist     string  `json:"artist"`
	Popularity float64 `json:"popularity"`
}

// PopularityDistribution counts top tracks per popularity bucket.
type PopularityDistribution struct {
	Underground int `json:"underground"`
	Moderate    int `json:"moderate"`
	Mainstream  int `json:"mainstream"`
}

// Total returns the number of tracks across all buckets.
func (d PopularityDistribution) Total() int {
	return d.Underground + d.Moderate + d.Mainstream
}

// DashboardSnapshot is the aggregate view model produced by one successful load.
//
// List fields are never nil and pointer fields are nil when the backend omitted them.
// A snapshot is not modified after it is built; a new load produces a new value.
type DashboardSnapshot struct {
	TopArtists             []string                `json:"top_artists"`
	TopTracks              []Track                 `json:"top_tracks"`
	RecentlyPlayed         []RecentPlay            `json:"recently_played"`
	HiddenGems             []RankedTrack           `json:"hidden_gems"`
	PopularityDistribution *PopularityDistribution `json:"popularity_distribution"`
	LongestStreakDays      float64                 `json:"longest_streak_days"`
	MostPopularTrack       *TrackPopularity        `json:"most_popular_track"`
	LeastPopularTrack      *TrackPopularity        `json:"least_popular_track"`
	AvgPopularity          float64                 `json:"avg_popularity"`
	TopArtistMorning       *string                 `json:"top_artist_morning"`
	TopArtistEvening       *string                 `json:"top_artist_evening"`
	LoadedAt               time.Time               `json:"loaded_at"`
}

// NewDashboardSnapshot returns a snapshot with every field at its default.
func NewDashboardSnapshot(loadedAt time.Time) *DashboardSnapshot {
	return &DashboardSnapshot{
		TopArtists:     []string{},
		TopTracks:      []Track{},
		RecentlyPlayed: []RecentPlay{},
		HiddenGems:     []RankedTrack{},
		LoadedAt:       loadedAt,
	}
}

// FillDefaults replaces nil lists with empty ones, for snapshots decoded from storage.
func (s *DashboardSnapshot) FillDefaults() {
	if s.TopArtists == nil {
		s.TopArtists = []string{}
	}
	if s.TopTracks == nil {
		s.TopTracks = []Track{}
	}
	if s.RecentlyPlayed == nil {
		s.RecentlyPlayed = []RecentPlay{}
	}
	if s.HiddenGems == nil {
		s.HiddenGems = []RankedTrack{}
	}
}
