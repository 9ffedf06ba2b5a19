package formatter

import (
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/statsdash/internal/models"
	"github.com/desertthunder/statsdash/internal/shared"
	th "github.com/desertthunder/statsdash/internal/testing"
)

func sampleSnapshot() *models.DashboardSnapshot {
	evening := "Artist Two"
	snap := models.NewDashboardSnapshot(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC))
	snap.TopArtists = []string{"Artist One", "Artist Two"}
	snap.TopTracks = []models.Track{{Name: "Song One", Artist: "Artist One"}}
	snap.HiddenGems = []models.RankedTrack{{Name: "Deep | Cut", Artist: "Artist Three", Popularity: 12}}
	snap.RecentlyPlayed = []models.RecentPlay{
		{Name: "Song One", Artist: "Artist One", PlayedAt: time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)},
	}
	snap.PopularityDistribution = &models.PopularityDistribution{Underground: 1, Moderate: 2, Mainstream: 3}
	snap.LongestStreakDays = 4
	snap.MostPopularTrack = &models.TrackPopularity{Track: "Hit", Artist: "Artist Two", Popularity: 91}
	snap.AvgPopularity = 45.5
	snap.TopArtistEvening = &evening
	return snap
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", JSON},
		{"CSV", CSV},
		{"md", Markdown},
		{"markdown", Markdown},
		{" txt ", Text},
		{"plain", Text},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if err != nil || got != tt.want {
				t.Errorf("expected %s, got %s (%v)", tt.want, got, err)
			}
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ToCSV", func(t *testing.T) {
		data, err := ToCSV(sampleSnapshot())
		if err != nil {
			t.Fatalf("ToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}

		if strings.Join(records[0], ",") != "Section,Rank,Name,Artist,Value" {
			t.Errorf("CSV missing headers, got: %v", records[0])
		}
		if strings.Join(records[1], ",") != "top_artists,1,Artist One,," {
			t.Errorf("unexpected first artist row %v", records[1])
		}

		output := string(data)
		for _, want := range []string{
			"hidden_gems,1,Deep | Cut,Artist Three,12",
			"recently_played,1,Song One,Artist One,2024-05-01T08:30:00Z",
			"summary,,avg_popularity,,45.5",
			"summary,,most_popular_track:Hit,Artist Two,91",
			"summary,,top_artist_morning,,",
		} {
			th.AssertContains(t, output, want)
		}
		if strings.Contains(output, "least_popular_track") {
			t.Error("expected nil least popular track to be omitted")
		}
	})

	t.Run("ToMarkdown", func(t *testing.T) {
		data, err := ToMarkdown(sampleSnapshot())
		if err != nil {
			t.Fatalf("ToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Listening Stats",
			"**Loaded**: 2024-05-01 12:30 UTC",
			"- **Longest streak**: 4 days",
			"- **Average popularity**: 45.5",
			"- **Least popular track**: n/a",
			"- **Morning artist**: n/a",
			"1 underground / 2 moderate / 3 mainstream",
			"2. Artist Two",
			`| Deep \| Cut | Artist Three | 12 |`,
			"- Artist One - Song One (2024-05-01T08:30:00Z)",
		} {
			th.AssertContains(t, output, want)
		}
	})

	t.Run("ToMarkdown Empty Snapshot", func(t *testing.T) {
		data, _ := ToMarkdown(models.NewDashboardSnapshot(time.Now()))

		if strings.Count(string(data), "_None_") != 4 {
			t.Errorf("expected four empty sections, got:\n%s", data)
		}
		if strings.Contains(string(data), "| Track |") {
			t.Error("expected no table header for empty hidden gems")
		}
	})

	t.Run("ToText", func(t *testing.T) {
		data, err := ToText(sampleSnapshot())
		if err != nil {
			t.Fatalf("ToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"Most popular: Artist Two - Hit (91)",
			"Evening artist: Artist Two",
			"Top artists: 2",
			"1. Artist Three - Deep | Cut [12]",
			"Recently played: 1",
		} {
			th.AssertContains(t, output, want)
		}
	})

	t.Run("ToText Fractional Values", func(t *testing.T) {
		snap := sampleSnapshot()
		snap.HiddenGems[0].Popularity = 12.5
		snap.LongestStreakDays = 3

		data, err := ToText(snap)
		if err != nil {
			t.Fatalf("ToText failed: %v", err)
		}

		th.AssertContains(t, string(data), "Longest streak: 3 days")
		th.AssertContains(t, string(data), "Deep | Cut [12.5]")
	})

	t.Run("Render JSON", func(t *testing.T) {
		data, err := Render(sampleSnapshot(), JSON)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		th.AssertContains(t, string(data), `"top_artist_morning": null`)
		th.AssertContains(t, string(data), `"avg_popularity": 45.5`)
	})

	t.Run("Render Unknown", func(t *testing.T) {
		if _, err := Render(sampleSnapshot(), Format("xml")); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestWriteFile(t *testing.T) {
	t.Run("Explicit Path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stats.md")

		got, err := WriteFile(sampleSnapshot(), Markdown, path)
		if err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		th.AssertFileExists(t, path)
		th.AssertContains(t, th.MustReadFile(t, path), "# Listening Stats")
	})

	t.Run("Default Filename", func(t *testing.T) {
		if got := DefaultFilename(sampleSnapshot(), Text); got != "statsdash_20240501_123000.txt" {
			t.Errorf("unexpected default filename %s", got)
		}
	})

	t.Run("Write Failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "stats.csv")
		if _, err := WriteFile(sampleSnapshot(), CSV, path); err == nil {
			t.Error("expected error for missing directory")
		}
	})
}
