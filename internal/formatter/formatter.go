// package formatter renders dashboard snapshots as JSON, CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/statsdash/internal/models"
	"github.com/desertthunder/statsdash/internal/shared"
)

// Format is an output rendering of a snapshot.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// ParseFormat resolves a format name or common alias.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt", "plain":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (json, csv, markdown, text)", shared.ErrInvalidFlag, name)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return "md"
	case Text:
		return "txt"
	default:
		return string(f)
	}
}

// Render converts a snapshot to the given format.
func Render(snap *models.DashboardSnapshot, format Format) ([]byte, error) {
	switch format {
	case JSON:
		return shared.MarshalJSON(snap, true)
	case CSV:
		return ToCSV(snap)
	case Markdown:
		return ToMarkdown(snap)
	case Text:
		return ToText(snap)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// ToCSV converts a snapshot to CSV with columns: Section, Rank, Name, Artist, Value
//
// List sections get one row per entry; single values are emitted under the "summary" section.
func ToCSV(snap *models.DashboardSnapshot) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	records := [][]string{{"Section", "Rank", "Name", "Artist", "Value"}}

	for i, artist := range snap.TopArtists {
		records = append(records, []string{"top_artists", strconv.Itoa(i + 1), artist, "", ""})
	}
	for i, track := range snap.TopTracks {
		records = append(records, []string{"top_tracks", strconv.Itoa(i + 1), track.Name, track.Artist, ""})
	}
	for i, gem := range snap.HiddenGems {
		records = append(records, []string{"hidden_gems", strconv.Itoa(i + 1), gem.Name, gem.Artist, formatNumber(gem.Popularity)})
	}
	for i, play := range snap.RecentlyPlayed {
		records = append(records, []string{"recently_played", strconv.Itoa(i + 1), play.Name, play.Artist, playedAt(play.PlayedAt)})
	}

	records = append(records,
		summaryRecord("longest_streak_days", "", formatNumber(snap.LongestStreakDays)),
		summaryRecord("avg_popularity", "", strconv.FormatFloat(snap.AvgPopularity, 'f', -1, 64)),
	)
	if t := snap.MostPopularTrack; t != nil {
		records = append(records, []string{"summary", "", "most_popular_track:" + t.Track, t.Artist, formatNumber(t.Popularity)})
	}
	if t := snap.LeastPopularTrack; t != nil {
		records = append(records, []string{"summary", "", "least_popular_track:" + t.Track, t.Artist, formatNumber(t.Popularity)})
	}
	if d := snap.PopularityDistribution; d != nil {
		records = append(records,
			summaryRecord("underground", "", strconv.Itoa(d.Underground)),
			summaryRecord("moderate", "", strconv.Itoa(d.Moderate)),
			summaryRecord("mainstream", "", strconv.Itoa(d.Mainstream)),
		)
	}
	records = append(records,
		summaryRecord("top_artist_morning", optional(snap.TopArtistMorning), ""),
		summaryRecord("top_artist_evening", optional(snap.TopArtistEvening), ""),
	)

	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV records: %w", err)
	}

	return buf.Bytes(), nil
}

func summaryRecord(name, artist, value string) []string {
	return []string{"summary", "", name, artist, value}
}

// ToMarkdown converts a snapshot to a Markdown report
func ToMarkdown(snap *models.DashboardSnapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Listening Stats\n\n")
	buf.WriteString(fmt.Sprintf("**Loaded**: %s\n\n", loadedAt(snap.LoadedAt)))

	buf.WriteString("## Summary\n\n")
	buf.WriteString(fmt.Sprintf("- **Longest streak**: %s days\n", formatNumber(snap.LongestStreakDays)))
	buf.WriteString(fmt.Sprintf("- **Average popularity**: %s\n", formatScore(snap.AvgPopularity)))
	buf.WriteString(fmt.Sprintf("- **Most popular track**: %s\n", trackLine(snap.MostPopularTrack)))
	buf.WriteString(fmt.Sprintf("- **Least popular track**: %s\n", trackLine(snap.LeastPopularTrack)))
	buf.WriteString(fmt.Sprintf("- **Morning artist**: %s\n", orNone(snap.TopArtistMorning)))
	buf.WriteString(fmt.Sprintf("- **Evening artist**: %s\n", orNone(snap.TopArtistEvening)))
	if d := snap.PopularityDistribution; d != nil {
		buf.WriteString(fmt.Sprintf("- **Popularity mix**: %d underground / %d moderate / %d mainstream\n", d.Underground, d.Moderate, d.Mainstream))
	}

	buf.WriteString("\n## Top Artists\n\n")
	if len(snap.TopArtists) == 0 {
		buf.WriteString("_None_\n")
	}
	for i, artist := range snap.TopArtists {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, artist))
	}

	buf.WriteString("\n## Top Tracks\n\n")
	if len(snap.TopTracks) == 0 {
		buf.WriteString("_None_\n")
	}
	for i, track := range snap.TopTracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Name))
	}

	buf.WriteString("\n## Hidden Gems\n\n")
	if len(snap.HiddenGems) == 0 {
		buf.WriteString("_None_\n")
	} else {
		buf.WriteString("| Track | Artist | Popularity |\n")
		buf.WriteString("|-------|--------|------------|\n")
	}
	for _, gem := range snap.HiddenGems {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s |\n", escapeCell(gem.Name), escapeCell(gem.Artist), formatNumber(gem.Popularity)))
	}

	buf.WriteString("\n## Recently Played\n\n")
	if len(snap.RecentlyPlayed) == 0 {
		buf.WriteString("_None_\n")
	}
	for _, play := range snap.RecentlyPlayed {
		buf.WriteString(fmt.Sprintf("- %s - %s (%s)\n", play.Artist, play.Name, playedAt(play.PlayedAt)))
	}

	return buf.Bytes(), nil
}

// ToText converts a snapshot to plain text
func ToText(snap *models.DashboardSnapshot) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Listening stats (loaded %s)\n\n", loadedAt(snap.LoadedAt)))
	buf.WriteString(fmt.Sprintf("Longest streak: %s days\n", formatNumber(snap.LongestStreakDays)))
	buf.WriteString(fmt.Sprintf("Average popularity: %s\n", formatScore(snap.AvgPopularity)))
	buf.WriteString(fmt.Sprintf("Most popular: %s\n", trackLine(snap.MostPopularTrack)))
	buf.WriteString(fmt.Sprintf("Least popular: %s\n", trackLine(snap.LeastPopularTrack)))
	buf.WriteString(fmt.Sprintf("Morning artist: %s\n", orNone(snap.TopArtistMorning)))
	buf.WriteString(fmt.Sprintf("Evening artist: %s\n", orNone(snap.TopArtistEvening)))

	buf.WriteString(fmt.Sprintf("\nTop artists: %d\n", len(snap.TopArtists)))
	for i, artist := range snap.TopArtists {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, artist))
	}

	buf.WriteString(fmt.Sprintf("\nTop tracks: %d\n", len(snap.TopTracks)))
	for i, track := range snap.TopTracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Name))
	}

	buf.WriteString(fmt.Sprintf("\nHidden gems: %d\n", len(snap.HiddenGems)))
	for i, gem := range snap.HiddenGems {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, gem.Artist, gem.Name, formatNumber(gem.Popularity)))
	}

	buf.WriteString(fmt.Sprintf("\nRecently played: %d\n", len(snap.RecentlyPlayed)))
	for i, play := range snap.RecentlyPlayed {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, play.Artist, play.Name))
	}

	return buf.Bytes(), nil
}

// DefaultFilename returns statsdash_{loaded_at}.{ext} for a snapshot.
func DefaultFilename(snap *models.DashboardSnapshot, format Format) string {
	return fmt.Sprintf("statsdash_%s.%s", snap.LoadedAt.UTC().Format("20060102_150405"), format.Extension())
}

// WriteFile renders a snapshot and writes it to path.
//
// Defaults to [DefaultFilename] when path is empty. Returns the path written.
func WriteFile(snap *models.DashboardSnapshot, format Format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(snap, format)
	}

	data, err := Render(snap, format)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

func trackLine(t *models.TrackPopularity) string {
	if t == nil {
		return "n/a"
	}
	return fmt.Sprintf("%s - %s (%s)", t.Artist, t.Track, formatNumber(t.Popularity))
}

func orNone(s *string) string {
	if s == nil || *s == "" {
		return "n/a"
	}
	return *s
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// formatNumber prints whole values without a fraction.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func loadedAt(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 MST")
}

func playedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
