package tasks

import (
	"encoding/json"
	"time"

	"github.com/desertthunder/statsdash/internal/models"
)

// Backend field names read from each response body.
const (
	fieldTopArtists             = "top_artists_last_4_weeks"
	fieldTopTracks              = "top_tracks_last_4_weeks"
	fieldHiddenGems             = "hidden_gems"
	fieldPopularityDistribution = "popularity_distribution"
	fieldLongestStreak          = "longest_streak_days"
	fieldAvgPopularity          = "avg_popularity"
	fieldTopArtistMorning       = "top_artist_morning"
	fieldTopArtistEvening       = "top_artist_evening"
	fieldRecentlyPlayed         = "recently_played_last_5"
	fieldTrack                  = "track"
)

// playedAtLayouts are accepted for recently played timestamps, tried in order.
var playedAtLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"}

// Build normalizes successful outcomes into a snapshot stamped with the current time.
func Build(outcomes []FetchOutcome) *models.DashboardSnapshot {
	return BuildAt(outcomes, time.Now().UTC())
}

// BuildAt normalizes successful outcomes into a snapshot loaded at loadedAt.
//
// Outcomes are matched to fields by [RequestSpec.Name]. A field that is absent, null or of an
// unexpected shape keeps its default; a body that is not a JSON object yields defaults for that
// endpoint. Outcomes for unknown names are ignored.
func BuildAt(outcomes []FetchOutcome, loadedAt time.Time) *models.DashboardSnapshot {
	s := models.NewDashboardSnapshot(loadedAt)

	for _, o := range outcomes {
		fields := objectFields(o.Body)
		if fields == nil {
			continue
		}

		switch o.Spec.Name {
		case TopArtists:
			decodeList(fields[fieldTopArtists], &s.TopArtists)
		case TopTracks:
			decodeList(fields[fieldTopTracks], &s.TopTracks)
		case HiddenGems:
			decodeList(fields[fieldHiddenGems], &s.HiddenGems)
		case PopularityDistribution:
			s.PopularityDistribution = decodeObject[models.PopularityDistribution](fields[fieldPopularityDistribution])
		case LongestStreak:
			decodeValue(fields[fieldLongestStreak], &s.LongestStreakDays)
		case MostPopularTrack:
			s.MostPopularTrack = trackPopularity(o.Body, fields)
		case LeastPopularTrack:
			s.LeastPopularTrack = trackPopularity(o.Body, fields)
		case AvgPopularity:
			decodeValue(fields[fieldAvgPopularity], &s.AvgPopularity)
		case TopArtistMorning:
			s.TopArtistMorning = decodeObject[string](fields[fieldTopArtistMorning])
		case TopArtistEvening:
			s.TopArtistEvening = decodeObject[string](fields[fieldTopArtistEvening])
		case RecentlyPlayed:
			s.RecentlyPlayed = recentPlays(fields[fieldRecentlyPlayed])
		}
	}

	return s
}

// objectFields returns the top-level members of body, or nil when body is not a JSON object.
func objectFields(body json.RawMessage) map[string]json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil
	}
	return fields
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// decodeList replaces *dst only when raw is a non-null array of the element type.
func decodeList[T any](raw json.RawMessage, dst *[]T) {
	if isNull(raw) {
		return
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return
	}
	*dst = items
}

// decodeValue replaces *dst only when raw decodes as the target type.
func decodeValue[T any](raw json.RawMessage, dst *T) {
	if isNull(raw) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

// decodeObject returns nil unless raw decodes as T.
func decodeObject[T any](raw json.RawMessage) *T {
	if isNull(raw) {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// trackPopularity reads the whole body as a track record; it is absent when no track is named.
func trackPopularity(body json.RawMessage, fields map[string]json.RawMessage) *models.TrackPopularity {
	var name string
	if raw := fields[fieldTrack]; isNull(raw) || json.Unmarshal(raw, &name) != nil {
		return nil
	}
	return decodeObject[models.TrackPopularity](body)
}

type rawPlay struct {
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	PlayedAt string `json:"played_at"`
}

// recentPlays decodes recently played items, leaving unparseable timestamps zero.
func recentPlays(raw json.RawMessage) []models.RecentPlay {
	plays := []models.RecentPlay{}

	var items []rawPlay
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		return plays
	}

	for _, item := range items {
		plays = append(plays, models.RecentPlay{
			Name:     item.Name,
			Artist:   item.Artist,
			PlayedAt: parsePlayedAt(item.PlayedAt),
		})
	}
	return plays
}

func parsePlayedAt(value string) time.Time {
	for _, layout := range playedAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
