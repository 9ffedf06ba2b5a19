package tasks

// RequestSpec identifies one analytics resource on the backend.
type RequestSpec struct {
	Name string
	Path string
}

const (
	TopArtists             = "top-artists"
	TopTracks              = "top-tracks"
	HiddenGems             = "hidden-gems"
	PopularityDistribution = "popularity-distribution"
	LongestStreak          = "longest-listening-streak"
	MostPopularTrack       = "most-popular-track"
	LeastPopularTrack      = "least-popular-track"
	AvgPopularity          = "avg-popularity"
	TopArtistMorning       = "top-artist-morning"
	TopArtistEvening       = "top-artist-evening"
	RecentlyPlayed         = "recently-played-last-5"
)

var defaultCatalog = []RequestSpec{
	{Name: TopArtists, Path: "/top-artists"},
	{Name: TopTracks, Path: "/top-tracks"},
	{Name: HiddenGems, Path: "/hidden-gems"},
	{Name: PopularityDistribution, Path: "/popularity-distribution"},
	{Name: LongestStreak, Path: "/longest-listening-streak"},
	{Name: MostPopularTrack, Path: "/most-popular-track"},
	{Name: LeastPopularTrack, Path: "/least-popular-track"},
	{Name: AvgPopularity, Path: "/avg-popularity"},
	{Name: TopArtistMorning, Path: "/top-artist-morning"},
	{Name: TopArtistEvening, Path: "/top-artist-evening"},
	{Name: RecentlyPlayed, Path: "/recently-played-last-5"},
}

// DefaultCatalog returns the fixed ordered set of endpoints every load requests.
func DefaultCatalog() []RequestSpec {
	return append([]RequestSpec(nil), defaultCatalog...)
}
