// package testing contains shared testing utilities
package testing

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FixtureBodies are well-formed responses for every analytics endpoint, keyed by path.
var FixtureBodies = map[string]string{
	"/top-artists":              `{"top_artists_last_4_weeks": ["A", "B"]}`,
	"/top-tracks":               `{"top_tracks_last_4_weeks": [{"name": "Song", "artist": "A"}]}`,
	"/hidden-gems":              `{"hidden_gems": []}`,
	"/popularity-distribution":  `{"popularity_distribution": {"underground": 1, "moderate": 2, "mainstream": 3}}`,
	"/longest-listening-streak": `{"longest_streak_days": 7}`,
	"/most-popular-track":       `{"track": "Hit", "artist": "B", "popularity": 90}`,
	"/least-popular-track":      `{"track": "Deep Cut", "artist": "A", "popularity": 10}`,
	"/avg-popularity":           `{"avg_popularity": 45}`,
	"/top-artist-morning":       `{"top_artist_morning": null}`,
	"/top-artist-evening":       `{"top_artist_evening": "B"}`,
	"/recently-played-last-5":   `{"recently_played_last_5": [{"name": "Song", "artist": "A", "played_at": "2024-05-01T08:30:00Z"}]}`,
}

// RecordedRequest is what the [Backend] saw for one request.
type RecordedRequest struct {
	Path          string
	Authorization string
}

// Backend is an httptest analytics service serving [FixtureBodies].
//
// Bodies and statuses can be overridden per path; unknown paths get 404.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	bodies   map[string]string
	statuses map[string]int
	requests []RecordedRequest
}

// NewBackend starts a fixture backend that is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{bodies: map[string]string{}, statuses: map[string]int{}}
	for path, body := range FixtureBodies {
		b.bodies[path] = body
	}

	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{Path: r.URL.Path, Authorization: r.Header.Get("Authorization")})
	body, ok := b.bodies[r.URL.Path]
	status, hasStatus := b.statuses[r.URL.Path]
	b.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if !hasStatus {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

// URL returns the base URL of the backend.
func (b *Backend) URL() string {
	return b.Server.URL
}

// SetBody replaces the response body for path.
func (b *Backend) SetBody(path, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bodies[path] = body
}

// SetStatus makes path answer with status.
func (b *Backend) SetStatus(path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses[path] = status
	b.bodies[path] = body
}

// Requests returns a copy of every request seen so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// Hits returns how many requests reached the backend.
func (b *Backend) Hits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, got)
	}
}
