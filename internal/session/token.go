package session

import (
	"net/url"
	"sync"
)

// TokenParam is the redirect query parameter carrying the credential.
const TokenParam = "token"

// Location is the page URL the backend redirected to after login.
type Location interface {
	URL() *url.URL
	// Replace swaps the visible URL without navigating.
	Replace(u *url.URL)
}

// StaticLocation is a [Location] backed by a plain URL value.
type StaticLocation struct {
	u *url.URL
}

// NewStaticLocation parses raw into a [StaticLocation].
func NewStaticLocation(raw string) (*StaticLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &StaticLocation{u: u}, nil
}

func (l *StaticLocation) URL() *url.URL      { return l.u }
func (l *StaticLocation) Replace(u *url.URL) { l.u = u }
func (l *StaticLocation) String() string     { return l.u.String() }

// TokenManager holds the one live credential for the process.
type TokenManager struct {
	mu         sync.RWMutex
	credential string
}

// NewTokenManager returns a manager with no credential.
func NewTokenManager() *TokenManager {
	return &TokenManager{}
}

// Capture extracts the token parameter from loc, stores it as the live credential and strips it from loc.
//
// Any previous credential is replaced. Other query parameters are kept. Returns false and leaves loc
// untouched when the parameter is absent or empty.
func (m *TokenManager) Capture(loc Location) (string, bool) {
	u := loc.URL()
	if u == nil {
		return "", false
	}

	query := u.Query()
	token := query.Get(TokenParam)
	if token == "" {
		return "", false
	}

	m.Set(token)

	query.Del(TokenParam)
	stripped := *u
	stripped.RawQuery = query.Encode()
	loc.Replace(&stripped)

	return token, true
}

// Set replaces the live credential. An empty value clears it.
func (m *TokenManager) Set(credential string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credential = credential
}

// Credential returns the live credential and whether one is present.
func (m *TokenManager) Credential() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential, m.credential != ""
}

// Clear drops the live credential.
func (m *TokenManager) Clear() {
	m.Set("")
}
