package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/statsdash/internal/models"
	"github.com/desertthunder/statsdash/internal/shared"
)

const loginURL = "http://127.0.0.1:8000/login"

func newAuthenticated(t *testing.T) *Machine {
	t.Helper()
	tm := NewTokenManager()
	tm.Set("abc123")
	m := NewMachine(tm, loginURL)
	if err := m.Authenticate(); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	return m
}

func snapshotWith(artists ...string) *models.DashboardSnapshot {
	s := models.NewDashboardSnapshot(time.Now())
	s.TopArtists = artists
	return s
}

func TestMachine(t *testing.T) {
	t.Run("Initial State", func(t *testing.T) {
		m := NewMachine(NewTokenManager(), loginURL)

		if m.State().Kind() != LoggedOut {
			t.Errorf("expected LoggedOut, got %s", m.State())
		}
		if _, ok := m.State().Snapshot(); ok {
			t.Error("expected no snapshot")
		}
		if _, ok := m.State().Message(); ok {
			t.Error("expected no message")
		}
	})

	t.Run("Login", func(t *testing.T) {
		m := NewMachine(NewTokenManager(), loginURL)

		got, err := m.Login()
		if err != nil || got != loginURL {
			t.Errorf("expected login URL, got %q (%v)", got, err)
		}
		if m.State().Kind() != LoggedOut {
			t.Errorf("expected LoggedOut after login, got %s", m.State())
		}

		auth := newAuthenticated(t)
		if _, err := auth.Login(); !errors.Is(err, shared.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition from Authenticated, got %v", err)
		}
	})

	t.Run("Redirect Authenticates", func(t *testing.T) {
		tm := NewTokenManager()
		m := NewMachine(tm, loginURL)
		loc, _ := NewStaticLocation("http://127.0.0.1:3000/?token=abc123")

		if _, ok := tm.Capture(loc); !ok {
			t.Fatal("expected capture")
		}
		if err := m.Authenticate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if m.State().Kind() != Authenticated {
			t.Errorf("expected Authenticated, got %s", m.State())
		}
		if cred, _ := tm.Credential(); cred != "abc123" {
			t.Errorf("expected abc123, got %q", cred)
		}
		if loc.URL().Query().Has("token") {
			t.Error("expected token stripped from visible URL")
		}
	})

	t.Run("Authenticate Without Credential", func(t *testing.T) {
		m := NewMachine(NewTokenManager(), loginURL)

		if err := m.Authenticate(); !errors.Is(err, shared.ErrAuthMissing) {
			t.Errorf("expected ErrAuthMissing, got %v", err)
		}
		if m.State().Kind() != LoggedOut {
			t.Errorf("expected LoggedOut, got %s", m.State())
		}
	})

	t.Run("Load Without Credential", func(t *testing.T) {
		m := NewMachine(NewTokenManager(), loginURL)
		calls := 0
		loader := LoaderFunc(func(ctx context.Context, credential string) (*models.DashboardSnapshot, error) {
			calls++
			return snapshotWith(), nil
		})

		err := m.Load(context.Background(), loader)
		if !errors.Is(err, shared.ErrAuthMissing) {
			t.Errorf("expected ErrAuthMissing, got %v", err)
		}
		if calls != 0 {
			t.Errorf("expected no loader calls, got %d", calls)
		}
		if m.State().Kind() != LoggedOut {
			t.Errorf("expected LoggedOut, got %s", m.State())
		}
	})

	t.Run("Successful Load", func(t *testing.T) {
		m := newAuthenticated(t)
		var seen string
		loader := LoaderFunc(func(ctx context.Context, credential string) (*models.DashboardSnapshot, error) {
			seen = credential
			if m.State().Kind() != Loading {
				t.Errorf("expected Loading during load, got %s", m.State())
			}
			return snapshotWith("A", "B"), nil
		})

		if err := m.Load(context.Background(), loader); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if seen != "abc123" {
			t.Errorf("expected loader to receive credential, got %q", seen)
		}

		snap, ok := m.State().Snapshot()
		if !ok || m.State().Kind() != Loaded {
			t.Fatalf("expected Loaded, got %s", m.State())
		}
		if len(snap.TopArtists) != 2 {
			t.Errorf("expected 2 artists, got %v", snap.TopArtists)
		}
	})

	t.Run("Failed Load", func(t *testing.T) {
		m := newAuthenticated(t)
		loader := LoaderFunc(func(ctx context.Context, credential string) (*models.DashboardSnapshot, error) {
			return nil, errors.New("hidden-gems: HTTP 500: boom")
		})

		err := m.Load(context.Background(), loader)
		if err == nil {
			t.Fatal("expected loader error to be returned")
		}

		msg, ok := m.State().Message()
		if !ok || msg != "hidden-gems: HTTP 500: boom" {
			t.Errorf("expected error message, got %q", msg)
		}
		if _, ok := m.State().Snapshot(); ok {
			t.Error("expected no snapshot in Error")
		}
	})

	t.Run("Nil Snapshot Without Error", func(t *testing.T) {
		m := newAuthenticated(t)
		m.Begin()
		m.Complete(nil, nil)

		if m.State().Kind() != Errored {
			t.Errorf("expected Error, got %s", m.State())
		}
	})

	t.Run("Reload Replaces Snapshot", func(t *testing.T) {
		m := newAuthenticated(t)
		first := snapshotWith("A")
		second := snapshotWith("X", "Y")

		m.Load(context.Background(), LoaderFunc(func(context.Context, string) (*models.DashboardSnapshot, error) {
			return first, nil
		}))

		passedLoading := false
		m.Load(context.Background(), LoaderFunc(func(context.Context, string) (*models.DashboardSnapshot, error) {
			passedLoading = m.State().Kind() == Loading
			return second, nil
		}))

		if !passedLoading {
			t.Error("expected reload to pass through Loading")
		}
		snap, _ := m.State().Snapshot()
		if snap != second {
			t.Error("expected snapshot to be fully replaced")
		}
		if len(first.TopArtists) != 1 || first.TopArtists[0] != "A" {
			t.Error("expected previous snapshot untouched")
		}
	})

	t.Run("Overlap Guard", func(t *testing.T) {
		m := newAuthenticated(t)
		if _, err := m.Begin(); err != nil {
			t.Fatalf("expected first begin to succeed, got %v", err)
		}

		if _, err := m.Begin(); !errors.Is(err, shared.ErrLoadInProgress) {
			t.Errorf("expected ErrLoadInProgress, got %v", err)
		}
		if m.State().Kind() != Loading {
			t.Errorf("expected Loading, got %s", m.State())
		}
	})

	t.Run("Acknowledge", func(t *testing.T) {
		m := newAuthenticated(t)
		m.Begin()
		m.Complete(nil, errors.New("boom"))

		if err := m.Acknowledge(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if m.State().Kind() != LoggedOut {
			t.Errorf("expected LoggedOut, got %s", m.State())
		}
		if _, ok := m.Tokens().Credential(); ok {
			t.Error("expected credential cleared")
		}
	})

	t.Run("Invalid Transitions", func(t *testing.T) {
		tests := []struct {
			name    string
			prepare func(m *Machine)
			trigger func(m *Machine) error
		}{
			{
				name:    "Acknowledge From Authenticated",
				prepare: func(m *Machine) {},
				trigger: func(m *Machine) error { return m.Acknowledge() },
			},
			{
				name:    "Complete From Authenticated",
				prepare: func(m *Machine) {},
				trigger: func(m *Machine) error { return m.Complete(snapshotWith(), nil) },
			},
			{
				name:    "Authenticate From Loading",
				prepare: func(m *Machine) { m.Begin() },
				trigger: func(m *Machine) error { return m.Authenticate() },
			},
			{
				name: "Load From Error",
				prepare: func(m *Machine) {
					m.Begin()
					m.Complete(nil, errors.New("boom"))
				},
				trigger: func(m *Machine) error { _, err := m.Begin(); return err },
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				m := newAuthenticated(t)
				tt.prepare(m)
				before := m.State().Kind()

				if err := tt.trigger(m); !errors.Is(err, shared.ErrInvalidTransition) {
					t.Errorf("expected ErrInvalidTransition, got %v", err)
				}
				if m.State().Kind() != before {
					t.Errorf("expected state %s unchanged, got %s", before, m.State())
				}
			})
		}
	})
}

func TestViewStateActions(t *testing.T) {
	tests := []struct {
		state ViewState
		want  []Action
	}{
		{loggedOut(), []Action{ActionLogin, ActionAuthenticate}},
		{authenticated(), []Action{ActionLoad}},
		{loading(), nil},
		{loaded(snapshotWith()), []Action{ActionLoad}},
		{errored("boom"), []Action{ActionAcknowledge}},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			got := tt.state.Actions()
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}
