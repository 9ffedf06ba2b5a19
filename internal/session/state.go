package session

import "github.com/desertthunder/statsdash/internal/models"

// StateKind identifies the active [ViewState].
type StateKind int

const (
	LoggedOut StateKind = iota
	Authenticated
	Loading
	Loaded
	Errored
)

func (k StateKind) String() string {
	switch k {
	case LoggedOut:
		return "logged out"
	case Authenticated:
		return "authenticated"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "error"
	default:
		return "unknown"
	}
}

// Action is a trigger the presentation layer may offer.
type Action string

const (
	ActionLogin        Action = "login"
	ActionAuthenticate Action = "authenticate"
	ActionLoad         Action = "load"
	ActionAcknowledge  Action = "acknowledge"
)

// ViewState is the one active lifecycle state. The zero value is LoggedOut.
type ViewState struct {
	kind     StateKind
	snapshot *models.DashboardSnapshot
	message  string
}

func loggedOut() ViewState     { return ViewState{kind: LoggedOut} }
func authenticated() ViewState { return ViewState{kind: Authenticated} }
func loading() ViewState       { return ViewState{kind: Loading} }

func loaded(s *models.DashboardSnapshot) ViewState {
	return ViewState{kind: Loaded, snapshot: s}
}

func errored(message string) ViewState {
	return ViewState{kind: Errored, message: message}
}

// Kind returns which state is active.
func (s ViewState) Kind() StateKind {
	return s.kind
}

// Snapshot returns the loaded snapshot. Only Loaded carries one.
func (s ViewState) Snapshot() (*models.DashboardSnapshot, bool) {
	if s.kind != Loaded {
		return nil, false
	}
	return s.snapshot, true
}

// Message returns the failure message. Only Error carries one.
func (s ViewState) Message() (string, bool) {
	if s.kind != Errored {
		return "", false
	}
	return s.message, true
}

// Actions lists the triggers that are legal from this state.
func (s ViewState) Actions() []Action {
	switch s.kind {
	case LoggedOut:
		return []Action{ActionLogin, ActionAuthenticate}
	case Authenticated, Loaded:
		return []Action{ActionLoad}
	case Errored:
		return []Action{ActionAcknowledge}
	default:
		return nil
	}
}

// Allows reports whether a is legal from this state.
func (s ViewState) Allows(a Action) bool {
	for _, legal := range s.Actions() {
		if legal == a {
			return true
		}
	}
	return false
}

func (s ViewState) String() string {
	return s.kind.String()
}
