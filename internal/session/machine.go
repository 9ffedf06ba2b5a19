package session

import (
	"context"
	"fmt"

	"github.com/desertthunder/statsdash/internal/models"
	"github.com/desertthunder/statsdash/internal/shared"
)

// Loader runs one full analytics batch for a credential.
type Loader interface {
	Load(ctx context.Context, credential string) (*models.DashboardSnapshot, error)
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc func(ctx context.Context, credential string) (*models.DashboardSnapshot, error)

func (f LoaderFunc) Load(ctx context.Context, credential string) (*models.DashboardSnapshot, error) {
	return f(ctx, credential)
}

// Machine drives the dashboard [ViewState]. It is not safe for concurrent use.
type Machine struct {
	tokens   *TokenManager
	loginURL string
	state    ViewState
}

// NewMachine returns a machine in LoggedOut that reads its credential from tokens.
func NewMachine(tokens *TokenManager, loginURL string) *Machine {
	return &Machine{tokens: tokens, loginURL: loginURL, state: loggedOut()}
}

// State returns the active state.
func (m *Machine) State() ViewState {
	return m.state
}

// Tokens returns the credential holder the machine reads from.
func (m *Machine) Tokens() *TokenManager {
	return m.tokens
}

// Login returns the external login URL. The state does not change.
func (m *Machine) Login() (string, error) {
	if !m.state.Allows(ActionLogin) {
		return "", m.invalid(ActionLogin)
	}
	return m.loginURL, nil
}

// Authenticate moves LoggedOut to Authenticated once a credential has been captured.
func (m *Machine) Authenticate() error {
	if !m.state.Allows(ActionAuthenticate) {
		return m.invalid(ActionAuthenticate)
	}
	if _, ok := m.tokens.Credential(); !ok {
		return shared.ErrAuthMissing
	}
	m.state = authenticated()
	return nil
}

// Begin enters Loading and returns the credential the batch must use.
//
// A missing credential is rejected before any other check so no load can start without one.
func (m *Machine) Begin() (string, error) {
	if m.state.kind == Loading {
		return "", shared.ErrLoadInProgress
	}
	credential, ok := m.tokens.Credential()
	if !ok {
		return "", shared.ErrAuthMissing
	}
	if !m.state.Allows(ActionLoad) {
		return "", m.invalid(ActionLoad)
	}
	m.state = loading()
	return credential, nil
}

// Complete leaves Loading with the batch result: Loaded on success, Error otherwise.
func (m *Machine) Complete(snapshot *models.DashboardSnapshot, err error) error {
	if m.state.kind != Loading {
		return fmt.Errorf("%w: complete from %s", shared.ErrInvalidTransition, m.state)
	}
	switch {
	case err != nil:
		m.state = errored(err.Error())
	case snapshot == nil:
		m.state = errored(shared.ErrMalformedResponse.Error())
	default:
		m.state = loaded(snapshot)
	}
	return nil
}

// Acknowledge leaves Error for LoggedOut and clears the credential.
func (m *Machine) Acknowledge() error {
	if !m.state.Allows(ActionAcknowledge) {
		return m.invalid(ActionAcknowledge)
	}
	m.tokens.Clear()
	m.state = loggedOut()
	return nil
}

// Load runs Begin, the loader and Complete in sequence.
//
// Returns the trigger error when the load could not start, otherwise the loader's error (nil on Loaded).
func (m *Machine) Load(ctx context.Context, loader Loader) error {
	credential, err := m.Begin()
	if err != nil {
		return err
	}

	snapshot, err := loader.Load(ctx, credential)
	if cerr := m.Complete(snapshot, err); cerr != nil {
		return cerr
	}
	return err
}

func (m *Machine) invalid(a Action) error {
	return fmt.Errorf("%w: %s from %s", shared.ErrInvalidTransition, a, m.state)
}
