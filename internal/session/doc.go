// Package session owns the dashboard's credential and view lifecycle.
//
// # Credential
//
// [TokenManager] holds the single live bearer credential. [TokenManager.Capture] is a one-shot
// extract-and-clear over a [Location]: it reads the token query parameter, stores it and hands the
// location back a URL without the parameter. The credential is never persisted or logged.
//
// # View lifecycle
//
// [Machine] is a discriminated [ViewState] driven by explicit triggers:
//
//	LoggedOut --Authenticate--> Authenticated --Begin--> Loading --Complete--> Loaded | Error
//	Loaded --Begin--> Loading
//	Error --Acknowledge--> LoggedOut (credential cleared)
//
// Only Loaded carries a snapshot and only Error carries a message. A Machine is driven from a single
// goroutine (the bubbletea update loop or a CLI action); the credential it reads is shared with the
// redirect listener through the TokenManager's lock.
package session
