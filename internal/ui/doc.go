// Package ui implements the interactive dashboard using bubbletea's Elm architecture.
//
// The (view) [Model] wraps a [session.Machine] and renders whichever state is active:
//  1. LoggedOut : offers login, which opens the backend login page in a browser
//  2. Authenticated : offers load
//  3. Loading : spinner and per-endpoint progress
//  4. Loaded : summary cards, popularity mix and browsable track lists
//  5. Error : the failure message; enter clears the credential and returns to LoggedOut
//
// The redirect listener runs outside the program and reports captures with [CredentialCapturedMsg] via
// tea.Program.Send. Loads run in a goroutine and stream progress over a channel that Update drains one
// message at a time, so every state transition happens on the bubbletea loop.
//
// Keyboard help is derived from the active state's legal actions via charmbracelet/bubbles/help.
package ui
