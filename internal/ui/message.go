package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/statsdash/internal/models"
	"github.com/desertthunder/statsdash/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCredentialCaptured MsgKind = iota
	MsgBrowserOpened
	MsgProgressUpdate
	MsgLoadComplete
	MsgSnapshotSaved
)

type browserOpened struct {
	url string
	err error
}

type loadResult struct {
	snapshot *models.DashboardSnapshot
	err      error
}

type snapshotSaved struct {
	sequence int
	err      error
}

// CredentialCapturedMsg tells the program the redirect listener stored a new credential.
//
// The credential itself stays in the token manager and is not carried by the message.
func CredentialCapturedMsg() Msg {
	return Msg{kind: MsgCredentialCaptured}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(url string, err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: browserOpened{url, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// loadCompleteMsg is the constructor for [MsgLoadComplete]
func loadCompleteMsg(result loadResult) Msg {
	return Msg{kind: MsgLoadComplete, data: result}
}

// snapshotSavedMsg is the constructor for [MsgSnapshotSaved]
func snapshotSavedMsg(sequence int, err error) Msg {
	return Msg{kind: MsgSnapshotSaved, data: snapshotSaved{sequence, err}}
}
