package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/statsdash/internal/models"
	"github.com/desertthunder/statsdash/internal/session"
	"github.com/desertthunder/statsdash/internal/shared"
	"github.com/desertthunder/statsdash/internal/tasks"
)

// Engine runs one analytics batch.
type Engine interface {
	Run(ctx context.Context, credential string, catalog []tasks.RequestSpec, progress chan<- tasks.ProgressUpdate) (*models.DashboardSnapshot, error)
}

// Archive stores loaded snapshots on request.
type Archive interface {
	Create(snapshot *models.PersistedSnapshot) error
}

// Options contains the dependencies of a [Model].
type Options struct {
	Machine *session.Machine
	Engine  Engine
	Archive Archive            // optional; saving is disabled when nil
	OpenURL func(string) error // defaults to [shared.OpenBrowser]
	Logger  *log.Logger
}

// Model represents the TUI application state.
//
// All state machine triggers run inside Update, so the machine is only touched by the bubbletea loop.
type Model struct {
	ctx          context.Context
	machine      *session.Machine
	engine       Engine
	archive      Archive
	openURL      func(string) error
	logger       *log.Logger
	width        int
	height       int
	spinner      spinner.Model
	progressChan chan tasks.ProgressUpdate
	resultChan   chan loadResult
	progress     tasks.ProgressUpdate
	tracks       list.Model
	section      section
	notice       string
	noticeErr    bool
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	tracks := list.New(nil, list.NewDefaultDelegate(), 60, 14)
	tracks.SetShowHelp(false)
	tracks.SetFilteringEnabled(false)

	return &Model{
		ctx:     ctx,
		machine: opts.Machine,
		engine:  opts.Engine,
		archive: opts.Archive,
		openURL: opts.OpenURL,
		logger:  opts.Logger,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		tracks:  tracks,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// State returns the view state currently displayed.
func (m *Model) State() session.ViewState {
	return m.machine.State()
}

// Init authenticates immediately when a credential was supplied before start.
func (m *Model) Init() tea.Cmd {
	if _, ok := m.machine.Tokens().Credential(); ok {
		return func() tea.Msg { return CredentialCapturedMsg() }
	}
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tracks.SetSize(max(msg.Width-4, 20), max(msg.Height-16, 5))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case spinner.TickMsg:
		if m.State().Kind() != session.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgCredentialCaptured:
		switch m.State().Kind() {
		case session.LoggedOut:
		case session.Errored:
			// Acknowledge clears the credential, so the fresh one is restored before authenticating.
			credential, _ := m.machine.Tokens().Credential()
			if err := m.machine.Acknowledge(); err != nil {
				m.setNotice(err.Error(), true)
				return m, nil
			}
			m.machine.Tokens().Set(credential)
		default:
			m.setNotice("Received a new credential", false)
			return m, nil
		}
		if err := m.machine.Authenticate(); err != nil {
			m.setNotice(err.Error(), true)
			return m, nil
		}
		m.setNotice("✓ Logged in. Press enter to load your stats.", false)
		return m, nil

	case MsgBrowserOpened:
		data := msg.data.(browserOpened)
		if data.err != nil {
			m.logger.Warn("failed to open browser", "error", data.err)
			m.setNotice(fmt.Sprintf("Could not open a browser. Open this URL to log in:\n%s", data.url), true)
			return m, nil
		}
		m.setNotice("→ Waiting for the login redirect...", false)
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgLoadComplete:
		result := msg.data.(loadResult)
		m.progressChan = nil
		m.resultChan = nil
		if err := m.machine.Complete(result.snapshot, result.err); err != nil {
			m.logger.Error("failed to complete load", "error", err)
		}
		if snap, ok := m.State().Snapshot(); ok {
			m.section = topTracksSection
			m.showSection(snap)
		}
		return m, nil

	case MsgSnapshotSaved:
		data := msg.data.(snapshotSaved)
		if data.err != nil {
			m.setNotice(fmt.Sprintf("Save failed: %v", data.err), true)
			return m, nil
		}
		m.setNotice(fmt.Sprintf("✓ Saved snapshot #%d", data.sequence), false)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.State()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.login):
		url, err := m.machine.Login()
		if err != nil {
			m.setNotice("Already logged in", true)
			return m, nil
		}
		return m, m.openLogin(url)

	case state.Kind() == session.Errored && key.Matches(msg, m.keys.ack):
		if err := m.machine.Acknowledge(); err != nil {
			m.setNotice(err.Error(), true)
			return m, nil
		}
		m.setNotice("Credential cleared. Press l to log in again.", false)
		return m, nil

	case key.Matches(msg, m.keys.load):
		return m, m.startLoad()

	case key.Matches(msg, m.keys.save):
		return m, m.saveSnapshot()

	case key.Matches(msg, m.keys.section):
		if snap, ok := state.Snapshot(); ok {
			m.section = (m.section + 1) % sectionCount
			m.showSection(snap)
		}
		return m, nil
	}

	if state.Kind() == session.Loaded {
		var cmd tea.Cmd
		m.tracks, cmd = m.tracks.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *Model) showSection(snap *models.DashboardSnapshot) {
	m.tracks.Title = m.section.title()
	m.tracks.SetItems(m.section.items(snap))
	m.tracks.ResetSelected()
}

func (m *Model) openLogin(url string) tea.Cmd {
	m.setNotice("→ Opening browser to log in...", false)
	return func() tea.Msg {
		return browserOpenedMsg(url, m.openURL(url))
	}
}

// startLoad enters Loading and runs the batch in the background.
func (m *Model) startLoad() tea.Cmd {
	credential, err := m.machine.Begin()
	switch {
	case errors.Is(err, shared.ErrAuthMissing):
		m.setNotice("Log in first (press l)", true)
		return nil
	case errors.Is(err, shared.ErrLoadInProgress):
		m.setNotice("A load is already running", true)
		return nil
	case err != nil:
		m.setNotice(err.Error(), true)
		return nil
	}

	m.setNotice("", false)
	m.progress = tasks.ProgressUpdate{}
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.resultChan = make(chan loadResult, 1)

	progress, results := m.progressChan, m.resultChan
	go func() {
		snapshot, err := m.engine.Run(m.ctx, credential, tasks.DefaultCatalog(), progress)
		results <- loadResult{snapshot: snapshot, err: err}
		close(progress)
	}()

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, results := m.progressChan, m.resultChan
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return loadCompleteMsg(<-results)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) saveSnapshot() tea.Cmd {
	snap, ok := m.State().Snapshot()
	if !ok {
		return nil
	}
	if m.archive == nil {
		m.setNotice("Saving is disabled: no archive configured", true)
		return nil
	}

	archive := m.archive
	return func() tea.Msg {
		persisted := models.NewPersistedSnapshot(snap)
		err := archive.Create(persisted)
		return snapshotSavedMsg(persisted.Sequence(), err)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	state := m.State()

	var body string
	switch state.Kind() {
	case session.LoggedOut:
		body = "Not logged in.\n\nPress l to open the login page in your browser."
	case session.Authenticated:
		body = "Logged in.\n\nPress enter to load your listening stats."
	case session.Loading:
		body = m.renderLoading()
	case session.Loaded:
		snap, _ := state.Snapshot()
		body = m.renderLoaded(snap)
	case session.Errored:
		message, _ := state.Message()
		body = styles.err.Render("Failed to load stats") + "\n\n" + message
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("statsdash") + "  " + styles.label.Render(state.String()))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")

	if m.notice != "" {
		style := styles.help
		if m.noticeErr {
			style = styles.warn
		}
		b.WriteString("\n" + style.Render(m.notice) + "\n")
	}

	bindings := m.keys.forActions(state.Actions())
	if state.Kind() == session.Loaded {
		bindings = append([]key.Binding{m.keys.save, m.keys.section}, bindings...)
	}
	b.WriteString("\n" + m.help.ShortHelpView(bindings))

	return b.String()
}

func (m *Model) renderLoading() string {
	line := fmt.Sprintf("%s Loading stats", m.spinner.View())
	if m.progress.Total > 0 {
		line += fmt.Sprintf(" (%d/%d)", m.progress.Step, m.progress.Total)
	}
	if m.progress.Message != "" {
		line += "\n" + styles.help.Render(m.progress.Message)
	}
	return line
}

func (m *Model) renderLoaded(snap *models.DashboardSnapshot) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Streak", fmt.Sprintf("%g days", snap.LongestStreakDays)),
		card("Avg popularity", fmt.Sprintf("%.1f", snap.AvgPopularity)),
		card("Morning", orDash(snap.TopArtistMorning)),
		card("Evening", orDash(snap.TopArtistEvening)),
	)

	var b strings.Builder
	b.WriteString(cards + "\n\n")

	b.WriteString(styles.label.Render("Top artists: "))
	if len(snap.TopArtists) == 0 {
		b.WriteString("none")
	} else {
		b.WriteString(strings.Join(snap.TopArtists, ", "))
	}
	b.WriteString("\n")

	b.WriteString(styles.label.Render("Most popular: ") + trackLine(snap.MostPopularTrack) + "\n")
	b.WriteString(styles.label.Render("Least popular: ") + trackLine(snap.LeastPopularTrack) + "\n")

	if d := snap.PopularityDistribution; d != nil {
		b.WriteString("\n" + distribution(d) + "\n")
	}

	b.WriteString("\n" + m.tracks.View())
	return b.String()
}

func card(label, value string) string {
	return styles.card.Render(styles.label.Render(label) + "\n" + styles.ok.Render(value))
}

func distribution(d *models.PopularityDistribution) string {
	total := d.Total()
	rows := []struct {
		name  string
		count int
	}{
		{"underground", d.Underground},
		{"moderate", d.Moderate},
		{"mainstream", d.Mainstream},
	}

	var lines []string
	for _, r := range rows {
		width := 0
		if total > 0 {
			width = r.count * 20 / total
		}
		lines = append(lines, fmt.Sprintf("%-12s %s %d", r.name, styles.bar.Render(strings.Repeat("█", width)), r.count))
	}
	return strings.Join(lines, "\n")
}

func trackLine(t *models.TrackPopularity) string {
	if t == nil {
		return "n/a"
	}
	return fmt.Sprintf("%s - %s (%g)", t.Artist, t.Track, t.Popularity)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
