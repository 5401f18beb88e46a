package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/editor"
	"github.com/killallgit/audionote/internal/services/playback"
	"github.com/killallgit/audionote/internal/services/settings"
	"github.com/killallgit/audionote/internal/services/viewstate"
	"github.com/killallgit/audionote/internal/tui/ui"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	tickInterval       = 500 * time.Millisecond
	transientErrorTime = 5 * time.Second
)

// Screen is the screen being shown.
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenOnboarding
	ScreenList
	ScreenEdit
	ScreenSettings
)

type field int

const (
	fieldTitle field = iota
	fieldDescription
	fieldReminder
)

// Preferences is the part of the settings store the screens use.
type Preferences interface {
	IsFirstLaunch(ctx context.Context) (bool, error)
	CompleteOnboarding(ctx context.Context) error
	Theme(ctx context.Context) (settings.Theme, error)
	SetTheme(ctx context.Context, theme settings.Theme) error
}

// Microphone grants and withdraws capture permission.
type Microphone interface {
	Check(ctx context.Context) (bool, error)
	Request(ctx context.Context) (bool, error)
	Revoke(ctx context.Context) error
}

// NoteList is the live notes view state.
type NoteList interface {
	Snapshot() viewstate.Snapshot
	OnChange(fn func(viewstate.Snapshot)) func()
}

// Deps are the services behind the screens.
type Deps struct {
	Preferences Preferences
	Microphone  Microphone
	Notes       NoteList
	Editor      *editor.Editor
	Events      Events
	Now         func() time.Time
}

// Events carries background updates into the running program.
type Events chan tea.Msg

// NewEvents creates a buffered event channel.
func NewEvents() Events {
	return make(Events, 64)
}

// ReportError forwards a user-facing message to the error line. It can be
// used as a viewstate.ErrorHandler.
func (e Events) ReportError(message string) {
	e.send(ErrorMsg(message))
}

func (e Events) send(msg tea.Msg) {
	if e == nil {
		return
	}
	select {
	case e <- msg:
	default:
		// the next tick reads a fresh snapshot anyway
	}
}

// Model is the root bubbletea model for the audio notes TUI.
type Model struct {
	deps   Deps
	keys   keyMap
	help   help.Model
	styles ui.Styles

	screen Screen
	width  int
	height int

	// List
	notes    viewstate.Snapshot
	selected int

	// Edit
	title         textinput.Model
	description   textinput.Model
	reminder      textinput.Model
	focus         field
	confirmDelete bool
	timer         string
	playing       playback.State

	// Settings
	theme      settings.Theme
	microphone bool

	statusText   string
	errorMessage string
	errorSeq     int

	unsubscribe func()
}

// New creates the model and subscribes it to note changes.
func New(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 120

	description := textinput.New()
	description.Placeholder = "Description"
	description.CharLimit = 500

	reminder := textinput.New()
	reminder.Placeholder = "15:04, 2006-01-02 15:04 or +10m"
	reminder.CharLimit = 32

	m := Model{
		deps:        deps,
		keys:        keys,
		help:        help.New(),
		styles:      ui.NewStyles(settings.ThemeSystem),
		screen:      ScreenLoading,
		title:       title,
		description: description,
		reminder:    reminder,
		theme:       settings.ThemeSystem,
		unsubscribe: func() {},
	}
	if deps.Notes != nil {
		m.notes = deps.Notes.Snapshot()
		events := deps.Events
		m.unsubscribe = deps.Notes.OnChange(func(s viewstate.Snapshot) {
			events.send(SnapshotMsg(s))
		})
	}
	return m
}

// Close stops listening for note changes.
func (m Model) Close() {
	m.unsubscribe()
}

// Screen returns the screen being shown.
func (m Model) Screen() Screen {
	return m.screen
}

// Init loads preferences and starts the refresh tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadPreferencesCmd(m.deps.Preferences, m.deps.Microphone),
		waitForEventCmd(m.deps.Events),
		tickCmd(),
	)
}

func loadPreferencesCmd(prefs Preferences, mic Microphone) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		msg := PreferencesLoadedMsg{Theme: settings.ThemeSystem}

		first, err := prefs.IsFirstLaunch(ctx)
		if err != nil {
			msg.Err = err
			return msg
		}
		msg.FirstLaunch = first

		if msg.Theme, err = prefs.Theme(ctx); err != nil {
			msg.Err = err
			return msg
		}
		if msg.Microphone, err = mic.Check(ctx); err != nil {
			msg.Err = err
		}
		return msg
	}
}

func waitForEventCmd(events Events) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		return <-events
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func clearTransientErrorCmd(seq int) tea.Cmd {
	return tea.Tick(transientErrorTime, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{Seq: seq}
	})
}

func completeOnboardingCmd(prefs Preferences) tea.Cmd {
	return func() tea.Msg {
		return OnboardedMsg{Err: prefs.CompleteOnboarding(context.Background())}
	}
}

func saveCmd(ed *editor.Editor) tea.Cmd {
	return func() tea.Msg {
		return SavedMsg{Err: ed.Save(context.Background())}
	}
}

func deleteCmd(ed *editor.Editor) tea.Cmd {
	return func() tea.Msg {
		return DeletedMsg{Err: ed.Delete(context.Background())}
	}
}

func toggleRecordingCmd(ed *editor.Editor) tea.Cmd {
	return func() tea.Msg {
		return RecordToggledMsg{Err: ed.ToggleRecording(context.Background())}
	}
}

func togglePlaybackCmd(ed *editor.Editor) tea.Cmd {
	return func() tea.Msg {
		state, err := ed.TogglePlayback(context.Background())
		return PlaybackToggledMsg{State: state, Err: err}
	}
}

func clearReminderCmd(ed *editor.Editor) tea.Cmd {
	return func() tea.Msg {
		return ReminderClearedMsg{Err: ed.ClearReminder(context.Background())}
	}
}

func setThemeCmd(prefs Preferences, theme settings.Theme) tea.Cmd {
	return func() tea.Msg {
		return ThemeChangedMsg{Theme: theme, Err: prefs.SetTheme(context.Background(), theme)}
	}
}

func toggleMicrophoneCmd(mic Microphone, granted bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if granted {
			return MicrophoneChangedMsg{Granted: false, Err: mic.Revoke(ctx)}
		}
		ok, err := mic.Request(ctx)
		return MicrophoneChangedMsg{Granted: ok, Err: err}
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case PreferencesLoadedMsg:
		m.theme = msg.Theme
		m.styles = ui.NewStyles(msg.Theme)
		m.microphone = msg.Microphone
		m.screen = ScreenList
		if msg.FirstLaunch {
			m.screen = ScreenOnboarding
		}
		if msg.Err != nil {
			cmd := m.showError(msg.Err)
			return m, cmd
		}
		return m, nil

	case SnapshotMsg:
		m.setSnapshot(viewstate.Snapshot(msg))
		return m, waitForEventCmd(m.deps.Events)

	case ErrorMsg:
		cmd := m.showErrorText(string(msg))
		return m, tea.Batch(cmd, waitForEventCmd(m.deps.Events))

	case TickMsg:
		m.refresh()
		return m, tickCmd()

	case OnboardedMsg:
		if msg.Err != nil {
			cmd := m.showError(msg.Err)
			return m, cmd
		}
		m.screen = ScreenList
		return m, nil

	case SavedMsg:
		if msg.Err != nil {
			cmd := m.showError(msg.Err)
			return m, cmd
		}
		m.leaveEditor()
		m.statusText = "Note saved"
		m.refresh()
		return m, nil

	case DeletedMsg:
		if msg.Err != nil {
			cmd := m.showError(msg.Err)
			return m, cmd
		}
		m.leaveEditor()
		m.statusText = "Note deleted"
		m.refresh()
		return m, nil

	case RecordToggledMsg:
		m.timer = m.deps.Editor.TimerText()
		if msg.Err != nil {
			cmd := m.showError(msg.Err)
			return m, cmd
		}
		return m, nil

	case PlaybackToggledMsg:
		m.playing = msg.State
		if msg.Err != nil {
			cmd := m.showError(msg.Err)
			return m, cmd
		}
		return m, nil

	case ReminderClearedMsg:
		if msg.Err != nil {
			cmd := m.showError(msg.Err)
			return m, cmd
		}
		m.statusText = "Reminder cleared"
		return m, nil

	case ThemeChangedMsg:
		if msg.Err != nil {
			cmd := m.showError(msg.Err)
			return m, cmd
		}
		m.theme = msg.Theme
		m.styles = ui.NewStyles(msg.Theme)
		return m, nil

	case MicrophoneChangedMsg:
		if msg.Err != nil {
			cmd := m.showError(msg.Err)
			return m, cmd
		}
		m.microphone = msg.Granted
		if !msg.Granted {
			m.statusText = "Microphone access is off"
		}
		return m, nil

	case ClearTransientErrorMsg:
		if msg.Seq == m.errorSeq {
			m.errorMessage = ""
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes key presses for the current screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		if m.screen == ScreenEdit {
			m.leaveEditor()
		}
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenOnboarding:
		if key.Matches(msg, m.keys.Continue) {
			return m, completeOnboardingCmd(m.deps.Preferences)
		}
	case ScreenList:
		return m.handleListKey(msg)
	case ScreenEdit:
		return m.handleEditKey(msg)
	case ScreenSettings:
		return m.handleSettingsKey(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.notes.Notes)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Open):
		if m.selected < len(m.notes.Notes) {
			note := m.notes.Notes[m.selected]
			cmd := m.openEditor(&note)
			return m, cmd
		}

	case key.Matches(msg, m.keys.New):
		cmd := m.openEditor(nil)
		return m, cmd

	case key.Matches(msg, m.keys.Settings):
		m.statusText = ""
		m.screen = ScreenSettings
	}
	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.deps.Editor

	if m.confirmDelete {
		m.confirmDelete = false
		if key.Matches(msg, m.keys.Confirm) {
			return m, deleteCmd(ed)
		}
		m.statusText = "Delete cancelled"
		return m, nil
	}

	if m.focus == fieldReminder {
		switch {
		case key.Matches(msg, m.keys.Back):
			cmd := m.focusField(fieldTitle)
			return m, cmd
		case msg.Type == tea.KeyEnter:
			return m.applyReminder()
		}
		var cmd tea.Cmd
		m.reminder, cmd = m.reminder.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.leaveEditor()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		next := fieldDescription
		if m.focus == fieldDescription {
			next = fieldTitle
		}
		cmd := m.focusField(next)
		return m, cmd

	case key.Matches(msg, m.keys.Record):
		if ed.IsNew() {
			return m, toggleRecordingCmd(ed)
		}
		return m, togglePlaybackCmd(ed)

	case key.Matches(msg, m.keys.SetReminder):
		m.reminder.SetValue("")
		cmd := m.focusField(fieldReminder)
		return m, cmd

	case key.Matches(msg, m.keys.ClearReminder):
		return m, clearReminderCmd(ed)

	case key.Matches(msg, m.keys.Save):
		return m, saveCmd(ed)

	case key.Matches(msg, m.keys.Delete):
		if ed.IsNew() {
			cmd := m.showErrorText("Save the note before deleting it")
			return m, cmd
		}
		m.confirmDelete = true
		return m, nil

	case key.Matches(msg, m.keys.Share):
		path, err := ed.SharePath()
		if err != nil {
			cmd := m.showError(err)
			return m, cmd
		}
		m.statusText = "Recording file: " + path
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
		ed.SetTitle(m.title.Value())
	case fieldDescription:
		m.description, cmd = m.description.Update(msg)
		ed.SetDescription(m.description.Value())
	}
	return m, cmd
}

func (m Model) applyReminder() (tea.Model, tea.Cmd) {
	picked, err := ParseReminder(m.reminder.Value(), m.deps.Now())
	if err != nil {
		cmd := m.showErrorText(err.Error())
		return m, cmd
	}
	fireAt := m.deps.Editor.PickReminder(picked)
	m.statusText = "Reminder at " + fireAt.Format("Mon Jan 2 15:04") + " once saved"
	cmd := m.focusField(fieldTitle)
	return m, cmd
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.screen = ScreenList
	case key.Matches(msg, m.keys.Theme):
		return m, setThemeCmd(m.deps.Preferences, m.theme.Next())
	case key.Matches(msg, m.keys.Microphone):
		return m, toggleMicrophoneCmd(m.deps.Microphone, m.microphone)
	}
	return m, nil
}

// openEditor starts editing note, or a new note when note is nil.
func (m *Model) openEditor(note *models.Note) tea.Cmd {
	ed := m.deps.Editor
	if note == nil {
		ed.NewNote()
	} else {
		ed.Open(*note)
	}

	current := ed.Note()
	m.title.SetValue(current.Title)
	m.description.SetValue(current.Description)
	m.reminder.SetValue("")
	m.confirmDelete = false
	m.playing = playback.StateStopped
	m.timer = ed.TimerText()
	m.statusText = ""
	m.screen = ScreenEdit
	return m.focusField(fieldTitle)
}

// leaveEditor stops capture and playback and returns to the list.
// An unsaved recording stays on disk for the cleanup service.
func (m *Model) leaveEditor() {
	ed := m.deps.Editor
	if ed.IsRecording() {
		if err := ed.StopRecording(); err != nil {
			logrus.WithError(err).Warn("Failed to stop recording")
		}
	}
	if err := ed.StopPlayback(); err != nil {
		logrus.WithError(err).Warn("Failed to stop playback")
	}
	m.title.Blur()
	m.description.Blur()
	m.reminder.Blur()
	m.confirmDelete = false
	m.playing = playback.StateStopped
	m.screen = ScreenList
}

func (m *Model) focusField(f field) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.description.Blur()
	m.reminder.Blur()
	switch f {
	case fieldDescription:
		return m.description.Focus()
	case fieldReminder:
		return m.reminder.Focus()
	default:
		return m.title.Focus()
	}
}

func (m *Model) refresh() {
	if m.deps.Editor != nil {
		m.timer = m.deps.Editor.TimerText()
		m.playing = m.deps.Editor.PlaybackState()
	}
	if m.deps.Notes != nil {
		m.setSnapshot(m.deps.Notes.Snapshot())
	}
}

func (m *Model) setSnapshot(s viewstate.Snapshot) {
	m.notes = s
	if m.selected >= len(s.Notes) {
		m.selected = max(0, len(s.Notes)-1)
	}
}

func (m *Model) showError(err error) tea.Cmd {
	return m.showErrorText(apperrors.UserMessage(err))
}

func (m *Model) showErrorText(text string) tea.Cmd {
	m.errorMessage = text
	m.errorSeq++
	return clearTransientErrorCmd(m.errorSeq)
}
