package app

import (
	"fmt"
	"strings"

	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/playback"
	"github.com/killallgit/audionote/internal/services/recording"
	"github.com/killallgit/audionote/internal/services/settings"
	"github.com/killallgit/audionote/internal/services/viewstate"
	"github.com/killallgit/audionote/internal/tui/ui"
)

// View renders the current screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Audio Notes"))
	b.WriteString("\n")

	var help bindings
	switch m.screen {
	case ScreenLoading:
		b.WriteString(m.styles.Dim.Render("Loading..."))
	case ScreenOnboarding:
		b.WriteString(m.renderOnboarding())
		help = m.keys.onboardingHelp()
	case ScreenList:
		b.WriteString(m.renderList())
		help = m.keys.listHelp()
	case ScreenEdit:
		b.WriteString(m.renderEdit())
		help = m.keys.editHelp()
	case ScreenSettings:
		b.WriteString(m.renderSettings())
		help = m.keys.settingsHelp()
	}
	b.WriteString("\n\n")

	if m.errorMessage != "" {
		b.WriteString(m.styles.Error.Render(m.errorMessage))
		b.WriteString("\n")
	} else if m.statusText != "" {
		b.WriteString(m.styles.Status.Render(m.statusText))
		b.WriteString("\n")
	}
	if help != nil {
		b.WriteString(m.help.View(help))
	}
	return b.String()
}

func (m Model) renderOnboarding() string {
	lines := []string{
		m.styles.Header.Render("Welcome"),
		"",
		"Record a voice note, give it a title, and set a reminder.",
		"When the reminder fires a notification opens the note again.",
		"",
		m.styles.Dim.Render("Recording needs microphone access, which you can grant in settings."),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderList() string {
	switch m.notes.UI {
	case viewstate.Loading:
		return m.styles.Dim.Render("Loading notes...")
	case viewstate.Empty:
		return m.styles.Dim.Render("No notes yet. Press n to record one.")
	}

	var b strings.Builder
	for i, note := range m.notes.Notes {
		cursor := "  "
		title := m.styles.Text.Render(note.Title)
		if i == m.selected {
			cursor = m.styles.Selected.Render("> ")
			title = m.styles.Selected.Render(note.Title)
		}
		fmt.Fprintf(&b, "%s%s %s  %s%s\n",
			cursor,
			ui.Swatch(note.Color),
			title,
			m.styles.Dim.Render(recording.FormatElapsed(note.Duration())),
			m.reminderMarker(note),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) reminderMarker(note models.Note) string {
	if !note.HasReminder() {
		return ""
	}
	if note.ReminderCompleted(m.deps.Now()) {
		return "  " + m.styles.Dim.Render("✓")
	}
	return "  " + m.styles.Reminder.Render("⏰ "+note.ReminderTime().Local().Format("Jan 2 15:04"))
}

func (m Model) renderEdit() string {
	ed := m.deps.Editor
	note := ed.Note()

	heading := "Edit note"
	if ed.IsNew() {
		heading = "New note"
	}

	lines := []string{
		m.styles.Header.Render(heading),
		"",
		m.styles.Label.Render("Title") + m.title.View(),
		m.styles.Label.Render("Description") + m.description.View(),
		m.styles.Label.Render("Audio") + m.renderAudio(ed.IsNew(), ed.IsRecording()),
		m.styles.Label.Render("Size") + m.styles.Text.Render(sizeText(note)),
		m.styles.Label.Render("Reminder") + m.renderReminder(note),
	}
	if m.focus == fieldReminder {
		lines = append(lines, m.styles.Label.Render("Remind at")+m.reminder.View())
	}
	if m.confirmDelete {
		lines = append(lines, "", m.styles.Error.Render("Delete this note and its recording? (y/N)"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderAudio(isNew, isRecording bool) string {
	switch {
	case isRecording:
		return m.styles.Recording.Render("● REC " + m.timer)
	case m.playing == playback.StatePlaying:
		return m.styles.Playing.Render("▶ " + m.timer)
	case m.playing == playback.StatePaused:
		return m.styles.Dim.Render("❚❚ " + m.timer)
	case isNew:
		return m.styles.Dim.Render(m.timer + "  ctrl+r to record")
	default:
		return m.styles.Text.Render(m.timer + "  ctrl+r to play")
	}
}

func sizeText(note models.Note) string {
	if note.Size == "" {
		return "-"
	}
	return note.Size + " MB"
}

func (m Model) renderReminder(note models.Note) string {
	if !note.HasReminder() {
		return m.styles.Dim.Render("none")
	}
	at := note.ReminderTime().Local().Format("Mon Jan 2 15:04")
	if note.ReminderCompleted(m.deps.Now()) {
		return m.styles.Dim.Render(at + " (done)")
	}
	return m.styles.Reminder.Render(at)
}

func (m Model) renderSettings() string {
	mic := "not granted"
	if m.microphone {
		mic = "granted"
	}
	lines := []string{
		m.styles.Header.Render("Settings"),
		"",
		m.styles.Label.Render("Theme") + m.styles.Text.Render(themeName(m.theme)),
		m.styles.Label.Render("Microphone") + m.styles.Text.Render(mic),
	}
	return strings.Join(lines, "\n")
}

func themeName(t settings.Theme) string {
	switch t {
	case settings.ThemeLight:
		return "Light"
	case settings.ThemeDark:
		return "Dark"
	default:
		return "System default"
	}
}
