package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/audionote/internal/services/settings"
)

// Colors used throughout the TUI.
var (
	ColorRed    = lipgloss.Color("#E5484D")
	ColorGreen  = lipgloss.Color("#30A46C")
	ColorYellow = lipgloss.Color("#F5D90A")
	ColorGray   = lipgloss.Color("#8B8D98")
)

// Palette is one set of foreground colors for a theme.
type Palette struct {
	Text   lipgloss.TerminalColor
	Accent lipgloss.TerminalColor
	Muted  lipgloss.TerminalColor
}

var (
	lightPalette = Palette{
		Text:   lipgloss.Color("#1C2024"),
		Accent: lipgloss.Color("#0D74CE"),
		Muted:  lipgloss.Color("#60646C"),
	}
	darkPalette = Palette{
		Text:   lipgloss.Color("#EDEEF0"),
		Accent: lipgloss.Color("#70B8FF"),
		Muted:  ColorGray,
	}
	systemPalette = Palette{
		Text:   lipgloss.AdaptiveColor{Light: "#1C2024", Dark: "#EDEEF0"},
		Accent: lipgloss.AdaptiveColor{Light: "#0D74CE", Dark: "#70B8FF"},
		Muted:  lipgloss.AdaptiveColor{Light: "#60646C", Dark: "#8B8D98"},
	}
)

// Styles are the rendered styles for one theme.
type Styles struct {
	Title     lipgloss.Style
	Header    lipgloss.Style
	Text      lipgloss.Style
	Selected  lipgloss.Style
	Dim       lipgloss.Style
	Label     lipgloss.Style
	Recording lipgloss.Style
	Playing   lipgloss.Style
	Reminder  lipgloss.Style
	Error     lipgloss.Style
	Status    lipgloss.Style
	Prompt    lipgloss.Style
}

// NewStyles builds the styles for theme. The system theme follows the
// terminal background.
func NewStyles(theme settings.Theme) Styles {
	p := systemPalette
	switch theme {
	case settings.ThemeLight:
		p = lightPalette
	case settings.ThemeDark:
		p = darkPalette
	}

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			MarginBottom(1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),
		Text: lipgloss.NewStyle().
			Foreground(p.Text),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		Dim: lipgloss.NewStyle().
			Foreground(p.Muted),
		Label: lipgloss.NewStyle().
			Width(13).
			Foreground(p.Muted),
		Recording: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRed),
		Playing: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen),
		Reminder: lipgloss.NewStyle().
			Foreground(ColorYellow),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRed),
		Status: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Prompt: lipgloss.NewStyle().
			Foreground(p.Accent),
	}
}

// Swatch renders a dot in a note's ARGB color.
func Swatch(argb int) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(HexColor(argb))).
		Render("●")
}

// HexColor drops the alpha channel of an ARGB color.
func HexColor(argb int) string {
	return fmt.Sprintf("#%06X", argb&0xFFFFFF)
}
