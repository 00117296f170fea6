package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorSelectedFg = lipgloss.Color("255")
	colorSelectedBg = lipgloss.Color("236")
	colorMuted      = lipgloss.AdaptiveColor{Light: "244", Dark: "244"}
	colorFavorite   = lipgloss.AdaptiveColor{Light: "172", Dark: "214"}
	colorDanger     = lipgloss.AdaptiveColor{Light: "160", Dark: "203"}
	colorAccent     = lipgloss.AdaptiveColor{Light: "26", Dark: "75"}
)

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleHeader() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true)
}

// applyColorProfilePreference sets Lip Gloss's color profile for the TUI.
//
// termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which suits
// non-interactive output but can accidentally disable colors in a TUI; here
// only NO_COLOR is honored, otherwise the terminal's capabilities decide.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	}
	lipgloss.SetColorProfile(profile)
}
