package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette for all CLI output. Never use inline lipgloss.Color literals.
var (
	ColorCyan       = lipgloss.Color("14")
	ColorGreen      = lipgloss.Color("82")
	ColorYellow     = lipgloss.Color("220")
	ColorBoldRed    = lipgloss.Color("204")
	ColorGreenCheck = lipgloss.Color("10")
	ColorDimGray    = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns: template names, paths, languages.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	// StyleWarning styles advisory lines.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)
)

// File status constants.
const (
	StatusCreated  = "created"
	StatusExcluded = "excluded"
	StatusBuilt    = "built"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// StatusStyle returns the style for a status string. Unknown statuses return
// an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCreated, StatusBuilt:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusExcluded, StatusSkipped:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

const minPathColumnWidth = 40

// FormatStatusLine renders a path with a right-aligned, color-coded status.
func FormatStatusLine(path, status string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}
	return StyleNoun.Render(path) + strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatWarning renders an advisory line.
func FormatWarning(msg string) string {
	return StyleWarning.Render("! " + msg)
}
