package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the study screen.
type Styles struct {
	Header   lipgloss.Style
	Stats    lipgloss.Style
	Badge    lipgloss.Style
	Front    lipgloss.Style
	Pronunciation  lipgloss.Style
	Divider  lipgloss.Style
	Back     lipgloss.Style
	Waiting  lipgloss.Style
	Complete lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
}

// DefaultStyles returns the study screen styles.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#2563eb")).
			Padding(0, 1).
			Bold(true),

		Stats: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280")),

		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1),

		Front: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1),

		Pronunciation: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280")).
			Italic(true),

		Divider: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ca3af")).
			MarginTop(1),

		Back: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16a34a")),

		Waiting: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ca3af")).
			Italic(true),

		Complete: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16a34a")).
			Bold(true),

		Help: lipgloss.NewStyle().
			MarginTop(1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9ca3af")).
			Padding(0, 2),
	}
}

// categoryBadge renders a category name on its own color, falling back to
// a neutral gray when the color is missing.
func (s Styles) categoryBadge(name, color string) string {
	if color == "" {
		color = "#6b7280"
	}
	return s.Badge.Background(lipgloss.Color(color)).Render(name)
}
