package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/safedep/tally/core/activity"
)

var (
	colorGreen = lipgloss.Color("#6BCB77")
	colorAmber = lipgloss.Color("#F0AD4E")
	colorRed   = lipgloss.Color("#E74C3C")
	colorBlue  = lipgloss.Color("#5B9BD5")
	colorDim   = lipgloss.Color("#7F8C8D")

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	barStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	emptyBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

func statusColor(status string) lipgloss.Color {
	switch activity.Status(status) {
	case activity.StatusHighlyActive:
		return colorGreen
	case activity.StatusActive:
		return colorAmber
	default:
		return colorRed
	}
}

// renderStatusBadge renders a status label, as a colored badge when colors
// are enabled.
func renderStatusBadge(status string, colored bool) string {
	if !colored {
		return status
	}
	return badgeStyle.Foreground(statusColor(status)).Render(status)
}

// renderBar renders a horizontal bar of width cells, filled in proportion
// to value/peak.
func renderBar(value, peak int64, width int, colored bool) string {
	if peak <= 0 || width <= 0 {
		return ""
	}
	filled := int(value * int64(width) / peak)
	if filled > width {
		filled = width
	}
	if value > 0 && filled == 0 {
		filled = 1
	}

	full := strings.Repeat("█", filled)
	empty := strings.Repeat("░", width-filled)
	if !colored {
		return full + empty
	}
	return barStyle.Render(full) + emptyBarStyle.Render(empty)
}
